package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product artículo del catálogo. StockCurrent es un total cacheado que los movimientos mantienen
// sincronizado dentro de la misma transacción; StockMin/StockMax no restringen StockCurrent.
type Product struct {
	ID             string
	OrganizationID string
	CategoryID     string // vacío = sin categoría
	Name           string
	SKU            string // único por organización
	Description    string
	ImageURL       string
	StockCurrent   int
	StockMin       int
	StockMax       int
	Price          *decimal.Decimal // nil = sin precio
	ArchivedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsArchived informa si el producto fue dado de baja lógica.
func (p *Product) IsArchived() bool { return p.ArchivedAt != nil }
