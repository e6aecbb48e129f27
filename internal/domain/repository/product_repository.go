package repository

import (
	"context"

	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	Search          string   // coincide con nombre o SKU (ILIKE)
	CategoryIDs     []string // vacío = todas
	IncludeArchived bool
	Limit           int // 0 = sin límite
	Offset          int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, organizationID, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); solo tiene sentido dentro de una tx.
	GetForUpdate(ctx context.Context, organizationID, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, id string, stockCurrent int) error
	Archive(ctx context.Context, organizationID, id string) error
	List(ctx context.Context, organizationID string, f ProductFilter) ([]*entity.Product, error)
	// Count ignora Limit/Offset.
	Count(ctx context.Context, organizationID string, f ProductFilter) (int, error)
}
