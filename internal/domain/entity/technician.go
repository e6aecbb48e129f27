package entity

import (
	"encoding/json"
	"time"
)

// Technician técnico de campo con inventario propio.
type Technician struct {
	ID             string
	OrganizationID string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	ArchivedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName nombre para mostrar.
func (t *Technician) FullName() string {
	if t.LastName == "" {
		return t.FirstName
	}
	return t.FirstName + " " + t.LastName
}

// TechnicianInventory cantidad actual de un producto en poder de un técnico.
type TechnicianInventory struct {
	OrganizationID string
	TechnicianID   string
	ProductID      string
	ProductName    string // solo lectura (join con products)
	ProductSKU     string // solo lectura
	Quantity       int
	UpdatedAt      time.Time
}

// InventorySnapshotLine línea del snapshot guardado en el historial.
type InventorySnapshotLine struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	Added       int    `json:"added"` // cantidad repuesta en este evento (0 si no cambió)
}

// TechnicianInventoryHistory snapshot append-only tomado en cada reposición; solo para mostrar.
type TechnicianInventoryHistory struct {
	ID             string
	OrganizationID string
	TechnicianID   string
	Snapshot       json.RawMessage // []InventorySnapshotLine
	CreatedBy      string
	CreatedAt      time.Time
}
