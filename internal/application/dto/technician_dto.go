package dto

import (
	"time"

	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
)

// CreateTechnicianRequest alta de técnico.
type CreateTechnicianRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=80"`
	LastName  string `json:"last_name" validate:"max=80"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
}

// UpdateTechnicianRequest campos nil no se modifican.
type UpdateTechnicianRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=80"`
	LastName  *string `json:"last_name" validate:"omitempty,max=80"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
}

// TechnicianResponse salida de un técnico.
type TechnicianResponse struct {
	ID         string     `json:"id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	FullName   string     `json:"full_name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TechnicianInventoryItem cantidad de un producto en poder del técnico.
type TechnicianInventoryItem struct {
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	SKU         string    `json:"sku"`
	Quantity    int       `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TechnicianHistoryEntry snapshot tomado en una reposición.
type TechnicianHistoryEntry struct {
	ID        string                         `json:"id"`
	Lines     []entity.InventorySnapshotLine `json:"lines"`
	CreatedBy string                         `json:"created_by,omitempty"`
	CreatedAt time.Time                      `json:"created_at"`
}
