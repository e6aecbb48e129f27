package dto

import "time"

// RegisterMovementRequest entrada HTTP para registrar un movimiento de stock.
type RegisterMovementRequest struct {
	ProductID    string `json:"product_id" validate:"required,uuid"`
	Type         string `json:"type" validate:"required,oneof=entry exit_technician exit_anonymous exit_loss"`
	Quantity     int    `json:"quantity" validate:"required,gt=0"`
	TechnicianID string `json:"technician_id" validate:"omitempty,uuid"`
	Notes        string `json:"notes" validate:"max=500"`
}

// RestockLine una línea de reposición.
type RestockLine struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// RestockRequest reposición de varios productos a un técnico en una sola operación.
type RestockRequest struct {
	Lines []RestockLine `json:"lines" validate:"required,min=1,dive"`
	Notes string        `json:"notes" validate:"max=500"`
}

// MovementListRequest filtros de listado (query string). Fechas en RFC3339.
type MovementListRequest struct {
	ProductID    string `query:"product_id" validate:"omitempty,uuid"`
	TechnicianID string `query:"technician_id" validate:"omitempty,uuid"`
	Type         string `query:"type" validate:"omitempty,oneof=entry exit_technician exit_anonymous exit_loss"`
	From         string `query:"from"`
	To           string `query:"to"`
	PageRequest
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	TechnicianID string    `json:"technician_id,omitempty"`
	Type         string    `json:"type"`
	Quantity     int       `json:"quantity"`
	Notes        string    `json:"notes,omitempty"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// MovementResultResponse movimiento registrado más el stock resultante del producto.
type MovementResultResponse struct {
	Movement     MovementResponse `json:"movement"`
	StockCurrent int              `json:"stock_current"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
