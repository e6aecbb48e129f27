package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
)

// MovementFilter filtros de listado de movimientos.
type MovementFilter struct {
	ProductIDs   []string
	TechnicianID string
	Type         string
	From         *time.Time
	To           *time.Time
	Limit        int // 0 = sin límite
	Offset       int
}

// StockMovementRepository define el puerto de persistencia para movimientos (append-only).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// List devuelve los movimientos ordenados por created_at ascendente.
	List(ctx context.Context, organizationID string, f MovementFilter) ([]*entity.StockMovement, error)
}
