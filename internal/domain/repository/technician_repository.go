package repository

import (
	"context"

	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
)

// TechnicianRepository define el puerto de persistencia para Technician (DIP).
type TechnicianRepository interface {
	Create(ctx context.Context, t *entity.Technician) error
	GetByID(ctx context.Context, organizationID, id string) (*entity.Technician, error)
	Update(ctx context.Context, t *entity.Technician) error
	Archive(ctx context.Context, organizationID, id string) error
	List(ctx context.Context, organizationID string, includeArchived bool) ([]*entity.Technician, error)
	Count(ctx context.Context, organizationID string) (int, error)
}

// TechnicianInventoryRepository inventario actual por técnico y su historial de snapshots.
type TechnicianInventoryRepository interface {
	// AddQuantity suma delta a la fila (technician, product), creándola si no existe.
	AddQuantity(ctx context.Context, organizationID, technicianID, productID string, delta int) error
	ListByTechnician(ctx context.Context, organizationID, technicianID string) ([]*entity.TechnicianInventory, error)
	AppendHistory(ctx context.Context, h *entity.TechnicianInventoryHistory) error
	ListHistory(ctx context.Context, organizationID, technicianID string, limit int) ([]*entity.TechnicianInventoryHistory, error)
}
