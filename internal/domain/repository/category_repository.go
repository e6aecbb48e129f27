package repository

import (
	"context"

	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, organizationID, id string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// ListByOrganization devuelve todas las categorías (lista plana, el árbol se arma en memoria).
	ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Category, error)
	CountChildren(ctx context.Context, organizationID, id string) (int, error)
	Delete(ctx context.Context, organizationID, id string) error
}
