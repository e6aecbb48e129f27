package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/application/ports"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/internal/domain/inventory"
	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

const resourceCategory = "de la catégorie"

// CategoryUseCase CRUD de categorías.
type CategoryUseCase struct {
	repo  repository.CategoryRepository
	cache ports.Cache
	log   *logger.Logger
}

// NewCategoryUseCase construye el caso de uso. cache puede ser nil.
func NewCategoryUseCase(repo repository.CategoryRepository, cache ports.Cache, log *logger.Logger) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, cache: cache, log: log}
}

// Create crea una categoría. ParentID debe existir en la misma organización.
func (uc *CategoryUseCase) Create(ctx context.Context, organizationID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.ParentID != "" {
		parent, err := uc.repo.GetByID(ctx, organizationID, in.ParentID)
		if err != nil {
			return nil, domain.CreateErr(resourceCategory, err)
		}
		if parent == nil {
			return nil, domain.ErrNotFound
		}
	}
	now := time.Now()
	c := &entity.Category{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		ParentID:       in.ParentID,
		Name:           name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, domain.CreateErr(resourceCategory, err)
	}
	return toCategoryResponse(c), nil
}

// Get obtiene una categoría.
func (uc *CategoryUseCase) Get(ctx context.Context, organizationID, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, domain.FetchErr(resourceCategory, err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCategoryResponse(c), nil
}

// List todas las categorías de la organización (lista plana).
func (uc *CategoryUseCase) List(ctx context.Context, organizationID string) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, domain.FetchErr("des catégories", err)
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Update renombra o mueve la categoría. Mover una categoría bajo sí misma o bajo un
// descendiente devuelve ErrCategoryCycle.
func (uc *CategoryUseCase) Update(ctx context.Context, organizationID, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, domain.FetchErr(resourceCategory, err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		c.Name = name
	}
	if in.ParentID != nil && *in.ParentID != c.ParentID {
		if err := uc.checkNewParent(ctx, organizationID, id, *in.ParentID); err != nil {
			return nil, err
		}
		c.ParentID = *in.ParentID
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, domain.UpdateErr(resourceCategory, err)
	}
	ports.InvalidateStats(ctx, uc.cache, uc.log, organizationID)
	return toCategoryResponse(c), nil
}

func (uc *CategoryUseCase) checkNewParent(ctx context.Context, organizationID, id, parentID string) error {
	if parentID == "" {
		return nil
	}
	if parentID == id {
		return domain.ErrCategoryCycle
	}
	all, err := uc.repo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return domain.FetchErr("des catégories", err)
	}
	found := false
	for _, c := range all {
		if c.ID == parentID {
			found = true
			break
		}
	}
	if !found {
		return domain.ErrNotFound
	}
	descendants, err := inventory.DescendantIDs(CategoryRefs(all), id)
	if err != nil {
		return err
	}
	for _, d := range descendants {
		if d == parentID {
			return domain.ErrCategoryCycle
		}
	}
	return nil
}

// Delete elimina la categoría. Una categoría con subcategorías no se puede borrar
// (ErrCategoryHasChildren); sus productos quedan sin categoría.
func (uc *CategoryUseCase) Delete(ctx context.Context, organizationID, id string) error {
	n, err := uc.repo.CountChildren(ctx, organizationID, id)
	if err != nil {
		return domain.DeleteErr(resourceCategory, err)
	}
	if n > 0 {
		return domain.ErrCategoryHasChildren
	}
	if err := uc.repo.Delete(ctx, organizationID, id); err != nil {
		return domain.DeleteErr(resourceCategory, err)
	}
	ports.InvalidateStats(ctx, uc.cache, uc.log, organizationID)
	return nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:        c.ID,
		ParentID:  c.ParentID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
