package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/application/ports"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

const resourceTechnician = "du technicien"

// DefaultHistoryLimit snapshots devueltos por defecto en el historial.
const DefaultHistoryLimit = 50

// TechnicianUseCase técnicos, su inventario y su historial de reposiciones.
type TechnicianUseCase struct {
	repo          repository.TechnicianRepository
	inventoryRepo repository.TechnicianInventoryRepository
	cache         ports.Cache
	log           *logger.Logger
}

// NewTechnicianUseCase construye el caso de uso.
func NewTechnicianUseCase(
	repo repository.TechnicianRepository,
	inventoryRepo repository.TechnicianInventoryRepository,
	cache ports.Cache,
	log *logger.Logger,
) *TechnicianUseCase {
	return &TechnicianUseCase{repo: repo, inventoryRepo: inventoryRepo, cache: cache, log: log}
}

func (uc *TechnicianUseCase) Create(ctx context.Context, organizationID string, in dto.CreateTechnicianRequest) (*dto.TechnicianResponse, error) {
	first := strings.TrimSpace(in.FirstName)
	if first == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	t := &entity.Technician{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		FirstName:      first,
		LastName:       strings.TrimSpace(in.LastName),
		Email:          strings.TrimSpace(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, domain.CreateErr(resourceTechnician, err)
	}
	ports.InvalidateStats(ctx, uc.cache, uc.log, organizationID)
	return ToTechnicianResponse(t), nil
}

func (uc *TechnicianUseCase) Get(ctx context.Context, organizationID, id string) (*dto.TechnicianResponse, error) {
	t, err := uc.get(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return ToTechnicianResponse(t), nil
}

func (uc *TechnicianUseCase) get(ctx context.Context, organizationID, id string) (*entity.Technician, error) {
	t, err := uc.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, domain.FetchErr(resourceTechnician, err)
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (uc *TechnicianUseCase) List(ctx context.Context, organizationID string, includeArchived bool) ([]dto.TechnicianResponse, error) {
	list, err := uc.repo.List(ctx, organizationID, includeArchived)
	if err != nil {
		return nil, domain.FetchErr("des techniciens", err)
	}
	out := make([]dto.TechnicianResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *ToTechnicianResponse(t))
	}
	return out, nil
}

func (uc *TechnicianUseCase) Update(ctx context.Context, organizationID, id string, in dto.UpdateTechnicianRequest) (*dto.TechnicianResponse, error) {
	t, err := uc.get(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		first := strings.TrimSpace(*in.FirstName)
		if first == "" {
			return nil, domain.ErrInvalidInput
		}
		t.FirstName = first
	}
	if in.LastName != nil {
		t.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		t.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		t.Phone = strings.TrimSpace(*in.Phone)
	}
	t.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, domain.UpdateErr(resourceTechnician, err)
	}
	return ToTechnicianResponse(t), nil
}

// Archive baja lógica; su inventario e historial se conservan.
func (uc *TechnicianUseCase) Archive(ctx context.Context, organizationID, id string) error {
	if err := uc.repo.Archive(ctx, organizationID, id); err != nil {
		return domain.DeleteErr(resourceTechnician, err)
	}
	ports.InvalidateStats(ctx, uc.cache, uc.log, organizationID)
	return nil
}

// Inventory cantidades actuales del técnico por producto.
func (uc *TechnicianUseCase) Inventory(ctx context.Context, organizationID, id string) ([]dto.TechnicianInventoryItem, error) {
	if _, err := uc.get(ctx, organizationID, id); err != nil {
		return nil, err
	}
	items, err := uc.inventoryRepo.ListByTechnician(ctx, organizationID, id)
	if err != nil {
		return nil, domain.FetchErr("de l'inventaire du technicien", err)
	}
	out := make([]dto.TechnicianInventoryItem, 0, len(items))
	for _, it := range items {
		out = append(out, dto.TechnicianInventoryItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.ProductSKU,
			Quantity:    it.Quantity,
			UpdatedAt:   it.UpdatedAt,
		})
	}
	return out, nil
}

// History snapshots de reposición, más recientes primero.
func (uc *TechnicianUseCase) History(ctx context.Context, organizationID, id string, limit int) ([]dto.TechnicianHistoryEntry, error) {
	if _, err := uc.get(ctx, organizationID, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	list, err := uc.inventoryRepo.ListHistory(ctx, organizationID, id, limit)
	if err != nil {
		return nil, domain.FetchErr("de l'historique du technicien", err)
	}
	out := make([]dto.TechnicianHistoryEntry, 0, len(list))
	for _, h := range list {
		var lines []entity.InventorySnapshotLine
		if len(h.Snapshot) > 0 {
			if err := json.Unmarshal(h.Snapshot, &lines); err != nil {
				return nil, domain.FetchErr("de l'historique du technicien", err)
			}
		}
		out = append(out, dto.TechnicianHistoryEntry{
			ID: h.ID, Lines: lines, CreatedBy: h.CreatedBy, CreatedAt: h.CreatedAt,
		})
	}
	return out, nil
}

// ToTechnicianResponse mapea la entidad al DTO de salida.
func ToTechnicianResponse(t *entity.Technician) *dto.TechnicianResponse {
	return &dto.TechnicianResponse{
		ID:         t.ID,
		FirstName:  t.FirstName,
		LastName:   t.LastName,
		FullName:   t.FullName(),
		Email:      t.Email,
		Phone:      t.Phone,
		ArchivedAt: t.ArchivedAt,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}
