package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	appinventory "github.com/jhoicas/stock-peinture-api/internal/application/inventory"
	"github.com/jhoicas/stock-peinture-api/internal/application/ports"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/internal/domain/inventory"
	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

const (
	resourceProduct  = "du produit"
	resourceProducts = "des produits"
)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	txRunner     appinventory.TxRunner
	cache        ports.Cache
	log          *logger.Logger
	now          func() time.Time
}

// NewProductUseCase construye el caso de uso. cache puede ser nil.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	txRunner appinventory.TxRunner,
	cache ports.Cache,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		repo:         repo,
		categoryRepo: categoryRepo,
		txRunner:     txRunner,
		cache:        cache,
		log:          log,
		now:          time.Now,
	}
}

// Create crea un producto.
//   - SKU vacío: se genera con inventory.GenerateSKU.
//   - Price 0 se persiste como null. Comportamiento heredado que los clientes existentes esperan;
//     no corregir sin una decisión de producto.
//   - Un stock inicial > 0 queda registrado como movimiento "entry" en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, organizationID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.StockCurrent < 0 || in.StockMin < 0 || in.StockMax < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkCategory(ctx, organizationID, in.CategoryID); err != nil {
		return nil, err
	}

	now := uc.now()
	sku := strings.ToUpper(strings.TrimSpace(in.SKU))
	if sku == "" {
		sku = inventory.GenerateSKU(name, now)
	}
	price := in.Price
	if price != nil && price.IsZero() {
		price = nil
	}

	product := &entity.Product{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		CategoryID:     in.CategoryID,
		Name:           name,
		SKU:            sku,
		Description:    in.Description,
		ImageURL:       in.ImageURL,
		StockCurrent:   in.StockCurrent,
		StockMin:       in.StockMin,
		StockMax:       in.StockMax,
		Price:          price,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
		_ repository.TechnicianInventoryRepository,
	) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if product.StockCurrent == 0 {
			return nil
		}
		return movementRepo.Create(ctx, &entity.StockMovement{
			ID:             uuid.New().String(),
			OrganizationID: organizationID,
			ProductID:      product.ID,
			Type:           entity.MovementEntry,
			Quantity:       product.StockCurrent,
			Notes:          "Stock initial",
			CreatedBy:      userID,
			CreatedAt:      now.UTC(),
		})
	})
	if err != nil {
		return nil, domain.CreateErr(resourceProduct, err)
	}
	ports.InvalidateStats(ctx, uc.cache, uc.log, organizationID)
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto de la organización.
func (uc *ProductUseCase) GetByID(ctx context.Context, organizationID, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, domain.FetchErr(resourceProduct, err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(p), nil
}

// List lista productos con búsqueda, filtro por categoría (incluye subcategorías) y paginación.
func (uc *ProductUseCase) List(ctx context.Context, organizationID string, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	in.Normalize()
	f := repository.ProductFilter{
		Search:          in.Search,
		IncludeArchived: in.IncludeArchived,
		Limit:           in.Limit,
		Offset:          in.Offset,
	}
	if in.CategoryID != "" {
		ids, err := uc.categoryScope(ctx, organizationID, in.CategoryID)
		if err != nil {
			return nil, err
		}
		f.CategoryIDs = ids
	}
	list, err := uc.repo.List(ctx, organizationID, f)
	if err != nil {
		return nil, domain.FetchErr(resourceProducts, err)
	}
	total, err := uc.repo.Count(ctx, organizationID, f)
	if err != nil {
		return nil, domain.FetchErr(resourceProducts, err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  in.Page(len(items), total),
	}, nil
}

// Update actualiza datos descriptivos. Price nil = sin cambio; Price 0 vuelve a null, igual que en Create.
func (uc *ProductUseCase) Update(ctx context.Context, organizationID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, domain.FetchErr(resourceProduct, err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		p.Name = name
	}
	if in.SKU != nil {
		sku := strings.ToUpper(strings.TrimSpace(*in.SKU))
		if sku == "" {
			return nil, domain.ErrInvalidInput
		}
		p.SKU = sku
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, organizationID, *in.CategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = *in.CategoryID
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.StockMin != nil {
		p.StockMin = *in.StockMin
	}
	if in.StockMax != nil {
		p.StockMax = *in.StockMax
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if in.Price.IsZero() {
			p.Price = nil
		} else {
			price := *in.Price
			p.Price = &price
		}
	}
	if p.StockMin < 0 || p.StockMax < 0 {
		return nil, domain.ErrInvalidInput
	}
	p.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, domain.UpdateErr(resourceProduct, err)
	}
	ports.InvalidateStats(ctx, uc.cache, uc.log, organizationID)
	return ToProductResponse(p), nil
}

// Archive baja lógica del producto; su historial de movimientos se conserva.
func (uc *ProductUseCase) Archive(ctx context.Context, organizationID, id string) error {
	if err := uc.repo.Archive(ctx, organizationID, id); err != nil {
		return domain.DeleteErr(resourceProduct, err)
	}
	ports.InvalidateStats(ctx, uc.cache, uc.log, organizationID)
	return nil
}

// Stats agregados del catálogo activo (ver inventory.ComputeProductStats).
func (uc *ProductUseCase) Stats(ctx context.Context, organizationID string) (*dto.ProductStatsResponse, error) {
	list, err := uc.repo.List(ctx, organizationID, repository.ProductFilter{})
	if err != nil {
		return nil, domain.FetchErr("des statistiques produits", err)
	}
	stats := inventory.ComputeProductStats(list)
	return &stats, nil
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, organizationID, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	c, err := uc.categoryRepo.GetByID(ctx, organizationID, categoryID)
	if err != nil {
		return domain.FetchErr(resourceCategory, err)
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return nil
}

// categoryScope la categoría pedida y todas sus descendientes.
func (uc *ProductUseCase) categoryScope(ctx context.Context, organizationID, categoryID string) ([]string, error) {
	all, err := uc.categoryRepo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, domain.FetchErr("des catégories", err)
	}
	return inventory.DescendantIDs(CategoryRefs(all), categoryID)
}

// CategoryRefs proyecta entidades a la vista mínima usada por el árbol.
func CategoryRefs(list []*entity.Category) []inventory.CategoryRef {
	refs := make([]inventory.CategoryRef, 0, len(list))
	for _, c := range list {
		refs = append(refs, inventory.CategoryRef{ID: c.ID, Name: c.Name, ParentID: c.ParentID})
	}
	return refs
}

// ToProductResponse mapea la entidad al DTO, con score y banda de stock.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	score := inventory.StockScore(p.StockCurrent, p.StockMax)
	return &dto.ProductResponse{
		ID:           p.ID,
		CategoryID:   p.CategoryID,
		Name:         p.Name,
		SKU:          p.SKU,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		StockCurrent: p.StockCurrent,
		StockMin:     p.StockMin,
		StockMax:     p.StockMax,
		StockScore:   score,
		StockBand:    inventory.ScoreBand(score),
		Price:        p.Price,
		ArchivedAt:   p.ArchivedAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
