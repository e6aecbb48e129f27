package analytics

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/internal/domain/inventory"
	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
)

const (
	resourceEvolution = "de l'évolution du stock"
	resourceBreakdown = "de la répartition du stock"
)

// EvolutionOptions ventana del gráfico. Location agrupa los movimientos por mes.
type EvolutionOptions struct {
	DefaultMonths int
	MaxMonths     int
	Location      *time.Location
	Now           func() time.Time // nil = time.Now
}

// EvolutionUseCase evolución mensual del stock y desglose por categoría.
type EvolutionUseCase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	movementRepo repository.StockMovementRepository
	opts         EvolutionOptions
}

// NewEvolutionUseCase construye el caso de uso.
func NewEvolutionUseCase(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	movementRepo repository.StockMovementRepository,
	opts EvolutionOptions,
) *EvolutionUseCase {
	if opts.DefaultMonths <= 0 {
		opts.DefaultMonths = inventory.DefaultEvolutionMonths
	}
	if opts.MaxMonths < opts.DefaultMonths {
		opts.MaxMonths = opts.DefaultMonths
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &EvolutionUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		movementRepo: movementRepo,
		opts:         opts,
	}
}

func (uc *EvolutionUseCase) months(requested int) (int, error) {
	switch {
	case requested == 0:
		return uc.opts.DefaultMonths, nil
	case requested < 0 || requested > uc.opts.MaxMonths:
		return 0, domain.ErrInvalidInput
	}
	return requested, nil
}

// Evolution serie mensual de un producto, una categoría (con sus subcategorías) o de toda la
// organización si no hay filtro. ProductID tiene prioridad sobre CategoryID.
func (uc *EvolutionUseCase) Evolution(ctx context.Context, organizationID string, in dto.EvolutionRequest) (*dto.EvolutionResponse, error) {
	months, err := uc.months(in.Months)
	if err != nil {
		return nil, err
	}
	now := uc.opts.Now().In(uc.opts.Location)

	var points []inventory.EvolutionPoint
	switch {
	case in.ProductID != "":
		points, err = uc.productEvolution(ctx, organizationID, in.ProductID, months, now)
	case in.CategoryID != "":
		points, err = uc.categoryEvolution(ctx, organizationID, in.CategoryID, months, now)
	default:
		points, err = uc.scopeEvolution(ctx, organizationID, nil, months, now)
	}
	if err != nil {
		return nil, err
	}
	return &dto.EvolutionResponse{Months: months, Points: points}, nil
}

// MultiEvolution una serie por producto, calculadas en paralelo. Cada resultado se guarda en
// su propia clave; el orden de llegada no importa. Un producto inexistente falla la petición.
func (uc *EvolutionUseCase) MultiEvolution(ctx context.Context, organizationID string, in dto.MultiEvolutionRequest) (*dto.MultiEvolutionResponse, error) {
	if len(in.ProductIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	months, err := uc.months(in.Months)
	if err != nil {
		return nil, err
	}
	now := uc.opts.Now().In(uc.opts.Location)

	var mu sync.Mutex
	series := make(map[string][]inventory.EvolutionPoint, len(in.ProductIDs))
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range in.ProductIDs {
		id := id
		g.Go(func() error {
			points, err := uc.productEvolution(gctx, organizationID, id, months, now)
			if err != nil {
				return err
			}
			mu.Lock()
			series[id] = points
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dto.MultiEvolutionResponse{Months: months, Series: series}, nil
}

func (uc *EvolutionUseCase) productEvolution(ctx context.Context, organizationID, productID string, months int, now time.Time) ([]inventory.EvolutionPoint, error) {
	p, err := uc.productRepo.GetByID(ctx, organizationID, productID)
	if err != nil {
		return nil, domain.FetchErr(resourceEvolution, err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return uc.scopeEvolution(ctx, organizationID, []*entity.Product{p}, months, now)
}

func (uc *EvolutionUseCase) categoryEvolution(ctx context.Context, organizationID, categoryID string, months int, now time.Time) ([]inventory.EvolutionPoint, error) {
	cats, err := uc.categoryRepo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, domain.FetchErr(resourceEvolution, err)
	}
	ids, err := inventory.DescendantIDs(categoryRefs(cats), categoryID)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.List(ctx, organizationID, repository.ProductFilter{
		CategoryIDs:     ids,
		IncludeArchived: true,
	})
	if err != nil {
		return nil, domain.FetchErr(resourceEvolution, err)
	}
	if len(products) == 0 {
		return inventory.ReconstructEvolution(0, nil, months, now), nil
	}
	return uc.scopeEvolution(ctx, organizationID, products, months, now)
}

// scopeEvolution reconstruye la serie para products; nil = toda la organización.
// Los archivados cuentan: sus movimientos siguen en el historial.
func (uc *EvolutionUseCase) scopeEvolution(ctx context.Context, organizationID string, products []*entity.Product, months int, now time.Time) ([]inventory.EvolutionPoint, error) {
	if products == nil {
		all, err := uc.productRepo.List(ctx, organizationID, repository.ProductFilter{IncludeArchived: true})
		if err != nil {
			return nil, domain.FetchErr(resourceEvolution, err)
		}
		products = all
	}

	total := 0
	ids := make([]string, 0, len(products))
	for _, p := range products {
		total += p.StockCurrent
		ids = append(ids, p.ID)
	}

	from := inventory.WindowStart(now, months)
	f := repository.MovementFilter{From: &from}
	if len(ids) > 0 {
		f.ProductIDs = ids
	}
	movements, err := uc.movementRepo.List(ctx, organizationID, f)
	if err != nil {
		return nil, domain.FetchErr(resourceEvolution, err)
	}
	deltas := make([]inventory.MovementDelta, 0, len(movements))
	for _, m := range movements {
		deltas = append(deltas, inventory.MovementDelta{Type: m.Type, Quantity: m.Quantity, At: m.CreatedAt})
	}
	return inventory.ReconstructEvolution(total, deltas, months, now), nil
}

// Breakdown árbol de stock por categoría, desde la raíz de la organización o desde rootID.
// Solo productos activos.
func (uc *EvolutionUseCase) Breakdown(ctx context.Context, organizationID, rootID string) (*dto.BreakdownResponse, error) {
	cats, err := uc.categoryRepo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, domain.FetchErr(resourceBreakdown, err)
	}
	products, err := uc.productRepo.List(ctx, organizationID, repository.ProductFilter{})
	if err != nil {
		return nil, domain.FetchErr(resourceBreakdown, err)
	}
	refs := make([]inventory.ProductRef, 0, len(products))
	for _, p := range products {
		refs = append(refs, inventory.ProductRef{ID: p.ID, Name: p.Name, CategoryID: p.CategoryID, Stock: p.StockCurrent})
	}
	return inventory.BuildBreakdown(categoryRefs(cats), refs, rootID)
}

func categoryRefs(list []*entity.Category) []inventory.CategoryRef {
	refs := make([]inventory.CategoryRef, 0, len(list))
	for _, c := range list {
		refs = append(refs, inventory.CategoryRef{ID: c.ID, Name: c.Name, ParentID: c.ParentID})
	}
	return refs
}
