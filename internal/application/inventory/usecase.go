package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-peinture-api/internal/application/ports"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

const resourceMovement = "du mouvement de stock"

// RegisterMovementUseCase registra movimientos de stock de forma transaccional
// (entry, exit_technician, exit_anonymous, exit_loss) con bloqueo de fila (SELECT FOR UPDATE)
// sobre el producto y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	movementRepo repository.StockMovementRepository
	techRepo     repository.TechnicianRepository
	cache        ports.Cache
	log          *logger.Logger
	now          func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso. cache puede ser nil.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	movementRepo repository.StockMovementRepository,
	techRepo repository.TechnicianRepository,
	cache ports.Cache,
	log *logger.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		movementRepo: movementRepo,
		techRepo:     techRepo,
		cache:        cache,
		log:          log,
		now:          time.Now,
	}
}

// MovementInputDTO entrada para registrar un movimiento.
// TechnicianID es obligatorio solo para exit_technician.
type MovementInputDTO struct {
	OrganizationID string
	UserID         string
	ProductID      string
	TechnicianID   string
	Type           string
	Quantity       int
	Notes          string
}

// MovementResult movimiento persistido y stock resultante del producto.
type MovementResult struct {
	Movement     *entity.StockMovement
	StockCurrent int
}

// RegisterMovement valida la entrada, abre la transacción, bloquea el producto, aplica el delta
// y guarda el movimiento. Una salida técnico además suma la cantidad al inventario del técnico
// y guarda un snapshot en su historial.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*MovementResult, error) {
	if !entity.ValidMovementType(input.Type) || input.Quantity <= 0 || input.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Type == entity.MovementExitTechnician {
		if input.TechnicianID == "" {
			return nil, domain.ErrTechnicianRequired
		}
		if err := uc.checkTechnician(ctx, input.OrganizationID, input.TechnicianID); err != nil {
			return nil, err
		}
	} else {
		// El técnico solo se registra en salidas técnico.
		input.TechnicianID = ""
	}

	now := uc.now().UTC()
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		OrganizationID: input.OrganizationID,
		ProductID:      input.ProductID,
		TechnicianID:   input.TechnicianID,
		Type:           input.Type,
		Quantity:       input.Quantity,
		Notes:          input.Notes,
		CreatedBy:      input.UserID,
		CreatedAt:      now,
	}

	var stockAfter int
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
		techInventoryRepo repository.TechnicianInventoryRepository,
	) error {
		newStock, err := applyDelta(ctx, productRepo, input.OrganizationID, input.ProductID, input.Type, input.Quantity)
		if err != nil {
			return err
		}
		stockAfter = newStock
		if err := movementRepo.Create(ctx, mov); err != nil {
			return err
		}
		if input.Type != entity.MovementExitTechnician {
			return nil
		}
		if err := techInventoryRepo.AddQuantity(ctx, input.OrganizationID, input.TechnicianID, input.ProductID, input.Quantity); err != nil {
			return err
		}
		return appendSnapshot(ctx, techInventoryRepo, input.OrganizationID, input.TechnicianID, input.UserID,
			map[string]int{input.ProductID: input.Quantity}, now)
	})
	if err != nil {
		return nil, domain.CreateErr(resourceMovement, err)
	}

	ports.InvalidateStats(ctx, uc.cache, uc.log, input.OrganizationID)
	return &MovementResult{Movement: mov, StockCurrent: stockAfter}, nil
}

// RestockLine cantidad de un producto a reponer.
type RestockLine struct {
	ProductID string
	Quantity  int
}

// RestockInputDTO reposición de varios productos a un técnico.
type RestockInputDTO struct {
	OrganizationID string
	UserID         string
	TechnicianID   string
	Lines          []RestockLine
	Notes          string
}

// Restock descuenta cada línea del stock del almacén, la suma al inventario del técnico y deja
// un único snapshot en el historial. Todo en una transacción: si una línea falla no se aplica ninguna.
func (uc *RegisterMovementUseCase) Restock(ctx context.Context, input RestockInputDTO) ([]*entity.StockMovement, error) {
	if input.TechnicianID == "" {
		return nil, domain.ErrTechnicianRequired
	}
	lines, err := mergeLines(input.Lines)
	if err != nil {
		return nil, err
	}
	if err := uc.checkTechnician(ctx, input.OrganizationID, input.TechnicianID); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	movements := make([]*entity.StockMovement, 0, len(lines))
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
		techInventoryRepo repository.TechnicianInventoryRepository,
	) error {
		added := make(map[string]int, len(lines))
		for _, l := range lines {
			if _, err := applyDelta(ctx, productRepo, input.OrganizationID, l.ProductID, entity.MovementExitTechnician, l.Quantity); err != nil {
				return err
			}
			mov := &entity.StockMovement{
				ID:             uuid.New().String(),
				OrganizationID: input.OrganizationID,
				ProductID:      l.ProductID,
				TechnicianID:   input.TechnicianID,
				Type:           entity.MovementExitTechnician,
				Quantity:       l.Quantity,
				Notes:          input.Notes,
				CreatedBy:      input.UserID,
				CreatedAt:      now,
			}
			if err := movementRepo.Create(ctx, mov); err != nil {
				return err
			}
			if err := techInventoryRepo.AddQuantity(ctx, input.OrganizationID, input.TechnicianID, l.ProductID, l.Quantity); err != nil {
				return err
			}
			added[l.ProductID] = l.Quantity
			movements = append(movements, mov)
		}
		return appendSnapshot(ctx, techInventoryRepo, input.OrganizationID, input.TechnicianID, input.UserID, added, now)
	})
	if err != nil {
		return nil, domain.CreateErr("du réapprovisionnement", err)
	}

	ports.InvalidateStats(ctx, uc.cache, uc.log, input.OrganizationID)
	return movements, nil
}

// ListInputDTO filtros de listado ya parseados.
type ListInputDTO struct {
	OrganizationID string
	Filter         repository.MovementFilter
}

// List devuelve los movimientos filtrados (created_at ascendente).
func (uc *RegisterMovementUseCase) List(ctx context.Context, input ListInputDTO) ([]*entity.StockMovement, error) {
	if input.Filter.Type != "" && !entity.ValidMovementType(input.Filter.Type) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.movementRepo.List(ctx, input.OrganizationID, input.Filter)
	if err != nil {
		return nil, domain.FetchErr("des mouvements", err)
	}
	return list, nil
}

func (uc *RegisterMovementUseCase) checkTechnician(ctx context.Context, organizationID, technicianID string) error {
	t, err := uc.techRepo.GetByID(ctx, organizationID, technicianID)
	if err != nil {
		return domain.FetchErr("du technicien", err)
	}
	if t == nil || t.ArchivedAt != nil {
		return domain.ErrNotFound
	}
	return nil
}

// applyDelta bloquea el producto y actualiza stock_current. Devuelve el stock resultante.
func applyDelta(ctx context.Context, productRepo repository.ProductRepository, organizationID, productID, movementType string, qty int) (int, error) {
	product, err := productRepo.GetForUpdate(ctx, organizationID, productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, domain.ErrNotFound
	}
	if product.IsArchived() {
		return 0, domain.ErrConflict
	}
	newStock := product.StockCurrent + qty
	if !entity.IsEntry(movementType) {
		newStock = product.StockCurrent - qty
		if newStock < 0 {
			return 0, domain.ErrInsufficientStock
		}
	}
	if err := productRepo.UpdateStock(ctx, productID, newStock); err != nil {
		return 0, err
	}
	return newStock, nil
}

// appendSnapshot guarda el inventario completo del técnico tras la reposición.
func appendSnapshot(
	ctx context.Context,
	techInventoryRepo repository.TechnicianInventoryRepository,
	organizationID, technicianID, userID string,
	added map[string]int,
	now time.Time,
) error {
	items, err := techInventoryRepo.ListByTechnician(ctx, organizationID, technicianID)
	if err != nil {
		return err
	}
	snapshot, err := BuildSnapshot(items, added)
	if err != nil {
		return err
	}
	return techInventoryRepo.AppendHistory(ctx, &entity.TechnicianInventoryHistory{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		TechnicianID:   technicianID,
		Snapshot:       snapshot,
		CreatedBy:      userID,
		CreatedAt:      now,
	})
}

// BuildSnapshot serializa el inventario del técnico marcando lo añadido en este evento.
func BuildSnapshot(items []*entity.TechnicianInventory, added map[string]int) (json.RawMessage, error) {
	lines := make([]entity.InventorySnapshotLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, entity.InventorySnapshotLine{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.ProductSKU,
			Quantity:    it.Quantity,
			Added:       added[it.ProductID],
		})
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// mergeLines valida y agrupa líneas repetidas del mismo producto, en orden de product id
// para que los bloqueos se tomen siempre en el mismo orden.
func mergeLines(in []RestockLine) ([]RestockLine, error) {
	if len(in) == 0 {
		return nil, domain.ErrInvalidInput
	}
	totals := make(map[string]int, len(in))
	for _, l := range in {
		if l.ProductID == "" || l.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		totals[l.ProductID] += l.Quantity
	}
	out := make([]RestockLine, 0, len(totals))
	for id, q := range totals {
		out = append(out, RestockLine{ProductID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}
