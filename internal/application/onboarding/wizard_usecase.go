// Package onboarding asistente de alta inicial de una organización: categorías, productos y
// técnicos se preparan como borrador y se guardan paso a paso.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/application/ports"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

const resourceDraft = "du brouillon d'onboarding"

// CategoryCreator crea una categoría real a partir de un borrador.
type CategoryCreator interface {
	Create(ctx context.Context, organizationID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
}

// ProductCreator crea un producto real (registra el stock inicial como entrada).
type ProductCreator interface {
	Create(ctx context.Context, organizationID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error)
}

// TechnicianCreator crea un técnico real.
type TechnicianCreator interface {
	Create(ctx context.Context, organizationID string, in dto.CreateTechnicianRequest) (*dto.TechnicianResponse, error)
}

// WizardUseCase estado del asistente por (organización, usuario), guardado en la caché con ttl.
//
// Guardar un paso no es transaccional: los elementos se crean uno a uno y el estado se
// persiste tras cada creación, de modo que un fallo a mitad conserva los ids ya asignados.
type WizardUseCase struct {
	drafts      ports.Cache
	ttl         time.Duration
	categories  CategoryCreator
	products    ProductCreator
	technicians TechnicianCreator
	log         *logger.Logger
}

// NewWizardUseCase construye el caso de uso.
func NewWizardUseCase(
	drafts ports.Cache,
	ttl time.Duration,
	categories CategoryCreator,
	products ProductCreator,
	technicians TechnicianCreator,
	log *logger.Logger,
) *WizardUseCase {
	return &WizardUseCase{
		drafts:      drafts,
		ttl:         ttl,
		categories:  categories,
		products:    products,
		technicians: technicians,
		log:         log,
	}
}

func newState() *dto.OnboardingState {
	return &dto.OnboardingState{
		CurrentStep:    dto.StepCategories,
		CompletedSteps: []string{},
		Categories:     []dto.DraftCategory{},
		Products:       []dto.DraftProduct{},
		Technicians:    []dto.DraftTechnician{},
	}
}

func (uc *WizardUseCase) load(ctx context.Context, organizationID, userID string) (*dto.OnboardingState, error) {
	st := newState()
	err := uc.drafts.Get(ctx, ports.OnboardingKey(organizationID, userID), st)
	if errors.Is(err, ports.ErrCacheMiss) {
		return newState(), nil
	}
	if err != nil {
		return nil, domain.FetchErr(resourceDraft, err)
	}
	return st, nil
}

func (uc *WizardUseCase) save(ctx context.Context, organizationID, userID string, st *dto.OnboardingState) error {
	if err := uc.drafts.Set(ctx, ports.OnboardingKey(organizationID, userID), st, uc.ttl); err != nil {
		return domain.UpdateErr(resourceDraft, err)
	}
	return nil
}

// State estado actual; un usuario sin borrador empieza en el paso "categories".
func (uc *WizardUseCase) State(ctx context.Context, organizationID, userID string) (*dto.OnboardingState, error) {
	return uc.load(ctx, organizationID, userID)
}

// Reset descarta el borrador. Lo ya creado no se toca.
func (uc *WizardUseCase) Reset(ctx context.Context, organizationID, userID string) error {
	if err := uc.drafts.Delete(ctx, ports.OnboardingKey(organizationID, userID)); err != nil {
		return domain.DeleteErr(resourceDraft, err)
	}
	return nil
}

// update carga el estado, aplica fn y lo persiste.
func (uc *WizardUseCase) update(ctx context.Context, organizationID, userID string, fn func(st *dto.OnboardingState) error) (*dto.OnboardingState, error) {
	st, err := uc.load(ctx, organizationID, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		return nil, err
	}
	if err := uc.save(ctx, organizationID, userID, st); err != nil {
		return nil, err
	}
	return st, nil
}

// ─── Borradores ─────────────────────────────────────────────────────────────

// AddCategory agrega una categoría pendiente. ParentKey debe referenciar una categoría ya
// presente en el borrador, así el orden de la lista es siempre padre antes que hijo.
func (uc *WizardUseCase) AddCategory(ctx context.Context, organizationID, userID string, in dto.AddDraftCategoryRequest) (*dto.OnboardingState, error) {
	return uc.update(ctx, organizationID, userID, func(st *dto.OnboardingState) error {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return domain.ErrInvalidInput
		}
		if in.ParentKey != "" && findCategory(st, in.ParentKey) < 0 {
			return domain.ErrInvalidInput
		}
		st.Categories = append(st.Categories, dto.DraftCategory{Key: uuid.NewString(), Name: name, ParentKey: in.ParentKey})
		return nil
	})
}

// RemoveCategory quita una categoría pendiente. Una ya creada o referenciada por otro
// borrador devuelve ErrConflict.
func (uc *WizardUseCase) RemoveCategory(ctx context.Context, organizationID, userID, key string) (*dto.OnboardingState, error) {
	return uc.update(ctx, organizationID, userID, func(st *dto.OnboardingState) error {
		i := findCategory(st, key)
		if i < 0 {
			return domain.ErrNotFound
		}
		if st.Categories[i].ID != "" {
			return domain.ErrConflict
		}
		for _, c := range st.Categories {
			if c.ParentKey == key {
				return domain.ErrConflict
			}
		}
		for _, p := range st.Products {
			if p.CategoryKey == key && p.ID == "" {
				return domain.ErrConflict
			}
		}
		st.Categories = append(st.Categories[:i], st.Categories[i+1:]...)
		return nil
	})
}

// AddProduct agrega un producto pendiente.
func (uc *WizardUseCase) AddProduct(ctx context.Context, organizationID, userID string, in dto.AddDraftProductRequest) (*dto.OnboardingState, error) {
	return uc.update(ctx, organizationID, userID, func(st *dto.OnboardingState) error {
		name := strings.TrimSpace(in.Name)
		if name == "" || in.StockCurrent < 0 || in.StockMin < 0 || in.StockMax < 0 {
			return domain.ErrInvalidInput
		}
		if in.Price != nil && in.Price.IsNegative() {
			return domain.ErrInvalidInput
		}
		if in.CategoryKey != "" && findCategory(st, in.CategoryKey) < 0 {
			return domain.ErrInvalidInput
		}
		st.Products = append(st.Products, dto.DraftProduct{
			Key:          uuid.NewString(),
			Name:         name,
			SKU:          strings.TrimSpace(in.SKU),
			CategoryKey:  in.CategoryKey,
			StockCurrent: in.StockCurrent,
			StockMin:     in.StockMin,
			StockMax:     in.StockMax,
			Price:        in.Price,
		})
		return nil
	})
}

// RemoveProduct quita un producto pendiente.
func (uc *WizardUseCase) RemoveProduct(ctx context.Context, organizationID, userID, key string) (*dto.OnboardingState, error) {
	return uc.update(ctx, organizationID, userID, func(st *dto.OnboardingState) error {
		for i, p := range st.Products {
			if p.Key != key {
				continue
			}
			if p.ID != "" {
				return domain.ErrConflict
			}
			st.Products = append(st.Products[:i], st.Products[i+1:]...)
			return nil
		}
		return domain.ErrNotFound
	})
}

// AddTechnician agrega un técnico pendiente.
func (uc *WizardUseCase) AddTechnician(ctx context.Context, organizationID, userID string, in dto.AddDraftTechnicianRequest) (*dto.OnboardingState, error) {
	return uc.update(ctx, organizationID, userID, func(st *dto.OnboardingState) error {
		first := strings.TrimSpace(in.FirstName)
		if first == "" {
			return domain.ErrInvalidInput
		}
		st.Technicians = append(st.Technicians, dto.DraftTechnician{
			Key:       uuid.NewString(),
			FirstName: first,
			LastName:  strings.TrimSpace(in.LastName),
			Email:     strings.TrimSpace(in.Email),
			Phone:     strings.TrimSpace(in.Phone),
		})
		return nil
	})
}

// RemoveTechnician quita un técnico pendiente.
func (uc *WizardUseCase) RemoveTechnician(ctx context.Context, organizationID, userID, key string) (*dto.OnboardingState, error) {
	return uc.update(ctx, organizationID, userID, func(st *dto.OnboardingState) error {
		for i, t := range st.Technicians {
			if t.Key != key {
				continue
			}
			if t.ID != "" {
				return domain.ErrConflict
			}
			st.Technicians = append(st.Technicians[:i], st.Technicians[i+1:]...)
			return nil
		}
		return domain.ErrNotFound
	})
}

// ─── Pasos ──────────────────────────────────────────────────────────────────

// SaveStep crea, en orden, los elementos pendientes del paso. Cada elemento creado recibe su
// id y el estado se persiste en el acto. Solo si todos se crean el paso pasa a
// CompletedSteps y el asistente avanza.
//
// Ante un fallo devuelve la respuesta (con Error) y el error: lo creado antes conserva su id y
// lo posterior queda pendiente para un nuevo intento.
func (uc *WizardUseCase) SaveStep(ctx context.Context, organizationID, userID, step string) (*dto.SaveStepResponse, error) {
	if stepIndex(step) < 0 || step == dto.StepDone {
		return nil, domain.ErrInvalidInput
	}
	st, err := uc.load(ctx, organizationID, userID)
	if err != nil {
		return nil, err
	}

	created := 0
	persist := func() error {
		created++
		return uc.save(ctx, organizationID, userID, st)
	}

	switch step {
	case dto.StepCategories:
		err = uc.saveCategories(ctx, organizationID, st, persist)
	case dto.StepProducts:
		err = uc.saveProducts(ctx, organizationID, userID, st, persist)
	case dto.StepTechnicians:
		err = uc.saveTechnicians(ctx, organizationID, st, persist)
	}
	if err != nil {
		uc.log.Warn().Err(err).
			Str("organization_id", organizationID).
			Str("step", step).
			Int("created", created).
			Msg("onboarding: guardado parcial")
		return &dto.SaveStepResponse{State: *st, Created: created, Error: err.Error()}, err
	}

	complete(st, step)
	if err := uc.save(ctx, organizationID, userID, st); err != nil {
		return nil, err
	}
	return &dto.SaveStepResponse{State: *st, Created: created}, nil
}

// SkipStep avanza sin guardar. Solo se puede saltar el paso actual.
func (uc *WizardUseCase) SkipStep(ctx context.Context, organizationID, userID, step string) (*dto.OnboardingState, error) {
	return uc.update(ctx, organizationID, userID, func(st *dto.OnboardingState) error {
		if stepIndex(step) < 0 || step == dto.StepDone {
			return domain.ErrInvalidInput
		}
		if st.CurrentStep != step {
			return domain.ErrConflict
		}
		st.CurrentStep = nextStep(step)
		return nil
	})
}

func (uc *WizardUseCase) saveCategories(ctx context.Context, organizationID string, st *dto.OnboardingState, persist func() error) error {
	for i := range st.Categories {
		c := &st.Categories[i]
		if c.ID != "" {
			continue
		}
		parentID := ""
		if c.ParentKey != "" {
			p := findCategory(st, c.ParentKey)
			if p < 0 || st.Categories[p].ID == "" {
				return fmt.Errorf("catégorie parente non enregistrée pour « %s » : %w", c.Name, domain.ErrInvalidInput)
			}
			parentID = st.Categories[p].ID
		}
		res, err := uc.categories.Create(ctx, organizationID, dto.CreateCategoryRequest{Name: c.Name, ParentID: parentID})
		if err != nil {
			return err
		}
		c.ID = res.ID
		if err := persist(); err != nil {
			return err
		}
	}
	return nil
}

func (uc *WizardUseCase) saveProducts(ctx context.Context, organizationID, userID string, st *dto.OnboardingState, persist func() error) error {
	for i := range st.Products {
		p := &st.Products[i]
		if p.ID != "" {
			continue
		}
		categoryID := ""
		if p.CategoryKey != "" {
			c := findCategory(st, p.CategoryKey)
			if c < 0 || st.Categories[c].ID == "" {
				return fmt.Errorf("catégorie non enregistrée pour « %s » : %w", p.Name, domain.ErrInvalidInput)
			}
			categoryID = st.Categories[c].ID
		}
		res, err := uc.products.Create(ctx, organizationID, userID, dto.CreateProductRequest{
			Name:         p.Name,
			SKU:          p.SKU,
			CategoryID:   categoryID,
			StockCurrent: p.StockCurrent,
			StockMin:     p.StockMin,
			StockMax:     p.StockMax,
			Price:        p.Price,
		})
		if err != nil {
			return err
		}
		p.ID = res.ID
		if err := persist(); err != nil {
			return err
		}
	}
	return nil
}

func (uc *WizardUseCase) saveTechnicians(ctx context.Context, organizationID string, st *dto.OnboardingState, persist func() error) error {
	for i := range st.Technicians {
		t := &st.Technicians[i]
		if t.ID != "" {
			continue
		}
		res, err := uc.technicians.Create(ctx, organizationID, dto.CreateTechnicianRequest{
			FirstName: t.FirstName,
			LastName:  t.LastName,
			Email:     t.Email,
			Phone:     t.Phone,
		})
		if err != nil {
			return err
		}
		t.ID = res.ID
		if err := persist(); err != nil {
			return err
		}
	}
	return nil
}

func findCategory(st *dto.OnboardingState, key string) int {
	for i, c := range st.Categories {
		if c.Key == key {
			return i
		}
	}
	return -1
}

func stepIndex(step string) int {
	for i, s := range dto.OnboardingSteps {
		if s == step {
			return i
		}
	}
	return -1
}

func nextStep(step string) string {
	i := stepIndex(step)
	if i < 0 || i+1 >= len(dto.OnboardingSteps) {
		return dto.StepDone
	}
	return dto.OnboardingSteps[i+1]
}

// complete marca step como completado y, si era el paso actual, avanza.
func complete(st *dto.OnboardingState, step string) {
	if !st.IsCompleted(step) {
		st.CompletedSteps = append(st.CompletedSteps, step)
	}
	if st.CurrentStep == step {
		st.CurrentStep = nextStep(step)
	}
}
