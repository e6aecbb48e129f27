package dto

import "github.com/shopspring/decimal"

// Pasos del asistente de onboarding, en orden.
const (
	StepCategories  = "categories"
	StepProducts    = "products"
	StepTechnicians = "technicians"
	StepDone        = "done"
)

// OnboardingSteps orden de los pasos (StepDone es terminal).
var OnboardingSteps = []string{StepCategories, StepProducts, StepTechnicians, StepDone}

// DraftCategory categoría pendiente de guardar. ID vacío = pendiente; el servidor lo asigna
// al crearla. ParentKey referencia el Key local de otra categoría del borrador.
type DraftCategory struct {
	Key       string `json:"key"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	ParentKey string `json:"parent_key,omitempty"`
}

// DraftProduct producto pendiente. CategoryKey referencia una DraftCategory ya guardada.
type DraftProduct struct {
	Key          string           `json:"key"`
	ID           string           `json:"id,omitempty"`
	Name         string           `json:"name"`
	SKU          string           `json:"sku,omitempty"`
	CategoryKey  string           `json:"category_key,omitempty"`
	StockCurrent int              `json:"stock_current"`
	StockMin     int              `json:"stock_min"`
	StockMax     int              `json:"stock_max"`
	Price        *decimal.Decimal `json:"price,omitempty"`
}

// DraftTechnician técnico pendiente.
type DraftTechnician struct {
	Key       string `json:"key"`
	ID        string `json:"id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// OnboardingState estado del asistente por (organización, usuario).
type OnboardingState struct {
	CurrentStep    string            `json:"currentStep"`
	CompletedSteps []string          `json:"completedSteps"`
	Categories     []DraftCategory   `json:"categories"`
	Products       []DraftProduct    `json:"products"`
	Technicians    []DraftTechnician `json:"technicians"`
}

// IsCompleted informa si step figura en CompletedSteps.
func (s *OnboardingState) IsCompleted(step string) bool {
	for _, c := range s.CompletedSteps {
		if c == step {
			return true
		}
	}
	return false
}

// AddDraftCategoryRequest alta de categoría en el borrador.
type AddDraftCategoryRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=120"`
	ParentKey string `json:"parent_key"`
}

// AddDraftProductRequest alta de producto en el borrador.
type AddDraftProductRequest struct {
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	SKU          string           `json:"sku" validate:"omitempty,max=64"`
	CategoryKey  string           `json:"category_key"`
	StockCurrent int              `json:"stock_current" validate:"min=0"`
	StockMin     int              `json:"stock_min" validate:"min=0"`
	StockMax     int              `json:"stock_max" validate:"min=0"`
	Price        *decimal.Decimal `json:"price"`
}

// AddDraftTechnicianRequest alta de técnico en el borrador.
type AddDraftTechnicianRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=80"`
	LastName  string `json:"last_name" validate:"max=80"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
}

// SaveStepResponse resultado de guardar un paso. Error no vacío = guardado parcial.
type SaveStepResponse struct {
	State   OnboardingState `json:"state"`
	Created int             `json:"created"`
	Error   string          `json:"error,omitempty"`
}
