package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/application/onboarding"
)

// OnboardingHandler asistente de alta inicial. El borrador es por (organización, usuario).
type OnboardingHandler struct {
	uc *onboarding.WizardUseCase
}

// NewOnboardingHandler construye el handler.
func NewOnboardingHandler(uc *onboarding.WizardUseCase) *OnboardingHandler {
	return &OnboardingHandler{uc: uc}
}

func (h *OnboardingHandler) respond(c *fiber.Ctx, st *dto.OnboardingState, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(st)
}

// State godoc
// @Summary      Estado del asistente
// @Tags         onboarding
// @Security     Bearer
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Success      200  {object}  dto.OnboardingState
// @Router       /api/organizations/{orgID}/onboarding [get]
func (h *OnboardingHandler) State(c *fiber.Ctx) error {
	st, err := h.uc.State(c.UserContext(), GetOrganizationID(c), GetUserID(c))
	return h.respond(c, st, err)
}

// Reset descarta el borrador.
func (h *OnboardingHandler) Reset(c *fiber.Ctx) error {
	if err := h.uc.Reset(c.UserContext(), GetOrganizationID(c), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OnboardingHandler) AddCategory(c *fiber.Ctx) error {
	var in dto.AddDraftCategoryRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	st, err := h.uc.AddCategory(c.UserContext(), GetOrganizationID(c), GetUserID(c), in)
	return h.respond(c, st, err)
}

func (h *OnboardingHandler) RemoveCategory(c *fiber.Ctx) error {
	st, err := h.uc.RemoveCategory(c.UserContext(), GetOrganizationID(c), GetUserID(c), c.Params("key"))
	return h.respond(c, st, err)
}

func (h *OnboardingHandler) AddProduct(c *fiber.Ctx) error {
	var in dto.AddDraftProductRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	st, err := h.uc.AddProduct(c.UserContext(), GetOrganizationID(c), GetUserID(c), in)
	return h.respond(c, st, err)
}

func (h *OnboardingHandler) RemoveProduct(c *fiber.Ctx) error {
	st, err := h.uc.RemoveProduct(c.UserContext(), GetOrganizationID(c), GetUserID(c), c.Params("key"))
	return h.respond(c, st, err)
}

func (h *OnboardingHandler) AddTechnician(c *fiber.Ctx) error {
	var in dto.AddDraftTechnicianRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	st, err := h.uc.AddTechnician(c.UserContext(), GetOrganizationID(c), GetUserID(c), in)
	return h.respond(c, st, err)
}

func (h *OnboardingHandler) RemoveTechnician(c *fiber.Ctx) error {
	st, err := h.uc.RemoveTechnician(c.UserContext(), GetOrganizationID(c), GetUserID(c), c.Params("key"))
	return h.respond(c, st, err)
}

// SaveStep godoc
// @Summary      Guardar un paso
// @Description  Crea en orden los elementos pendientes. Ante un fallo parcial responde con el
// @Description  status del error y el estado actualizado (lo creado conserva su id).
// @Tags         onboarding
// @Security     Bearer
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Param        step   path  string  true  "categories | products | technicians"
// @Success      200  {object}  dto.SaveStepResponse
// @Failure      400  {object}  dto.SaveStepResponse
// @Router       /api/organizations/{orgID}/onboarding/steps/{step}/save [post]
func (h *OnboardingHandler) SaveStep(c *fiber.Ctx) error {
	res, err := h.uc.SaveStep(c.UserContext(), GetOrganizationID(c), GetUserID(c), c.Params("step"))
	if err != nil {
		if res == nil {
			return writeError(c, err)
		}
		status, _ := statusFor(err)
		return c.Status(status).JSON(res)
	}
	return c.JSON(res)
}

// SkipStep godoc
// @Summary      Saltar el paso actual
// @Tags         onboarding
// @Security     Bearer
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Param        step   path  string  true  "paso actual"
// @Success      200  {object}  dto.OnboardingState
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/organizations/{orgID}/onboarding/steps/{step}/skip [post]
func (h *OnboardingHandler) SkipStep(c *fiber.Ctx) error {
	st, err := h.uc.SkipStep(c.UserContext(), GetOrganizationID(c), GetUserID(c), c.Params("step"))
	return h.respond(c, st, err)
}
