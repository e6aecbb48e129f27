package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-peinture-api/internal/application/analytics"
	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/application/usecase"
)

// CategoryHandler categorías y su desglose de stock.
type CategoryHandler struct {
	uc        *usecase.CategoryUseCase
	evolution *analytics.EvolutionUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase, evolution *analytics.EvolutionUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc, evolution: evolution}
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Param        body   body  dto.CreateCategoryRequest  true  "name, parent_id"
// @Success      201  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/organizations/{orgID}/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetOrganizationID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar categorías (lista plana)
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/organizations/{orgID}/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetOrganizationID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.UserContext(), GetOrganizationID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Renombrar o mover categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Param        id     path  string  true  "categoría"
// @Param        body   body  dto.UpdateCategoryRequest  true  "name, parent_id (\"\" = raíz)"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      409  {object}  dto.ErrorResponse  "CATEGORY_CYCLE"
// @Router       /api/organizations/{orgID}/categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateCategoryRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetOrganizationID(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar categoría
// @Description  Falla con CATEGORY_HAS_CHILDREN si tiene subcategorías; sus productos quedan sin categoría.
// @Tags         categories
// @Security     Bearer
// @Param        orgID  path  string  true  "organización"
// @Param        id     path  string  true  "categoría"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/organizations/{orgID}/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), GetOrganizationID(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Breakdown godoc
// @Summary      Desglose de stock bajo una categoría
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Param        id     path  string  true  "categoría raíz"
// @Success      200  {object}  dto.BreakdownResponse
// @Router       /api/organizations/{orgID}/categories/{id}/breakdown [get]
func (h *CategoryHandler) Breakdown(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.evolution.Breakdown(c.UserContext(), GetOrganizationID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
