package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-peinture-api/internal/application/analytics"
	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP de productos.
type ProductHandler struct {
	uc        *usecase.ProductUseCase
	evolution *analytics.EvolutionUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, evolution *analytics.EvolutionUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, evolution: evolution}
}

// Create godoc
// @Summary      Crear producto
// @Description  SKU vacío se genera a partir del nombre. price 0 se guarda como null.
// @Description  Un stock_current inicial queda registrado como movimiento de entrada.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Param        body   body  dto.CreateProductRequest  true  "producto"
// @Success      201  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "DUPLICATE_SKU"
// @Router       /api/organizations/{orgID}/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetOrganizationID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        orgID             path   string  true   "organización"
// @Param        search            query  string  false  "nombre o SKU"
// @Param        category_id       query  string  false  "categoría (incluye subcategorías)"
// @Param        include_archived  query  bool    false  "incluir archivados"
// @Param        limit             query  int     false  "máx. 100"
// @Param        offset            query  int     false  "desplazamiento"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/organizations/{orgID}/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var in dto.ProductListRequest
	if err := parseQuery(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetOrganizationID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Param        id     path  string  true  "producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/organizations/{orgID}/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), GetOrganizationID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto (el stock solo cambia vía movimientos)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Param        id     path  string  true  "producto"
// @Param        body   body  dto.UpdateProductRequest  true  "campos a modificar"
// @Success      200  {object}  dto.ProductResponse
// @Router       /api/organizations/{orgID}/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateProductRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetOrganizationID(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Archive baja lógica; el historial de movimientos se conserva.
func (h *ProductHandler) Archive(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Archive(c.UserContext(), GetOrganizationID(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats godoc
// @Summary      Estadísticas del catálogo
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Success      200  {object}  dto.ProductStatsResponse
// @Router       /api/organizations/{orgID}/products/stats [get]
func (h *ProductHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), GetOrganizationID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Evolution godoc
// @Summary      Evolución mensual del stock de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        orgID   path   string  true   "organización"
// @Param        id      path   string  true   "producto"
// @Param        months  query  int     false  "ventana en meses"
// @Success      200  {object}  dto.EvolutionResponse
// @Router       /api/organizations/{orgID}/products/{id}/evolution [get]
func (h *ProductHandler) Evolution(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	in := dto.EvolutionRequest{Months: c.QueryInt("months"), ProductID: id}
	out, err := h.evolution.Evolution(c.UserContext(), GetOrganizationID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
