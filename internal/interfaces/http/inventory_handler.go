package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de movimientos de stock.
type InventoryHandler struct {
	uc *inventory.RegisterMovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  entry suma stock; exit_anonymous y exit_loss restan; exit_technician resta y pasa
// @Description  la cantidad al inventario del técnico (technician_id obligatorio).
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Param        body   body  dto.RegisterMovementRequest  true  "product_id, type, quantity, technician_id, notes"
// @Success      201  {object}  dto.MovementResultResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/organizations/{orgID}/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RegisterMovementFromRequest(c.UserContext(), GetOrganizationID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        orgID          path   string  true   "organización"
// @Param        product_id     query  string  false  "producto"
// @Param        technician_id  query  string  false  "técnico"
// @Param        type           query  string  false  "tipo"
// @Param        from           query  string  false  "desde (RFC3339 o AAAA-MM-DD)"
// @Param        to             query  string  false  "hasta, exclusivo"
// @Param        limit          query  int     false  "máx. 100"
// @Param        offset         query  int     false  "desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/organizations/{orgID}/movements [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	var in dto.MovementListRequest
	if err := parseQuery(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListFromRequest(c.UserContext(), GetOrganizationID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
