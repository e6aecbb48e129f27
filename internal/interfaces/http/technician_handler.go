package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/application/inventory"
	"github.com/jhoicas/stock-peinture-api/internal/application/usecase"
)

// TechnicianHandler técnicos, su inventario y reposiciones.
type TechnicianHandler struct {
	uc        *usecase.TechnicianUseCase
	movements *inventory.RegisterMovementUseCase
}

// NewTechnicianHandler construye el handler.
func NewTechnicianHandler(uc *usecase.TechnicianUseCase, movements *inventory.RegisterMovementUseCase) *TechnicianHandler {
	return &TechnicianHandler{uc: uc, movements: movements}
}

// Create godoc
// @Summary      Crear técnico
// @Tags         technicians
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Param        body   body  dto.CreateTechnicianRequest  true  "técnico"
// @Success      201  {object}  dto.TechnicianResponse
// @Router       /api/organizations/{orgID}/technicians [post]
func (h *TechnicianHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTechnicianRequest
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
// @Summary      Listar técnicos
// @Tags         technicians
// @Security     Bearer
// @Produce      json
// @Param        orgID             path   string  true   "organización"
// @Param        include_archived  query  bool    false  "incluir archivados"
// @Success      200  {array}  dto.TechnicianResponse
// @Router       /api/organizations/{orgID}/technicians [get]
func (h *TechnicianHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetOrganizationID(c), c.QueryBool("include_archived"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *TechnicianHandler) Get(c *fiber.Ctx) error {
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

func (h *TechnicianHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateTechnicianRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetOrganizationID(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *TechnicianHandler) Archive(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Archive(c.UserContext(), GetOrganizationID(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Inventory godoc
// @Summary      Inventario actual del técnico
// @Tags         technicians
// @Security     Bearer
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Param        id     path  string  true  "técnico"
// @Success      200  {array}  dto.TechnicianInventoryItem
// @Router       /api/organizations/{orgID}/technicians/{id}/inventory [get]
func (h *TechnicianHandler) Inventory(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Inventory(c.UserContext(), GetOrganizationID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de snapshots del inventario del técnico
// @Tags         technicians
// @Security     Bearer
// @Produce      json
// @Param        orgID  path   string  true   "organización"
// @Param        id     path   string  true   "técnico"
// @Param        limit  query  int     false  "máx. snapshots (por defecto 50)"
// @Success      200  {array}  dto.TechnicianHistoryEntry
// @Router       /api/organizations/{orgID}/technicians/{id}/history [get]
func (h *TechnicianHandler) History(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	limit := c.QueryInt("limit", usecase.DefaultHistoryLimit)
	out, err := h.uc.History(c.UserContext(), GetOrganizationID(c), id, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Restock godoc
// @Summary      Reponer varios productos a un técnico
// @Description  Todas las líneas se aplican en una transacción; se guarda un único snapshot.
// @Tags         technicians
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Param        id     path  string  true  "técnico"
// @Param        body   body  dto.RestockRequest  true  "líneas"
// @Success      201  {array}  dto.MovementResponse
// @Failure      409  {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/organizations/{orgID}/technicians/{id}/restock [post]
func (h *TechnicianHandler) Restock(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.RestockRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.movements.RestockFromRequest(c.UserContext(), GetOrganizationID(c), GetUserID(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
