package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-peinture-api/internal/application/analytics"
	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
)

// DashboardHandler KPIs, evolución y desglose.
type DashboardHandler struct {
	stats     *analytics.DashboardUseCase
	evolution *analytics.EvolutionUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(stats *analytics.DashboardUseCase, evolution *analytics.EvolutionUseCase) *DashboardHandler {
	return &DashboardHandler{stats: stats, evolution: evolution}
}

// Stats godoc
// @Summary      KPIs del dashboard
// @Description  Catálogo, valor del stock, técnicos y movimientos del mes con tendencia frente al mes anterior.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Success      200  {object}  dto.DashboardStatsResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/organizations/{orgID}/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	out, err := h.stats.Stats(c.UserContext(), GetOrganizationID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Evolution godoc
// @Summary      Evolución mensual del stock
// @Description  Sin filtros: toda la organización. product_id tiene prioridad sobre category_id.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        orgID        path   string  true   "organización"
// @Param        months       query  int     false  "ventana en meses"
// @Param        product_id   query  string  false  "producto"
// @Param        category_id  query  string  false  "categoría (incluye subcategorías)"
// @Success      200  {object}  dto.EvolutionResponse
// @Router       /api/organizations/{orgID}/dashboard/evolution [get]
func (h *DashboardHandler) Evolution(c *fiber.Ctx) error {
	var in dto.EvolutionRequest
	if err := parseQuery(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.evolution.Evolution(c.UserContext(), GetOrganizationID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MultiEvolution godoc
// @Summary      Evolución de varios productos
// @Tags         dashboard
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orgID  path  string  true  "organización"
// @Param        body   body  dto.MultiEvolutionRequest  true  "product_ids, months"
// @Success      200  {object}  dto.MultiEvolutionResponse
// @Router       /api/organizations/{orgID}/dashboard/evolution/multi [post]
func (h *DashboardHandler) MultiEvolution(c *fiber.Ctx) error {
	var in dto.MultiEvolutionRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.evolution.MultiEvolution(c.UserContext(), GetOrganizationID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Breakdown godoc
// @Summary      Desglose de stock por categoría
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        orgID  path   string  true   "organización"
// @Param        root   query  string  false  "categoría raíz; vacío = organización"
// @Success      200  {object}  dto.BreakdownResponse
// @Failure      409  {object}  dto.ErrorResponse  "CATEGORY_CYCLE"
// @Router       /api/organizations/{orgID}/dashboard/breakdown [get]
func (h *DashboardHandler) Breakdown(c *fiber.Ctx) error {
	root, err := idQuery(c, "root")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.evolution.Breakdown(c.UserContext(), GetOrganizationID(c), root)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
