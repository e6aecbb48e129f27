package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-peinture-api/internal/domain/inventory"
)

// DashboardStatsResponse KPIs del dashboard. Movimientos del mes en curso con tendencia
// respecto del mes anterior.
type DashboardStatsResponse struct {
	TotalProducts  int                   `json:"totalProducts"`
	TotalStock     int                   `json:"totalStock"`
	LowStock       int                   `json:"lowStock"`
	OutOfStock     int                   `json:"outOfStock"`
	TotalValue     decimal.Decimal       `json:"totalValue"`
	Technicians    int                   `json:"technicians"`
	MonthEntries   int                   `json:"monthEntries"`
	MonthExits     int                   `json:"monthExits"`
	MonthMovements int                   `json:"monthMovements"`
	EntriesTrend   inventory.TrendResult `json:"entriesTrend"`
	ExitsTrend     inventory.TrendResult `json:"exitsTrend"`
	MovementsTrend inventory.TrendResult `json:"movementsTrend"`
}

// EvolutionRequest query del gráfico de evolución. Sin filtros = organización completa.
type EvolutionRequest struct {
	Months     int    `query:"months" validate:"omitempty,min=1,max=60"`
	ProductID  string `query:"product_id" validate:"omitempty,uuid"`
	CategoryID string `query:"category_id" validate:"omitempty,uuid"`
}

// EvolutionResponse serie mensual.
type EvolutionResponse struct {
	Months int                        `json:"months"`
	Points []inventory.EvolutionPoint `json:"points"`
}

// MultiEvolutionRequest varios productos a la vez.
type MultiEvolutionRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,max=20,dive,uuid"`
	Months     int      `json:"months" validate:"omitempty,min=1,max=60"`
}

// MultiEvolutionResponse una serie por producto, indexada por id.
type MultiEvolutionResponse struct {
	Months int                                   `json:"months"`
	Series map[string][]inventory.EvolutionPoint `json:"series"`
}

// BreakdownResponse árbol de stock por categoría.
type BreakdownResponse = inventory.Breakdown
