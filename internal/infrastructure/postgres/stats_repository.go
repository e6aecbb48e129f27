package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas agregadas de solo lectura para el dashboard.
type StatsRepo struct {
	pool *pgxpool.Pool
}

// NewStatsRepository construye el adaptador de estadísticas.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// GetDashboardCounters agrega productos activos y técnicos activos en una sola consulta.
// Mismas reglas que inventory.ComputeProductStats: low = 0 < stock <= min, out = stock = 0.
func (r *StatsRepo) GetDashboardCounters(ctx context.Context, organizationID string) (repository.DashboardCounters, error) {
	const query = `
	SELECT
	    COUNT(*)                                                           AS total_products,
	    COALESCE(SUM(p.stock_current), 0)                                  AS total_stock,
	    COUNT(*) FILTER (WHERE p.stock_current > 0
	                       AND p.stock_current <= p.stock_min)             AS low_stock,
	    COUNT(*) FILTER (WHERE p.stock_current = 0)                        AS out_of_stock,
	    COALESCE(SUM(p.stock_current * COALESCE(p.price, 0)), 0)           AS total_value,
	    (SELECT COUNT(*) FROM technicians t
	      WHERE t.organization_id = $1 AND t.archived_at IS NULL)          AS technicians
	FROM products p
	WHERE p.organization_id = $1 AND p.archived_at IS NULL`

	var c repository.DashboardCounters
	err := r.pool.QueryRow(ctx, query, organizationID).Scan(
		&c.TotalProducts, &c.TotalStock, &c.LowStock, &c.OutOfStock, &c.TotalValue, &c.Technicians,
	)
	if err != nil {
		return c, fmt.Errorf("stats.GetDashboardCounters: %w", err)
	}
	return c, nil
}

// GetMovementTotals entradas/salidas en [from, to).
func (r *StatsRepo) GetMovementTotals(ctx context.Context, organizationID string, from, to time.Time) (repository.MovementTotals, error) {
	const query = `
	SELECT
	    COALESCE(SUM(quantity) FILTER (WHERE type = 'entry'), 0)  AS entries,
	    COALESCE(SUM(quantity) FILTER (WHERE type <> 'entry'), 0) AS exits,
	    COUNT(*)                                                  AS movements
	FROM stock_movements
	WHERE organization_id = $1 AND created_at >= $2 AND created_at < $3`

	var t repository.MovementTotals
	if err := r.pool.QueryRow(ctx, query, organizationID, from, to).Scan(&t.Entries, &t.Exits, &t.Count); err != nil {
		return t, fmt.Errorf("stats.GetMovementTotals: %w", err)
	}
	return t, nil
}
