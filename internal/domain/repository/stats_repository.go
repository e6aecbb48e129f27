package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardCounters agregados crudos que produce la DB para el dashboard.
type DashboardCounters struct {
	TotalProducts int
	TotalStock    int
	LowStock      int
	OutOfStock    int
	TotalValue    decimal.Decimal
	Technicians   int
}

// MovementTotals suma de entradas y salidas en un período.
type MovementTotals struct {
	Entries int
	Exits   int
	Count   int
}

// StatsRepository consultas agregadas de solo lectura.
type StatsRepository interface {
	GetDashboardCounters(ctx context.Context, organizationID string) (DashboardCounters, error)
	GetMovementTotals(ctx context.Context, organizationID string, from, to time.Time) (MovementTotals, error)
}
