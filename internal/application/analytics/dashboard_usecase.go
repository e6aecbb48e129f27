// Package analytics contiene los casos de uso de lectura del dashboard: KPIs del mes,
// evolución del stock y desglose por categoría.
package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/application/ports"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/inventory"
	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

const resourceStats = "des statistiques"

// DashboardUseCase genera los KPIs del dashboard de una organización.
//
// Fuente de datos: StatsRepository (consultas read-only). El resultado se guarda en la caché
// bajo ports.StatsKey durante ttl; cada escritura de stock lo invalida.
type DashboardUseCase struct {
	statsRepo repository.StatsRepository
	cache     ports.Cache
	ttl       time.Duration
	loc       *time.Location
	log       *logger.Logger
	now       func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil; loc nil = UTC.
func NewDashboardUseCase(
	statsRepo repository.StatsRepository,
	cache ports.Cache,
	ttl time.Duration,
	loc *time.Location,
	log *logger.Logger,
) *DashboardUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardUseCase{statsRepo: statsRepo, cache: cache, ttl: ttl, loc: loc, log: log, now: time.Now}
}

// WithClock reemplaza el reloj usado para calcular el mes en curso.
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// Stats devuelve los KPIs de la organización.
//
// Tres llamadas en paralelo:
//  1. GetDashboardCounters            → catálogo, valor, técnicos
//  2. GetMovementTotals(mes actual)   → entradas/salidas del mes
//  3. GetMovementTotals(mes anterior) → base de la tendencia
func (uc *DashboardUseCase) Stats(ctx context.Context, organizationID string) (*dto.DashboardStatsResponse, error) {
	key := ports.StatsKey(organizationID)
	if uc.cache != nil {
		var cached dto.DashboardStatsResponse
		err := uc.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, ports.ErrCacheMiss) {
			uc.log.Warn().Err(err).Str("organization_id", organizationID).Msg("leer caché de estadísticas")
		}
	}

	// ── Rangos de fecha (zona configurada) ─────────────────────────────────────
	now := uc.now().In(uc.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, uc.loc)
	nextMonth := monthStart.AddDate(0, 1, 0)
	prevMonth := monthStart.AddDate(0, -1, 0)

	type countersResult struct {
		c   repository.DashboardCounters
		err error
	}
	type totalsResult struct {
		t   repository.MovementTotals
		err error
	}

	countersCh := make(chan countersResult, 1)
	currentCh := make(chan totalsResult, 1)
	previousCh := make(chan totalsResult, 1)

	go func() {
		c, err := uc.statsRepo.GetDashboardCounters(ctx, organizationID)
		countersCh <- countersResult{c, err}
	}()
	go func() {
		t, err := uc.statsRepo.GetMovementTotals(ctx, organizationID, monthStart, nextMonth)
		currentCh <- totalsResult{t, err}
	}()
	go func() {
		t, err := uc.statsRepo.GetMovementTotals(ctx, organizationID, prevMonth, monthStart)
		previousCh <- totalsResult{t, err}
	}()

	counters := <-countersCh
	current := <-currentCh
	previous := <-previousCh

	for _, err := range []error{counters.err, current.err, previous.err} {
		if err != nil {
			return nil, domain.FetchErr(resourceStats, err)
		}
	}

	out := &dto.DashboardStatsResponse{
		TotalProducts:  counters.c.TotalProducts,
		TotalStock:     counters.c.TotalStock,
		LowStock:       counters.c.LowStock,
		OutOfStock:     counters.c.OutOfStock,
		TotalValue:     counters.c.TotalValue,
		Technicians:    counters.c.Technicians,
		MonthEntries:   current.t.Entries,
		MonthExits:     current.t.Exits,
		MonthMovements: current.t.Count,
		EntriesTrend:   inventory.Trend(float64(current.t.Entries), float64(previous.t.Entries)),
		ExitsTrend:     inventory.Trend(float64(current.t.Exits), float64(previous.t.Exits)),
		MovementsTrend: inventory.Trend(float64(current.t.Count), float64(previous.t.Count)),
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, out, uc.ttl); err != nil {
			uc.log.Warn().Err(err).Str("organization_id", organizationID).Msg("guardar caché de estadísticas")
		}
	}
	return out, nil
}
