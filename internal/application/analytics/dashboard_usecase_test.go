package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-peinture-api/internal/application/analytics"
	"github.com/jhoicas/stock-peinture-api/internal/application/ports"
	"github.com/jhoicas/stock-peinture-api/internal/domain/inventory"
	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
	"github.com/jhoicas/stock-peinture-api/internal/infrastructure/cache"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

// ─────────────────────────────────────────────────────────────────────────────
// Mock de StatsRepository
// ─────────────────────────────────────────────────────────────────────────────

type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) GetDashboardCounters(ctx context.Context, organizationID string) (repository.DashboardCounters, error) {
	args := m.Called(ctx, organizationID)
	return args.Get(0).(repository.DashboardCounters), args.Error(1)
}

func (m *MockStatsRepo) GetMovementTotals(ctx context.Context, organizationID string, from, to time.Time) (repository.MovementTotals, error) {
	args := m.Called(ctx, organizationID, from, to)
	return args.Get(0).(repository.MovementTotals), args.Error(1)
}

var (
	paris        = mustLocation("Europe/Paris")
	fixedNow     = time.Date(2026, 3, 10, 9, 30, 0, 0, paris)
	marchStart   = time.Date(2026, 3, 1, 0, 0, 0, 0, paris)
	aprilStart   = time.Date(2026, 4, 1, 0, 0, 0, 0, paris)
	februaryFrom = time.Date(2026, 2, 1, 0, 0, 0, 0, paris)
)

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func sameInstant(want time.Time) any {
	return mock.MatchedBy(func(got time.Time) bool { return got.Equal(want) })
}

func setupStatsMock(repo *MockStatsRepo, org string) {
	repo.On("GetDashboardCounters", mock.Anything, org).Return(repository.DashboardCounters{
		TotalProducts: 12,
		TotalStock:    340,
		LowStock:      2,
		OutOfStock:    1,
		TotalValue:    decimal.RequireFromString("1520.50"),
		Technicians:   3,
	}, nil).Once()
	repo.On("GetMovementTotals", mock.Anything, org, sameInstant(marchStart), sameInstant(aprilStart)).
		Return(repository.MovementTotals{Entries: 30, Exits: 5, Count: 12}, nil).Once()
	repo.On("GetMovementTotals", mock.Anything, org, sameInstant(februaryFrom), sameInstant(marchStart)).
		Return(repository.MovementTotals{Entries: 20, Exits: 10, Count: 0}, nil).Once()
}

// ─────────────────────────────────────────────────────────────────────────────
// Stats
// ─────────────────────────────────────────────────────────────────────────────

func TestDashboardStats_KPIsYTendencias(t *testing.T) {
	repo := new(MockStatsRepo)
	setupStatsMock(repo, "org-1")
	uc := analytics.NewDashboardUseCase(repo, nil, time.Minute, paris, logger.Nop()).
		WithClock(func() time.Time { return fixedNow })

	got, err := uc.Stats(context.Background(), "org-1")
	require.NoError(t, err)

	assert.Equal(t, 12, got.TotalProducts)
	assert.Equal(t, 340, got.TotalStock)
	assert.True(t, got.TotalValue.Equal(decimal.RequireFromString("1520.5")))
	assert.Equal(t, 30, got.MonthEntries)
	assert.Equal(t, 5, got.MonthExits)
	assert.Equal(t, inventory.TrendResult{Direction: inventory.TrendUp, Percentage: 50}, got.EntriesTrend)
	assert.Equal(t, inventory.TrendResult{Direction: inventory.TrendDown, Percentage: 50}, got.ExitsTrend)
	assert.Equal(t, inventory.TrendResult{Direction: inventory.TrendUp, Percentage: 100}, got.MovementsTrend)
	repo.AssertExpectations(t)
}

func TestDashboardStats_SegundaLlamadaUsaCache(t *testing.T) {
	repo := new(MockStatsRepo)
	setupStatsMock(repo, "org-1")
	c := cache.NewMemoryCache()
	uc := analytics.NewDashboardUseCase(repo, c, time.Minute, paris, logger.Nop()).
		WithClock(func() time.Time { return fixedNow })

	first, err := uc.Stats(context.Background(), "org-1")
	require.NoError(t, err)
	second, err := uc.Stats(context.Background(), "org-1")
	require.NoError(t, err)

	assert.Equal(t, first.TotalStock, second.TotalStock)
	assert.True(t, first.TotalValue.Equal(second.TotalValue))
	assert.Equal(t, first.ExitsTrend, second.ExitsTrend)
	repo.AssertNumberOfCalls(t, "GetDashboardCounters", 1)

	// Una escritura invalida la entrada y la siguiente lectura vuelve a la DB.
	ports.InvalidateStats(context.Background(), c, logger.Nop(), "org-1")
	setupStatsMock(repo, "org-1")
	_, err = uc.Stats(context.Background(), "org-1")
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "GetDashboardCounters", 2)
}

func TestDashboardStats_ErrorDeRepositorio(t *testing.T) {
	repo := new(MockStatsRepo)
	repo.On("GetDashboardCounters", mock.Anything, "org-1").
		Return(repository.DashboardCounters{}, errors.New("connexion perdue"))
	repo.On("GetMovementTotals", mock.Anything, "org-1", mock.Anything, mock.Anything).
		Return(repository.MovementTotals{}, nil)
	c := cache.NewMemoryCache()
	uc := analytics.NewDashboardUseCase(repo, c, time.Minute, paris, logger.Nop())

	_, err := uc.Stats(context.Background(), "org-1")
	require.Error(t, err)
	assert.Equal(t, "Erreur lors de la récupération des statistiques : connexion perdue", err.Error())

	var dst map[string]any
	assert.ErrorIs(t, c.Get(context.Background(), ports.StatsKey("org-1"), &dst), ports.ErrCacheMiss, "un error no se cachea")
}
