package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-peinture-api/internal/application/apptest"
	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/application/ports"
	"github.com/jhoicas/stock-peinture-api/internal/application/usecase"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

func newTechnicianUC(s *apptest.Store, c ports.Cache) *usecase.TechnicianUseCase {
	return usecase.NewTechnicianUseCase(apptest.TechnicianRepo{S: s}, apptest.TechInventoryRepo{S: s}, c, logger.Nop())
}

func strPtr(v string) *string { return &v }

func seedTechnician(s *apptest.Store) {
	s.Technicians["t1"] = &entity.Technician{ID: "t1", OrganizationID: orgID, FirstName: "Lucas", LastName: "Martin"}
}

func addSnapshot(t *testing.T, s *apptest.Store, id string, at time.Time, lines ...entity.InventorySnapshotLine) {
	t.Helper()
	raw, err := json.Marshal(lines)
	require.NoError(t, err)
	s.History = append(s.History, &entity.TechnicianInventoryHistory{
		ID: id, OrganizationID: orgID, TechnicianID: "t1", Snapshot: raw, CreatedBy: userID, CreatedAt: at,
	})
}

// ─── Create / Update / Archive ──────────────────────────────────────────────

func TestTechnicianCreate(t *testing.T) {
	s := apptest.NewStore()
	c := new(MockCache)
	c.On("Delete", mock.Anything, []string{ports.StatsKey(orgID)}).Return(nil).Once()

	res, err := newTechnicianUC(s, c).Create(context.Background(), orgID, dto.CreateTechnicianRequest{
		FirstName: " Inès ", LastName: "Garnier", Phone: " 06 12 34 56 78 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Inès Garnier", res.FullName)
	assert.Equal(t, "06 12 34 56 78", res.Phone)
	require.Contains(t, s.Technicians, res.ID)
	assert.Equal(t, orgID, s.Technicians[res.ID].OrganizationID)
	c.AssertExpectations(t)
}

func TestTechnicianCreate_SinNombre(t *testing.T) {
	s := apptest.NewStore()
	_, err := newTechnicianUC(s, nil).Create(context.Background(), orgID, dto.CreateTechnicianRequest{FirstName: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, s.Technicians)
}

func TestTechnicianUpdate(t *testing.T) {
	s := apptest.NewStore()
	seedTechnician(s)
	uc := newTechnicianUC(s, nil)

	res, err := uc.Update(context.Background(), orgID, "t1", dto.UpdateTechnicianRequest{
		LastName: strPtr("Martin-Roux"), Email: strPtr("lucas@atelier.fr"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Lucas Martin-Roux", res.FullName)
	assert.Equal(t, "lucas@atelier.fr", s.Technicians["t1"].Email)
	assert.Equal(t, "Lucas", s.Technicians["t1"].FirstName, "campo nil sin cambio")

	_, err = uc.Update(context.Background(), orgID, "t1", dto.UpdateTechnicianRequest{FirstName: strPtr("")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(context.Background(), "org-2", "t1", dto.UpdateTechnicianRequest{LastName: strPtr("X")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTechnicianArchive_InvalidaEstadisticas(t *testing.T) {
	s := apptest.NewStore()
	seedTechnician(s)
	c := new(MockCache)
	c.On("Delete", mock.Anything, []string{ports.StatsKey(orgID)}).Return(nil).Once()
	uc := newTechnicianUC(s, c)

	require.NoError(t, uc.Archive(context.Background(), orgID, "t1"))
	assert.NotNil(t, s.Technicians["t1"].ArchivedAt)
	c.AssertExpectations(t)

	active, err := uc.List(context.Background(), orgID, false)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := uc.List(context.Background(), orgID, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTechnicianArchive_Inexistente(t *testing.T) {
	err := newTechnicianUC(apptest.NewStore(), nil).Archive(context.Background(), orgID, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Inventory / History ────────────────────────────────────────────────────

func TestTechnicianInventory(t *testing.T) {
	s := apptest.NewStore()
	seedTechnician(s)
	seedCatalog(s)
	s.TechInv["t1|p1"] = &entity.TechnicianInventory{OrganizationID: orgID, TechnicianID: "t1", ProductID: "p1", Quantity: 4}
	s.TechInv["t2|p3"] = &entity.TechnicianInventory{OrganizationID: orgID, TechnicianID: "t2", ProductID: "p3", Quantity: 9}

	items, err := newTechnicianUC(s, nil).Inventory(context.Background(), orgID, "t1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, dto.TechnicianInventoryItem{ProductID: "p1", ProductName: "Blanc mat", SKU: "BLAN-1", Quantity: 4, UpdatedAt: items[0].UpdatedAt}, items[0])
}

func TestTechnicianInventory_TecnicoDeOtraOrganizacion(t *testing.T) {
	s := apptest.NewStore()
	seedTechnician(s)
	_, err := newTechnicianUC(s, nil).Inventory(context.Background(), "org-2", "t1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTechnicianHistory_RecientesPrimeroYLimite(t *testing.T) {
	s := apptest.NewStore()
	seedTechnician(s)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	addSnapshot(t, s, "h1", base, entity.InventorySnapshotLine{ProductID: "p1", Quantity: 2, Added: 2})
	addSnapshot(t, s, "h2", base.Add(24*time.Hour), entity.InventorySnapshotLine{ProductID: "p1", Quantity: 5, Added: 3})
	addSnapshot(t, s, "h3", base.Add(48*time.Hour),
		entity.InventorySnapshotLine{ProductID: "p1", Quantity: 5},
		entity.InventorySnapshotLine{ProductID: "p3", Quantity: 1, Added: 1},
	)
	uc := newTechnicianUC(s, nil)

	got, err := uc.History(context.Background(), orgID, "t1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "h3", got[0].ID)
	assert.Equal(t, "h2", got[1].ID)
	require.Len(t, got[0].Lines, 2)
	assert.Equal(t, 1, got[0].Lines[1].Added)
	assert.Equal(t, userID, got[0].CreatedBy)

	// limit <= 0 usa DefaultHistoryLimit
	all, err := uc.History(context.Background(), orgID, "t1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTechnicianHistory_Inexistente(t *testing.T) {
	_, err := newTechnicianUC(apptest.NewStore(), nil).History(context.Background(), orgID, "nope", 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
