package inventory_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-peinture-api/internal/application/apptest"
	"github.com/jhoicas/stock-peinture-api/internal/application/inventory"
	"github.com/jhoicas/stock-peinture-api/internal/application/ports"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/internal/infrastructure/cache"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

const (
	orgID  = "org-1"
	userID = "user-1"
	techID = "tech-1"
)

type fixture struct {
	store *apptest.Store
	cache *cache.MemoryCache
	uc    *inventory.RegisterMovementUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := apptest.NewStore()
	s.Products["p-blanc"] = &entity.Product{ID: "p-blanc", OrganizationID: orgID, Name: "Blanc mat 10L", SKU: "BLAN-000001", StockCurrent: 10}
	s.Products["p-rouleau"] = &entity.Product{ID: "p-rouleau", OrganizationID: orgID, Name: "Rouleau 180mm", SKU: "ROUL-000002", StockCurrent: 4}
	s.Technicians[techID] = &entity.Technician{ID: techID, OrganizationID: orgID, FirstName: "Luc"}

	c := cache.NewMemoryCache()
	require.NoError(t, c.Set(context.Background(), ports.StatsKey(orgID), map[string]int{"totalStock": 14}, 0))

	uc := inventory.NewRegisterMovementUseCase(
		apptest.TxRunner{S: s}, apptest.MovementRepo{S: s}, apptest.TechnicianRepo{S: s}, c, logger.Nop(),
	)
	return &fixture{store: s, cache: c, uc: uc}
}

func (f *fixture) statsCached() bool {
	var v map[string]int
	return f.cache.Get(context.Background(), ports.StatsKey(orgID), &v) == nil
}

// ─── Entradas y salidas ─────────────────────────────────────────────────────

func TestRegisterMovement_EntradaSumaStock(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		OrganizationID: orgID, UserID: userID, ProductID: "p-blanc", Type: entity.MovementEntry, Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, res.StockCurrent)
	assert.Equal(t, 15, f.store.Products["p-blanc"].StockCurrent)
	require.Len(t, f.store.Movements, 1)
	assert.Equal(t, entity.MovementEntry, f.store.Movements[0].Type)
	assert.False(t, f.statsCached(), "la escritura debe invalidar las estadísticas")
}

func TestRegisterMovement_SalidaPerdidaResta(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		OrganizationID: orgID, ProductID: "p-blanc", Type: entity.MovementExitLoss, Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, res.StockCurrent)
}

func TestRegisterMovement_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		OrganizationID: orgID, ProductID: "p-rouleau", Type: entity.MovementExitAnonymous, Quantity: 5,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Erreur lors de la création du mouvement de stock")
	assert.Equal(t, 4, f.store.Products["p-rouleau"].StockCurrent)
	assert.Empty(t, f.store.Movements)
	assert.True(t, f.statsCached(), "un fallo no invalida la caché")
}

func TestRegisterMovement_SalidaTecnicoRequiereTecnico(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		OrganizationID: orgID, ProductID: "p-blanc", Type: entity.MovementExitTechnician, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrTechnicianRequired)
}

func TestRegisterMovement_TecnicoArchivado(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.store.Technicians[techID].ArchivedAt = &now
	_, err := f.uc.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		OrganizationID: orgID, ProductID: "p-blanc", TechnicianID: techID, Type: entity.MovementExitTechnician, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterMovement_SalidaTecnicoMueveInventarioYGuardaSnapshot(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		OrganizationID: orgID, UserID: userID, ProductID: "p-blanc", TechnicianID: techID,
		Type: entity.MovementExitTechnician, Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, f.store.Products["p-blanc"].StockCurrent)
	assert.Equal(t, 2, f.store.TechInv[techID+"|p-blanc"].Quantity)

	require.Len(t, f.store.History, 1)
	var lines []entity.InventorySnapshotLine
	require.NoError(t, json.Unmarshal(f.store.History[0].Snapshot, &lines))
	require.Len(t, lines, 1)
	assert.Equal(t, "Blanc mat 10L", lines[0].ProductName)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 2, lines[0].Added)
}

func TestRegisterMovement_TecnicoIgnoradoFueraDeSalidaTecnico(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		OrganizationID: orgID, ProductID: "p-blanc", TechnicianID: techID, Type: entity.MovementEntry, Quantity: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Movement.TechnicianID)
	assert.Empty(t, f.store.TechInv)
}

func TestRegisterMovement_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	cases := []inventory.MovementInputDTO{
		{OrganizationID: orgID, ProductID: "p-blanc", Type: "transfer", Quantity: 1},
		{OrganizationID: orgID, ProductID: "p-blanc", Type: entity.MovementEntry, Quantity: 0},
		{OrganizationID: orgID, Type: entity.MovementEntry, Quantity: 1},
	}
	for _, in := range cases {
		_, err := f.uc.RegisterMovement(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestRegisterMovement_ProductoDeOtraOrganizacion(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		OrganizationID: "org-2", ProductID: "p-blanc", Type: entity.MovementEntry, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterMovement_FalloAlGuardarHaceRollback(t *testing.T) {
	f := newFixture(t)
	f.store.Fail["MovementRepo.Create"] = errors.New("connexion perdue")
	_, err := f.uc.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		OrganizationID: orgID, ProductID: "p-blanc", Type: entity.MovementEntry, Quantity: 5,
	})
	require.Error(t, err)
	assert.Equal(t, "Erreur lors de la création du mouvement de stock : connexion perdue", err.Error())
	assert.Equal(t, 10, f.store.Products["p-blanc"].StockCurrent)
}

// ─── Reposición ─────────────────────────────────────────────────────────────

func TestRestock_VariasLineasUnSnapshot(t *testing.T) {
	f := newFixture(t)
	movs, err := f.uc.Restock(context.Background(), inventory.RestockInputDTO{
		OrganizationID: orgID, UserID: userID, TechnicianID: techID,
		Lines: []inventory.RestockLine{
			{ProductID: "p-rouleau", Quantity: 1},
			{ProductID: "p-blanc", Quantity: 3},
			{ProductID: "p-rouleau", Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Len(t, movs, 2, "líneas del mismo producto se agrupan")
	assert.Equal(t, 7, f.store.Products["p-blanc"].StockCurrent)
	assert.Equal(t, 1, f.store.Products["p-rouleau"].StockCurrent)
	assert.Equal(t, 3, f.store.TechInv[techID+"|p-rouleau"].Quantity)
	assert.Len(t, f.store.History, 1)
}

func TestRestock_UnaLineaFallaNingunaSeAplica(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Restock(context.Background(), inventory.RestockInputDTO{
		OrganizationID: orgID, TechnicianID: techID,
		Lines: []inventory.RestockLine{
			{ProductID: "p-blanc", Quantity: 3},
			{ProductID: "p-rouleau", Quantity: 50},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, f.store.Products["p-blanc"].StockCurrent)
	assert.Empty(t, f.store.TechInv)
	assert.Empty(t, f.store.History)
	assert.Empty(t, f.store.Movements)
}

func TestRestock_SinLineasOSinTecnico(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Restock(context.Background(), inventory.RestockInputDTO{OrganizationID: orgID, TechnicianID: techID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Restock(context.Background(), inventory.RestockInputDTO{
		OrganizationID: orgID, Lines: []inventory.RestockLine{{ProductID: "p-blanc", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrTechnicianRequired)
}

// ─── Listado ────────────────────────────────────────────────────────────────

func TestList_TipoInvalido(t *testing.T) {
	f := newFixture(t)
	in := inventory.ListInputDTO{OrganizationID: orgID}
	in.Filter.Type = "gift"
	_, err := f.uc.List(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuildSnapshot(t *testing.T) {
	raw, err := inventory.BuildSnapshot([]*entity.TechnicianInventory{
		{ProductID: "a", ProductName: "A", ProductSKU: "AAAA-1", Quantity: 4},
		{ProductID: "b", ProductName: "B", ProductSKU: "BBBB-1", Quantity: 1},
	}, map[string]int{"b": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"product_id":"a","product_name":"A","sku":"AAAA-1","quantity":4,"added":0},
		{"product_id":"b","product_name":"B","sku":"BBBB-1","quantity":1,"added":1}
	]`, string(raw))
}
