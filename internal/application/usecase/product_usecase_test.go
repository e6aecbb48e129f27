package usecase_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
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

const (
	orgID  = "org-1"
	userID = "user-1"
)

// MockCache mock de ports.Cache para verificar la invalidación de estadísticas.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dst any) error {
	args := m.Called(ctx, key, dst)
	return args.Error(0)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func newProductUC(s *apptest.Store, c ports.Cache) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(
		apptest.ProductRepo{S: s}, apptest.CategoryRepo{S: s}, apptest.TxRunner{S: s}, c, logger.Nop(),
	)
}

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

// ─── Create ─────────────────────────────────────────────────────────────────

func TestProductCreate_PrecioCeroSeGuardaComoNull(t *testing.T) {
	s := apptest.NewStore()
	uc := newProductUC(s, nil)

	res, err := uc.Create(context.Background(), orgID, userID, dto.CreateProductRequest{
		Name: "Sous-couche", Price: price("0"),
	})
	require.NoError(t, err)
	assert.Nil(t, res.Price)
	assert.Nil(t, s.Products[res.ID].Price, "price 0 persiste null")
}

func TestProductCreate_PrecioPositivoSeConserva(t *testing.T) {
	s := apptest.NewStore()
	uc := newProductUC(s, nil)

	res, err := uc.Create(context.Background(), orgID, userID, dto.CreateProductRequest{
		Name: "Laque", Price: price("24.90"),
	})
	require.NoError(t, err)
	require.NotNil(t, s.Products[res.ID].Price)
	assert.True(t, s.Products[res.ID].Price.Equal(decimal.RequireFromString("24.90")))
}

func TestProductCreate_PrecioNegativo(t *testing.T) {
	uc := newProductUC(apptest.NewStore(), nil)
	_, err := uc.Create(context.Background(), orgID, userID, dto.CreateProductRequest{Name: "X", Price: price("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductCreate_SKUGenerado(t *testing.T) {
	uc := newProductUC(apptest.NewStore(), nil)
	res, err := uc.Create(context.Background(), orgID, userID, dto.CreateProductRequest{Name: "Vis 3x40mm"})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^VIS3-[A-Z0-9]{6}$`), res.SKU)
}

func TestProductCreate_SKUDuplicado(t *testing.T) {
	uc := newProductUC(apptest.NewStore(), nil)
	_, err := uc.Create(context.Background(), orgID, userID, dto.CreateProductRequest{Name: "A", SKU: "ABC-1"})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), orgID, userID, dto.CreateProductRequest{Name: "B", SKU: "abc-1"})
	require.ErrorIs(t, err, domain.ErrDuplicateSKU)
	assert.Equal(t, "Erreur lors de la création du produit : ce SKU existe déjà dans l'organisation", err.Error())
}

func TestProductCreate_StockInicialRegistraEntrada(t *testing.T) {
	s := apptest.NewStore()
	uc := newProductUC(s, nil)
	res, err := uc.Create(context.Background(), orgID, userID, dto.CreateProductRequest{Name: "Enduit", StockCurrent: 12, StockMax: 20})
	require.NoError(t, err)
	assert.Equal(t, 60, res.StockScore)
	assert.Equal(t, "green", res.StockBand)

	require.Len(t, s.Movements, 1)
	assert.Equal(t, entity.MovementEntry, s.Movements[0].Type)
	assert.Equal(t, 12, s.Movements[0].Quantity)
	assert.Equal(t, res.ID, s.Movements[0].ProductID)
}

func TestProductCreate_SinStockNoRegistraMovimiento(t *testing.T) {
	s := apptest.NewStore()
	_, err := newProductUC(s, nil).Create(context.Background(), orgID, userID, dto.CreateProductRequest{Name: "Pinceau"})
	require.NoError(t, err)
	assert.Empty(t, s.Movements)
}

func TestProductCreate_CategoriaInexistente(t *testing.T) {
	uc := newProductUC(apptest.NewStore(), nil)
	_, err := uc.Create(context.Background(), orgID, userID, dto.CreateProductRequest{Name: "A", CategoryID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductCreate_InvalidaEstadisticas(t *testing.T) {
	c := new(MockCache)
	c.On("Delete", mock.Anything, []string{ports.StatsKey(orgID)}).Return(nil).Once()

	_, err := newProductUC(apptest.NewStore(), c).Create(context.Background(), orgID, userID, dto.CreateProductRequest{Name: "A"})
	require.NoError(t, err)
	c.AssertExpectations(t)
}

// ─── List / Stats ───────────────────────────────────────────────────────────

func seedCatalog(s *apptest.Store) {
	s.Categories["c-peinture"] = &entity.Category{ID: "c-peinture", OrganizationID: orgID, Name: "Peinture"}
	s.Categories["c-mur"] = &entity.Category{ID: "c-mur", OrganizationID: orgID, ParentID: "c-peinture", Name: "Mur"}
	s.Categories["c-outil"] = &entity.Category{ID: "c-outil", OrganizationID: orgID, Name: "Outils"}
	archived := time.Now()
	s.Products["p1"] = &entity.Product{ID: "p1", OrganizationID: orgID, CategoryID: "c-mur", Name: "Blanc mat", SKU: "BLAN-1", StockCurrent: 5, StockMin: 2, Price: price("10")}
	s.Products["p2"] = &entity.Product{ID: "p2", OrganizationID: orgID, CategoryID: "c-peinture", Name: "Laque", SKU: "LAQU-1", StockCurrent: 0, StockMin: 1}
	s.Products["p3"] = &entity.Product{ID: "p3", OrganizationID: orgID, CategoryID: "c-outil", Name: "Rouleau", SKU: "ROUL-1", StockCurrent: 1, StockMin: 3, Price: price("4.5")}
	s.Products["p4"] = &entity.Product{ID: "p4", OrganizationID: orgID, Name: "Ancien", SKU: "ANCI-1", StockCurrent: 100, Price: price("1"), ArchivedAt: &archived}
}

func TestProductList_FiltroCategoriaIncluyeSubcategorias(t *testing.T) {
	s := apptest.NewStore()
	seedCatalog(s)
	res, err := newProductUC(s, nil).List(context.Background(), orgID, dto.ProductListRequest{CategoryID: "c-peinture"})
	require.NoError(t, err)
	var names []string
	for _, p := range res.Items {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Blanc mat", "Laque"}, names)
	assert.Equal(t, 20, res.Page.Limit)
	require.NotNil(t, res.Page.Total)
	assert.Equal(t, 2, *res.Page.Total)
	assert.False(t, res.Page.HasMore)
}

func TestProductList_Busqueda(t *testing.T) {
	s := apptest.NewStore()
	seedCatalog(s)
	res, err := newProductUC(s, nil).List(context.Background(), orgID, dto.ProductListRequest{Search: "roul"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "p3", res.Items[0].ID)
}

func TestProductStats(t *testing.T) {
	s := apptest.NewStore()
	seedCatalog(s)
	stats, err := newProductUC(s, nil).Stats(context.Background(), orgID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 6, stats.TotalStock)
	assert.True(t, stats.TotalValue.Equal(decimal.RequireFromString("54.5")), stats.TotalValue.String())
	assert.Equal(t, 1, stats.LowStock)
	assert.Equal(t, 1, stats.OutOfStock)
}

// ─── Update / Archive ───────────────────────────────────────────────────────

func TestProductUpdate_NoTocaStock(t *testing.T) {
	s := apptest.NewStore()
	seedCatalog(s)
	name := "Blanc satin"
	res, err := newProductUC(s, nil).Update(context.Background(), orgID, "p1", dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Blanc satin", res.Name)
	assert.Equal(t, 5, s.Products["p1"].StockCurrent)
}

func TestProductUpdate_PrecioCero(t *testing.T) {
	s := apptest.NewStore()
	seedCatalog(s)
	uc := newProductUC(s, nil)

	res, err := uc.Update(context.Background(), orgID, "p1", dto.UpdateProductRequest{Price: price("0")})
	require.NoError(t, err)
	assert.Nil(t, res.Price)
	assert.Nil(t, s.Products["p1"].Price, "price 0 vuelve a null como en Create")

	res, err = uc.Update(context.Background(), orgID, "p1", dto.UpdateProductRequest{Price: price("12")})
	require.NoError(t, err)
	require.NotNil(t, res.Price)
	assert.True(t, s.Products["p1"].Price.Equal(decimal.NewFromInt(12)))

	name := "Blanc velours"
	_, err = uc.Update(context.Background(), orgID, "p1", dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	require.NotNil(t, s.Products["p1"].Price, "price nil = sin cambio")
}

func TestProductUpdate_PrecioNegativo(t *testing.T) {
	s := apptest.NewStore()
	seedCatalog(s)
	_, err := newProductUC(s, nil).Update(context.Background(), orgID, "p1", dto.UpdateProductRequest{Price: price("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductArchive_Inexistente(t *testing.T) {
	err := newProductUC(apptest.NewStore(), nil).Archive(context.Background(), orgID, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
