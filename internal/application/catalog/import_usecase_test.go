package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-peinture-api/internal/application/apptest"
	appcatalog "github.com/jhoicas/stock-peinture-api/internal/application/catalog"
	"github.com/jhoicas/stock-peinture-api/internal/application/usecase"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/internal/infrastructure/catalog"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

const (
	orgID  = "org-1"
	userID = "user-1"
)

func newImport(s *apptest.Store) *appcatalog.ImportUseCase {
	categories := usecase.NewCategoryUseCase(apptest.CategoryRepo{S: s}, nil, logger.Nop())
	products := usecase.NewProductUseCase(
		apptest.ProductRepo{S: s}, apptest.CategoryRepo{S: s}, apptest.TxRunner{S: s}, nil, logger.Nop(),
	)
	return appcatalog.NewImportUseCase(categories, products, logger.Nop())
}

func categoryByName(s *apptest.Store, name string) *entity.Category {
	for _, c := range s.Categories {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestImport_CreaRutasDeCategoriaUnaVez(t *testing.T) {
	s := apptest.NewStore()
	s.Categories["c-peinture"] = &entity.Category{ID: "c-peinture", OrganizationID: orgID, Name: "Peinture"}
	price := decimal.RequireFromString("12.5")

	rep, err := newImport(s).Import(context.Background(), orgID, userID, []catalog.Row{
		{Line: 2, Name: "Acrylique blanc", SKU: "ACR-B", Category: "peinture/Mur", Stock: 4, Price: &price},
		{Line: 3, Name: "Acrylique gris", SKU: "ACR-G", Category: "Peinture / Mur", Stock: 2},
		{Line: 4, Name: "Rouleau", SKU: "ROU-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, rep.Products)
	assert.Equal(t, 1, rep.Categories, "Peinture existe; solo se crea Mur")
	assert.Empty(t, rep.Failed)

	mur := categoryByName(s, "Mur")
	require.NotNil(t, mur)
	assert.Equal(t, "c-peinture", mur.ParentID)

	inMur := 0
	for _, p := range s.Products {
		if p.CategoryID == mur.ID {
			inMur++
		}
	}
	assert.Equal(t, 2, inMur)
	assert.Len(t, s.Movements, 2, "un movimiento de entrada por stock inicial")
}

func TestImport_LineaFallidaNoDetieneElResto(t *testing.T) {
	s := apptest.NewStore()
	s.Fail["ProductRepo.Create:Vis"] = errors.New("disque plein")

	rep, err := newImport(s).Import(context.Background(), orgID, userID, []catalog.Row{
		{Line: 2, Name: "Chevilles", SKU: "CH-1"},
		{Line: 3, Name: "Chevilles bis", SKU: "ch-1"},
		{Line: 4, Name: "Vis", SKU: "VIS-1"},
		{Line: 5, Name: "Scotch", SKU: "SC-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Products)
	require.Len(t, rep.Failed, 2)
	assert.Equal(t, 3, rep.Failed[0].Line)
	assert.Contains(t, rep.Failed[0].Message, "ce SKU existe déjà")
	assert.Equal(t, 4, rep.Failed[1].Line)
	assert.Contains(t, rep.Failed[1].Message, "disque plein")
}

func TestImport_FalloAlListarCategorias(t *testing.T) {
	s := apptest.NewStore()
	s.Fail["CategoryRepo.ListByOrganization"] = errors.New("timeout")

	_, err := newImport(s).Import(context.Background(), orgID, userID, []catalog.Row{{Line: 2, Name: "X"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}
