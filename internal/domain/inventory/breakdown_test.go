package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/inventory"
)

func sampleTree() ([]inventory.CategoryRef, []inventory.ProductRef) {
	cats := []inventory.CategoryRef{
		{ID: "peintures", Name: "Peintures"},
		{ID: "acryl", Name: "Acryliques", ParentID: "peintures"},
		{ID: "glyc", Name: "Glycéro", ParentID: "peintures"},
		{ID: "outils", Name: "Outils"},
		{ID: "orphan", Name: "Orpheline", ParentID: "supprimee"},
	}
	prods := []inventory.ProductRef{
		{ID: "p1", Name: "Blanc mat 10L", CategoryID: "acryl", Stock: 12},
		{ID: "p2", Name: "Blanc satin 10L", CategoryID: "acryl", Stock: 3},
		{ID: "p3", Name: "Laque noire", CategoryID: "glyc", Stock: 5},
		{ID: "p4", Name: "Sous-couche", CategoryID: "peintures", Stock: 7},
		{ID: "p5", Name: "Rouleau", CategoryID: "outils", Stock: 20},
		{ID: "p6", Name: "Pinceau", CategoryID: "orphan", Stock: 1},
		{ID: "p7", Name: "Scotch", Stock: 4},
	}
	return cats, prods
}

func findNode(nodes []*inventory.BreakdownNode, id string) *inventory.BreakdownNode {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func TestBuildBreakdown_RaizOrganizacion(t *testing.T) {
	cats, prods := sampleTree()
	b, err := inventory.BuildBreakdown(cats, prods, "")
	require.NoError(t, err)

	assert.Equal(t, 52, b.TotalStock)

	peintures := findNode(b.Nodes, "peintures")
	require.NotNil(t, peintures)
	assert.Equal(t, 27, peintures.TotalStock)
	assert.Len(t, peintures.Children, 3) // acryl, glyc, p4

	acryl := findNode(peintures.Children, "acryl")
	require.NotNil(t, acryl)
	assert.Equal(t, 15, acryl.TotalStock)

	p1 := findNode(acryl.Children, "p1")
	require.NotNil(t, p1)
	assert.Equal(t, inventory.NodeProduct, p1.Kind)
	assert.Nil(t, p1.Children)
}

func TestBuildBreakdown_HuerfanaSePromueveARaiz(t *testing.T) {
	cats, prods := sampleTree()
	b, err := inventory.BuildBreakdown(cats, prods, "")
	require.NoError(t, err)

	orphan := findNode(b.Nodes, "orphan")
	require.NotNil(t, orphan, "una categoría con padre inexistente nunca se descarta")
	assert.Equal(t, 1, orphan.TotalStock)
}

func TestBuildBreakdown_ProductosSinCategoria(t *testing.T) {
	cats, prods := sampleTree()
	b, err := inventory.BuildBreakdown(cats, prods, "")
	require.NoError(t, err)

	p7 := findNode(b.Nodes, "p7")
	require.NotNil(t, p7)
	assert.True(t, p7.Uncategorized)
	assert.Equal(t, 4, p7.TotalStock)
}

func TestBuildBreakdown_CategoriaVaciaSinChildren(t *testing.T) {
	cats := []inventory.CategoryRef{{ID: "vide", Name: "Vide"}}
	b, err := inventory.BuildBreakdown(cats, nil, "")
	require.NoError(t, err)
	require.Len(t, b.Nodes, 1)
	assert.Nil(t, b.Nodes[0].Children)
	assert.Zero(t, b.TotalStock)
}

func TestBuildBreakdown_RaizCategoria(t *testing.T) {
	cats, prods := sampleTree()
	b, err := inventory.BuildBreakdown(cats, prods, "peintures")
	require.NoError(t, err)
	assert.Equal(t, "peintures", b.RootID)
	assert.Equal(t, 27, b.TotalStock)
	assert.Len(t, b.Nodes, 3)
}

func TestBuildBreakdown_RaizInexistente(t *testing.T) {
	cats, prods := sampleTree()
	_, err := inventory.BuildBreakdown(cats, prods, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuildBreakdown_SumaIgualATodosLosProductos(t *testing.T) {
	cats, prods := sampleTree()
	b, err := inventory.BuildBreakdown(cats, prods, "")
	require.NoError(t, err)
	sum := 0
	for _, p := range prods {
		sum += p.Stock
	}
	assert.Equal(t, sum, b.TotalStock)
}

func TestBuildBreakdown_CicloDetectado(t *testing.T) {
	cats := []inventory.CategoryRef{
		{ID: "a", Name: "A", ParentID: "b"},
		{ID: "b", Name: "B", ParentID: "a"},
		{ID: "c", Name: "C"},
	}
	_, err := inventory.BuildBreakdown(cats, nil, "")
	assert.ErrorIs(t, err, domain.ErrCategoryCycle)

	_, err = inventory.BuildBreakdown(cats, nil, "a")
	assert.ErrorIs(t, err, domain.ErrCategoryCycle)
}

func TestDescendantIDs(t *testing.T) {
	cats, _ := sampleTree()
	ids, err := inventory.DescendantIDs(cats, "peintures")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"peintures", "acryl", "glyc"}, ids)

	_, err = inventory.DescendantIDs([]inventory.CategoryRef{{ID: "x", ParentID: "x"}}, "x")
	assert.ErrorIs(t, err, domain.ErrCategoryCycle)
}
