package inventory

import "github.com/jhoicas/stock-peinture-api/internal/domain"

// Tipos de nodo del desglose.
const (
	NodeCategory = "category"
	NodeProduct  = "product"
)

// CategoryRef vista mínima de una categoría para el desglose.
type CategoryRef struct {
	ID       string
	Name     string
	ParentID string
}

// ProductRef vista mínima de un producto para el desglose.
type ProductRef struct {
	ID         string
	Name       string
	CategoryID string
	Stock      int
}

// BreakdownNode nodo del árbol. Children solo se serializa cuando no está vacío.
type BreakdownNode struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Kind          string           `json:"kind"`
	TotalStock    int              `json:"totalStock"`
	Uncategorized bool             `json:"uncategorized,omitempty"`
	Children      []*BreakdownNode `json:"children,omitempty"`
}

// Breakdown resultado del desglose. RootID vacío = raíz de la organización.
type Breakdown struct {
	RootID     string           `json:"rootId,omitempty"`
	RootName   string           `json:"rootName,omitempty"`
	TotalStock int              `json:"totalStock"`
	Nodes      []*BreakdownNode `json:"nodes"`
}

type categoryTree struct {
	byID     map[string]CategoryRef
	children map[string][]CategoryRef
	products map[string][]ProductRef
	roots    []CategoryRef
	loose    []ProductRef // sin categoría o con categoría inexistente
}

func newCategoryTree(categories []CategoryRef, products []ProductRef) *categoryTree {
	t := &categoryTree{
		byID:     make(map[string]CategoryRef, len(categories)),
		children: make(map[string][]CategoryRef),
		products: make(map[string][]ProductRef),
	}
	for _, c := range categories {
		t.byID[c.ID] = c
	}
	for _, c := range categories {
		if _, ok := t.byID[c.ParentID]; c.ParentID == "" || !ok {
			// padre inexistente: se promueve a raíz
			t.roots = append(t.roots, c)
			continue
		}
		t.children[c.ParentID] = append(t.children[c.ParentID], c)
	}
	for _, p := range products {
		if _, ok := t.byID[p.CategoryID]; p.CategoryID == "" || !ok {
			t.loose = append(t.loose, p)
			continue
		}
		t.products[p.CategoryID] = append(t.products[p.CategoryID], p)
	}
	return t
}

// build arma el nodo de la categoría id. visiting detecta ciclos en la cadena actual.
func (t *categoryTree) build(c CategoryRef, visiting map[string]bool, seen map[string]bool) (*BreakdownNode, error) {
	if visiting[c.ID] {
		return nil, domain.ErrCategoryCycle
	}
	visiting[c.ID] = true
	defer delete(visiting, c.ID)
	seen[c.ID] = true

	node := &BreakdownNode{ID: c.ID, Name: c.Name, Kind: NodeCategory}
	for _, child := range t.children[c.ID] {
		cn, err := t.build(child, visiting, seen)
		if err != nil {
			return nil, err
		}
		node.TotalStock += cn.TotalStock
		node.Children = append(node.Children, cn)
	}
	for _, p := range t.products[c.ID] {
		node.TotalStock += p.Stock
		node.Children = append(node.Children, &BreakdownNode{ID: p.ID, Name: p.Name, Kind: NodeProduct, TotalStock: p.Stock})
	}
	return node, nil
}

// BuildBreakdown calcula el árbol de stock:
//
//	totalStock(c) = Σ stock de sus productos directos + Σ totalStock(hijas)
//
// Con rootID vacío devuelve las categorías raíz (incluidas las huérfanas) y los productos sin
// categoría como hojas de primer nivel. Con rootID devuelve el contenido de esa categoría.
// Un parent_id cíclico devuelve domain.ErrCategoryCycle.
func BuildBreakdown(categories []CategoryRef, products []ProductRef, rootID string) (*Breakdown, error) {
	t := newCategoryTree(categories, products)
	visiting := make(map[string]bool)
	seen := make(map[string]bool)

	if rootID != "" {
		root, ok := t.byID[rootID]
		if !ok {
			return nil, domain.ErrNotFound
		}
		node, err := t.build(root, visiting, seen)
		if err != nil {
			return nil, err
		}
		nodes := node.Children
		if nodes == nil {
			nodes = []*BreakdownNode{}
		}
		return &Breakdown{RootID: root.ID, RootName: root.Name, TotalStock: node.TotalStock, Nodes: nodes}, nil
	}

	out := &Breakdown{Nodes: []*BreakdownNode{}}
	for _, r := range t.roots {
		node, err := t.build(r, visiting, seen)
		if err != nil {
			return nil, err
		}
		out.TotalStock += node.TotalStock
		out.Nodes = append(out.Nodes, node)
	}
	// Categorías inalcanzables desde una raíz solo pueden colgar de un ciclo.
	if len(seen) != len(t.byID) {
		return nil, domain.ErrCategoryCycle
	}
	for _, p := range t.loose {
		out.TotalStock += p.Stock
		out.Nodes = append(out.Nodes, &BreakdownNode{
			ID: p.ID, Name: p.Name, Kind: NodeProduct, TotalStock: p.Stock, Uncategorized: true,
		})
	}
	return out, nil
}

// DescendantIDs devuelve rootID y todos sus descendientes (preorden).
func DescendantIDs(categories []CategoryRef, rootID string) ([]string, error) {
	t := newCategoryTree(categories, nil)
	if _, ok := t.byID[rootID]; !ok {
		return nil, domain.ErrNotFound
	}
	var ids []string
	visiting := make(map[string]bool)
	var walk func(id string) error
	walk = func(id string) error {
		if visiting[id] {
			return domain.ErrCategoryCycle
		}
		visiting[id] = true
		ids = append(ids, id)
		for _, c := range t.children[id] {
			if err := walk(c.ID); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(rootID); err != nil {
		return nil, err
	}
	return ids, nil
}
