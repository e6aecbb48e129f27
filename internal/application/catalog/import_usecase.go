// Package catalog importa catálogos de productos en bloque (herramienta de administración).
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/infrastructure/catalog"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

// CategoryService lo que el import necesita de las categorías.
type CategoryService interface {
	List(ctx context.Context, organizationID string) ([]dto.CategoryResponse, error)
	Create(ctx context.Context, organizationID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
}

// ProductCreator alta de un producto con su stock inicial.
type ProductCreator interface {
	Create(ctx context.Context, organizationID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error)
}

// RowError una línea que no se pudo importar.
type RowError struct {
	Line    int    `json:"line"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Report resultado del import.
type Report struct {
	Products   int        `json:"products"`
	Categories int        `json:"categories"`
	Failed     []RowError `json:"failed"`
}

// ImportUseCase crea categorías (por ruta) y productos. Cada línea es independiente: un fallo
// se registra en el informe y el import continúa.
type ImportUseCase struct {
	categories CategoryService
	products   ProductCreator
	log        *logger.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(categories CategoryService, products ProductCreator, log *logger.Logger) *ImportUseCase {
	return &ImportUseCase{categories: categories, products: products, log: log}
}

func pathKey(parentID, name string) string {
	return parentID + "/" + strings.ToLower(name)
}

// Import aplica las filas en orden.
func (uc *ImportUseCase) Import(ctx context.Context, organizationID, userID string, rows []catalog.Row) (*Report, error) {
	existing, err := uc.categories.List(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	known := make(map[string]string, len(existing))
	for _, c := range existing {
		known[pathKey(c.ParentID, c.Name)] = c.ID
	}

	rep := &Report{Failed: []RowError{}}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		categoryID := ""
		failed := false
		for _, name := range catalog.CategoryPath(row.Category) {
			k := pathKey(categoryID, name)
			if id, ok := known[k]; ok {
				categoryID = id
				continue
			}
			c, err := uc.categories.Create(ctx, organizationID, dto.CreateCategoryRequest{Name: name, ParentID: categoryID})
			if err != nil {
				rep.Failed = append(rep.Failed, RowError{Line: row.Line, Name: row.Name, Message: err.Error()})
				failed = true
				break
			}
			known[k] = c.ID
			categoryID = c.ID
			rep.Categories++
		}
		if failed {
			continue
		}

		_, err := uc.products.Create(ctx, organizationID, userID, dto.CreateProductRequest{
			Name:         row.Name,
			SKU:          row.SKU,
			CategoryID:   categoryID,
			StockCurrent: row.Stock,
			StockMin:     row.StockMin,
			StockMax:     row.StockMax,
			Price:        row.Price,
		})
		if err != nil {
			rep.Failed = append(rep.Failed, RowError{Line: row.Line, Name: row.Name, Message: err.Error()})
			if !isRowError(err) {
				uc.log.Warn().Err(err).Int("line", row.Line).Msg("import de producto")
			}
			continue
		}
		rep.Products++
	}
	uc.log.Info().
		Str("organization_id", organizationID).
		Int("products", rep.Products).
		Int("categories", rep.Categories).
		Int("failed", len(rep.Failed)).
		Msg("import de catálogo terminado")
	return rep, nil
}

// isRowError errores atribuibles a los datos de la línea, no a la infraestructura.
func isRowError(err error) bool {
	for _, target := range []error{domain.ErrInvalidInput, domain.ErrDuplicateSKU, domain.ErrNotFound} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
