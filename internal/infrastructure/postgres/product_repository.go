package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, organization_id, category_id, name, sku, description, image_url,
	stock_current, stock_min, stock_max, price, archived_at, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var categoryID *string
	if err := row.Scan(&p.ID, &p.OrganizationID, &categoryID, &p.Name, &p.SKU, &p.Description, &p.ImageURL,
		&p.StockCurrent, &p.StockMin, &p.StockMax, &p.Price, &p.ArchivedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.CategoryID = deref(categoryID)
	return &p, nil
}

// Create persiste un nuevo producto. SKU repetido en la organización -> domain.ErrDuplicateSKU.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, organization_id, category_id, name, sku, description, image_url,
			stock_current, stock_min, stock_max, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.OrganizationID, nullIfEmpty(p.CategoryID), p.Name, p.SKU, p.Description, p.ImageURL,
		p.StockCurrent, p.StockMin, p.StockMax, p.Price, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return translateUnique(err)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto de la organización. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, organizationID, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE organization_id = $1 AND id = $2`,
		organizationID, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, organizationID, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE organization_id = $1 AND id = $2 FOR UPDATE`,
		organizationID, id)
}

func (r *ProductRepo) getOne(ctx context.Context, query, organizationID, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, organizationID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza datos descriptivos. No toca stock_current (se maneja vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET category_id = $3, name = $4, sku = $5, description = $6, image_url = $7,
			stock_min = $8, stock_max = $9, price = $10, updated_at = $11
		WHERE organization_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		p.OrganizationID, p.ID, nullIfEmpty(p.CategoryID), p.Name, p.SKU, p.Description, p.ImageURL,
		p.StockMin, p.StockMax, p.Price, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return translateUnique(err)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija el total cacheado (usado por el motor de movimientos dentro de la tx).
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, stockCurrent int) error {
	_, err := r.q.Exec(ctx,
		`UPDATE products SET stock_current = $2, updated_at = now() WHERE id = $1`,
		id, stockCurrent,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// Archive baja lógica. Idempotente.
func (r *ProductRepo) Archive(ctx context.Context, organizationID, id string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET archived_at = COALESCE(archived_at, now()), updated_at = now()
		WHERE organization_id = $1 AND id = $2`, organizationID, id)
	if err != nil {
		return fmt.Errorf("archive product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// productWhere arma el WHERE común a List y Count.
func productWhere(organizationID string, f repository.ProductFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(` WHERE organization_id = $1`)
	args := []any{organizationID}

	if !f.IncludeArchived {
		sb.WriteString(` AND archived_at IS NULL`)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		fmt.Fprintf(&sb, ` AND (name ILIKE $%d OR sku ILIKE $%d)`, len(args), len(args))
	}
	if len(f.CategoryIDs) > 0 {
		args = append(args, f.CategoryIDs)
		fmt.Fprintf(&sb, ` AND category_id = ANY($%d::uuid[])`, len(args))
	}
	return sb.String(), args
}

// List lista productos de la organización con filtros opcionales, por nombre.
func (r *ProductRepo) List(ctx context.Context, organizationID string, f repository.ProductFilter) ([]*entity.Product, error) {
	where, args := productWhere(organizationID, f)
	var sb strings.Builder
	sb.WriteString(`SELECT ` + productColumns + ` FROM products` + where)
	sb.WriteString(` ORDER BY name, id`)
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		fmt.Fprintf(&sb, ` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Count total de productos que cumplen el filtro, sin paginación.
func (r *ProductRepo) Count(ctx context.Context, organizationID string, f repository.ProductFilter) (int, error) {
	where, args := productWhere(organizationID, f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
