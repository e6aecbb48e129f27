package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, organization_id, parent_id, name, created_at, updated_at`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	var parentID *string
	if err := row.Scan(&c.ID, &c.OrganizationID, &parentID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.ParentID = deref(parentID)
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO categories (id, organization_id, parent_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.OrganizationID, nullIfEmpty(c.ParentID), c.Name, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return translateUnique(err)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID (nil, nil) si no existe en la organización.
func (r *CategoryRepo) GetByID(ctx context.Context, organizationID, id string) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE organization_id = $1 AND id = $2`,
		organizationID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE categories SET name = $3, parent_id = $4, updated_at = $5
		WHERE organization_id = $1 AND id = $2`,
		c.OrganizationID, c.ID, c.Name, nullIfEmpty(c.ParentID), c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE organization_id = $1 ORDER BY name`,
		organizationID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CategoryRepo) CountChildren(ctx context.Context, organizationID, id string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM categories WHERE organization_id = $1 AND parent_id = $2`,
		organizationID, id,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count child categories: %w", err)
	}
	return n, nil
}

// Delete elimina la categoría; sus productos quedan sin categoría (ON DELETE SET NULL).
func (r *CategoryRepo) Delete(ctx context.Context, organizationID, id string) error {
	cmd, err := r.q.Exec(ctx,
		`DELETE FROM categories WHERE organization_id = $1 AND id = $2`, organizationID, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
