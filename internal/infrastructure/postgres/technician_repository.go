package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
)

var (
	_ repository.TechnicianRepository          = (*TechnicianRepo)(nil)
	_ repository.TechnicianInventoryRepository = (*TechnicianInventoryRepo)(nil)
)

// TechnicianRepo implementación de TechnicianRepository sobre PostgreSQL.
type TechnicianRepo struct {
	q Querier
}

// NewTechnicianRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTechnicianRepository(q Querier) *TechnicianRepo {
	return &TechnicianRepo{q: q}
}

const technicianColumns = `id, organization_id, first_name, last_name, email, phone, archived_at, created_at, updated_at`

func scanTechnician(row pgx.Row) (*entity.Technician, error) {
	var t entity.Technician
	if err := row.Scan(&t.ID, &t.OrganizationID, &t.FirstName, &t.LastName, &t.Email, &t.Phone,
		&t.ArchivedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TechnicianRepo) Create(ctx context.Context, t *entity.Technician) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO technicians (id, organization_id, first_name, last_name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.OrganizationID, t.FirstName, t.LastName, t.Email, t.Phone, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert technician: %w", err)
	}
	return nil
}

func (r *TechnicianRepo) GetByID(ctx context.Context, organizationID, id string) (*entity.Technician, error) {
	t, err := scanTechnician(r.q.QueryRow(ctx,
		`SELECT `+technicianColumns+` FROM technicians WHERE organization_id = $1 AND id = $2`,
		organizationID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get technician: %w", err)
	}
	return t, nil
}

func (r *TechnicianRepo) Update(ctx context.Context, t *entity.Technician) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE technicians SET first_name = $3, last_name = $4, email = $5, phone = $6, updated_at = $7
		WHERE organization_id = $1 AND id = $2`,
		t.OrganizationID, t.ID, t.FirstName, t.LastName, t.Email, t.Phone, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update technician: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TechnicianRepo) Archive(ctx context.Context, organizationID, id string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE technicians SET archived_at = COALESCE(archived_at, now()), updated_at = now()
		WHERE organization_id = $1 AND id = $2`, organizationID, id)
	if err != nil {
		return fmt.Errorf("archive technician: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TechnicianRepo) List(ctx context.Context, organizationID string, includeArchived bool) ([]*entity.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE organization_id = $1`
	if !includeArchived {
		query += ` AND archived_at IS NULL`
	}
	query += ` ORDER BY last_name, first_name`
	rows, err := r.q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	defer rows.Close()
	var list []*entity.Technician
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("scan technician: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Count técnicos activos.
func (r *TechnicianRepo) Count(ctx context.Context, organizationID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM technicians WHERE organization_id = $1 AND archived_at IS NULL`,
		organizationID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count technicians: %w", err)
	}
	return n, nil
}

// ─── Inventario del técnico ─────────────────────────────────────────────────

// TechnicianInventoryRepo inventario por técnico e historial de snapshots.
type TechnicianInventoryRepo struct {
	q Querier
}

// NewTechnicianInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTechnicianInventoryRepository(q Querier) *TechnicianInventoryRepo {
	return &TechnicianInventoryRepo{q: q}
}

func (r *TechnicianInventoryRepo) AddQuantity(ctx context.Context, organizationID, technicianID, productID string, delta int) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO technician_inventory (organization_id, technician_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (technician_id, product_id)
		DO UPDATE SET quantity = technician_inventory.quantity + EXCLUDED.quantity, updated_at = now()`,
		organizationID, technicianID, productID, delta,
	)
	if err != nil {
		return fmt.Errorf("upsert technician inventory: %w", err)
	}
	return nil
}

func (r *TechnicianInventoryRepo) ListByTechnician(ctx context.Context, organizationID, technicianID string) ([]*entity.TechnicianInventory, error) {
	rows, err := r.q.Query(ctx, `
		SELECT ti.organization_id, ti.technician_id, ti.product_id, p.name, p.sku, ti.quantity, ti.updated_at
		FROM technician_inventory ti
		JOIN products p ON p.id = ti.product_id
		WHERE ti.organization_id = $1 AND ti.technician_id = $2
		ORDER BY p.name`, organizationID, technicianID)
	if err != nil {
		return nil, fmt.Errorf("list technician inventory: %w", err)
	}
	defer rows.Close()
	var list []*entity.TechnicianInventory
	for rows.Next() {
		var ti entity.TechnicianInventory
		if err := rows.Scan(&ti.OrganizationID, &ti.TechnicianID, &ti.ProductID, &ti.ProductName,
			&ti.ProductSKU, &ti.Quantity, &ti.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan technician inventory: %w", err)
		}
		list = append(list, &ti)
	}
	return list, rows.Err()
}

func (r *TechnicianInventoryRepo) AppendHistory(ctx context.Context, h *entity.TechnicianInventoryHistory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO technician_inventory_history (id, organization_id, technician_id, snapshot, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		h.ID, h.OrganizationID, h.TechnicianID, []byte(h.Snapshot), nullIfEmpty(h.CreatedBy), h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert technician history: %w", err)
	}
	return nil
}

// ListHistory más recientes primero. limit <= 0 devuelve todo.
func (r *TechnicianInventoryRepo) ListHistory(ctx context.Context, organizationID, technicianID string, limit int) ([]*entity.TechnicianInventoryHistory, error) {
	query := `
		SELECT id, organization_id, technician_id, snapshot, created_by, created_at
		FROM technician_inventory_history
		WHERE organization_id = $1 AND technician_id = $2
		ORDER BY created_at DESC`
	args := []any{organizationID, technicianID}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list technician history: %w", err)
	}
	defer rows.Close()
	var list []*entity.TechnicianInventoryHistory
	for rows.Next() {
		var h entity.TechnicianInventoryHistory
		var snapshot []byte
		var createdBy *string
		if err := rows.Scan(&h.ID, &h.OrganizationID, &h.TechnicianID, &snapshot, &createdBy, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan technician history: %w", err)
		}
		h.Snapshot = snapshot
		h.CreatedBy = deref(createdBy)
		list = append(list, &h)
	}
	return list, rows.Err()
}
