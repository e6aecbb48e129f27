package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo movimientos de stock (append-only).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (id, organization_id, product_id, technician_id, type, quantity, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.OrganizationID, m.ProductID, nullIfEmpty(m.TechnicianID), m.Type, m.Quantity, m.Notes,
		nullIfEmpty(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// List movimientos filtrados, ordenados por created_at ascendente.
func (r *StockMovementRepo) List(ctx context.Context, organizationID string, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, organization_id, product_id, technician_id, type, quantity, notes, created_by, created_at
		FROM stock_movements WHERE organization_id = $1`)
	args := []any{organizationID}

	if len(f.ProductIDs) > 0 {
		args = append(args, f.ProductIDs)
		fmt.Fprintf(&sb, ` AND product_id = ANY($%d::uuid[])`, len(args))
	}
	if f.TechnicianID != "" {
		args = append(args, f.TechnicianID)
		fmt.Fprintf(&sb, ` AND technician_id = $%d`, len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		fmt.Fprintf(&sb, ` AND type = $%d`, len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		fmt.Fprintf(&sb, ` AND created_at >= $%d`, len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		fmt.Fprintf(&sb, ` AND created_at < $%d`, len(args))
	}
	sb.WriteString(` ORDER BY created_at, id`)
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		fmt.Fprintf(&sb, ` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var technicianID, createdBy *string
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.ProductID, &technicianID, &m.Type, &m.Quantity,
			&m.Notes, &createdBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.TechnicianID = deref(technicianID)
		m.CreatedBy = deref(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}
