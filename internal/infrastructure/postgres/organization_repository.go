package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
)

var (
	_ repository.OrganizationRepository = (*OrganizationRepo)(nil)
	_ repository.MemberRepository       = (*MemberRepo)(nil)
)

// OrganizationRepo implementación de OrganizationRepository sobre PostgreSQL.
type OrganizationRepo struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository construye el adaptador de organizaciones.
func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepo {
	return &OrganizationRepo{pool: pool}
}

const organizationColumns = `o.id, o.name, o.slug, o.logo_url, o.created_at, o.updated_at`

// CreateWithOwner inserta la organización y la membresía owner en la misma transacción.
func (r *OrganizationRepo) CreateWithOwner(ctx context.Context, org *entity.Organization, ownerID string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO organizations (id, name, slug, logo_url, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			org.ID, org.Name, org.Slug, org.LogoURL, org.CreatedAt, org.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return translateUnique(err)
			}
			return fmt.Errorf("insert organization: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO organization_members (organization_id, user_id, role, created_at)
			VALUES ($1, $2, $3, $4)`,
			org.ID, ownerID, entity.RoleOwner, org.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert owner member: %w", err)
		}
		return nil
	})
}

// GetByID obtiene una organización. (nil, nil) si no existe.
func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	return r.findOne(ctx, `SELECT `+organizationColumns+` FROM organizations o WHERE o.id = $1`, id)
}

// GetBySlug obtiene una organización por su slug.
func (r *OrganizationRepo) GetBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	return r.findOne(ctx, `SELECT `+organizationColumns+` FROM organizations o WHERE o.slug = $1`, slug)
}

func (r *OrganizationRepo) findOne(ctx context.Context, query, arg string) (*entity.Organization, error) {
	var o entity.Organization
	err := r.pool.QueryRow(ctx, query, arg).Scan(&o.ID, &o.Name, &o.Slug, &o.LogoURL, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &o, nil
}

// ListByUser organizaciones de las que el usuario es miembro, por nombre.
func (r *OrganizationRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Organization, error) {
	query := `
		SELECT ` + organizationColumns + `
		FROM organizations o
		JOIN organization_members m ON m.organization_id = o.id
		WHERE m.user_id = $1
		ORDER BY o.name`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Organization
	for rows.Next() {
		var o entity.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Slug, &o.LogoURL, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// Update modifica nombre, slug y logo.
func (r *OrganizationRepo) Update(ctx context.Context, org *entity.Organization) error {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE organizations SET name = $2, slug = $3, logo_url = $4, updated_at = $5
		WHERE id = $1`,
		org.ID, org.Name, org.Slug, org.LogoURL, org.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return translateUnique(err)
		}
		return fmt.Errorf("update organization: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la organización; el resto cae por ON DELETE CASCADE.
func (r *OrganizationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}
	return nil
}

// ─── Miembros e invitaciones ────────────────────────────────────────────────

// MemberRepo implementación de MemberRepository sobre PostgreSQL.
type MemberRepo struct {
	pool *pgxpool.Pool
}

// NewMemberRepository construye el adaptador de membresías.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepo {
	return &MemberRepo{pool: pool}
}

func (r *MemberRepo) Get(ctx context.Context, organizationID, userID string) (*entity.Member, error) {
	var m entity.Member
	err := r.pool.QueryRow(ctx, `
		SELECT m.organization_id, m.user_id, m.role, u.email, u.name, m.created_at
		FROM organization_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.organization_id = $1 AND m.user_id = $2`,
		organizationID, userID,
	).Scan(&m.OrganizationID, &m.UserID, &m.Role, &m.Email, &m.Name, &m.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get member: %w", err)
	}
	return &m, nil
}

func (r *MemberRepo) Add(ctx context.Context, m *entity.Member) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO organization_members (organization_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)`,
		m.OrganizationID, m.UserID, m.Role, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return translateUnique(err)
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (r *MemberRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.organization_id, m.user_id, m.role, u.email, u.name, m.created_at
		FROM organization_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.organization_id = $1
		ORDER BY m.created_at`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()
	var list []*entity.Member
	for rows.Next() {
		var m entity.Member
		if err := rows.Scan(&m.OrganizationID, &m.UserID, &m.Role, &m.Email, &m.Name, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *MemberRepo) Remove(ctx context.Context, organizationID, userID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM organization_members WHERE organization_id = $1 AND user_id = $2`,
		organizationID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

// CreateInvitation. Invitación pendiente duplicada -> domain.ErrDuplicateInvitation (índice parcial).
func (r *MemberRepo) CreateInvitation(ctx context.Context, inv *entity.Invitation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO invitations (id, organization_id, email, role, token, invited_by, expires_at, created_at)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7, $8)`,
		inv.ID, inv.OrganizationID, inv.Email, inv.Role, inv.Token, nullIfEmpty(inv.InvitedBy),
		inv.ExpiresAt, inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return translateUnique(err)
		}
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

const invitationColumns = `id, organization_id, email, role, token, invited_by, accepted_at, expires_at, created_at`

func scanInvitation(row pgx.Row) (*entity.Invitation, error) {
	var inv entity.Invitation
	var invitedBy *string
	if err := row.Scan(&inv.ID, &inv.OrganizationID, &inv.Email, &inv.Role, &inv.Token, &invitedBy,
		&inv.AcceptedAt, &inv.ExpiresAt, &inv.CreatedAt); err != nil {
		return nil, err
	}
	inv.InvitedBy = deref(invitedBy)
	return &inv, nil
}

func (r *MemberRepo) GetInvitationByToken(ctx context.Context, token string) (*entity.Invitation, error) {
	inv, err := scanInvitation(r.pool.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE token = $1`, token))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

func (r *MemberRepo) ListPendingInvitations(ctx context.Context, organizationID string) ([]*entity.Invitation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE organization_id = $1 AND accepted_at IS NULL AND expires_at > now()
		ORDER BY created_at DESC`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// AcceptInvitation marca accepted_at y crea la membresía con el rol invitado.
func (r *MemberRepo) AcceptInvitation(ctx context.Context, inv *entity.Invitation, userID string) error {
	now := time.Now().UTC()
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx,
			`UPDATE invitations SET accepted_at = $2 WHERE id = $1 AND accepted_at IS NULL`, inv.ID, now)
		if err != nil {
			return fmt.Errorf("accept invitation: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrInvitationExpired
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO organization_members (organization_id, user_id, role, created_at)
			VALUES ($1, $2, $3, $4)`,
			inv.OrganizationID, userID, inv.Role, now,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return translateUnique(err)
			}
			return fmt.Errorf("insert member: %w", err)
		}
		inv.AcceptedAt = &now
		return nil
	})
}
