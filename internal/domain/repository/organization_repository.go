package repository

import (
	"context"

	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
)

// OrganizationRepository define el puerto de persistencia para Organization (DIP).
type OrganizationRepository interface {
	// CreateWithOwner crea la organización y su miembro owner en una sola operación atómica.
	CreateWithOwner(ctx context.Context, org *entity.Organization, ownerID string) error
	GetByID(ctx context.Context, id string) (*entity.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Organization, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Organization, error)
	Update(ctx context.Context, org *entity.Organization) error
	// Delete elimina la organización; las FKs borran en cascada todas las filas hijas.
	Delete(ctx context.Context, id string) error
}

// MemberRepository membresías e invitaciones.
type MemberRepository interface {
	Get(ctx context.Context, organizationID, userID string) (*entity.Member, error)
	Add(ctx context.Context, m *entity.Member) error
	ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Member, error)
	Remove(ctx context.Context, organizationID, userID string) error

	CreateInvitation(ctx context.Context, inv *entity.Invitation) error
	GetInvitationByToken(ctx context.Context, token string) (*entity.Invitation, error)
	ListPendingInvitations(ctx context.Context, organizationID string) ([]*entity.Invitation, error)
	// AcceptInvitation marca la invitación como usada y crea la membresía (misma transacción).
	AcceptInvitation(ctx context.Context, inv *entity.Invitation, userID string) error
}
