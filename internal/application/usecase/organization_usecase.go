package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
	"github.com/jhoicas/stock-peinture-api/pkg/slug"
)

// InvitationTTL validez de una invitación.
const InvitationTTL = 7 * 24 * time.Hour

// OrganizationUseCase organizaciones, membresías e invitaciones.
type OrganizationUseCase struct {
	orgRepo    repository.OrganizationRepository
	memberRepo repository.MemberRepository
	userRepo   repository.UserRepository
}

// NewOrganizationUseCase construye el caso de uso.
func NewOrganizationUseCase(
	orgRepo repository.OrganizationRepository,
	memberRepo repository.MemberRepository,
	userRepo repository.UserRepository,
) *OrganizationUseCase {
	return &OrganizationUseCase{orgRepo: orgRepo, memberRepo: memberRepo, userRepo: userRepo}
}

// Create crea la organización y deja al usuario como owner. Slug vacío se deriva del nombre.
func (uc *OrganizationUseCase) Create(ctx context.Context, userID string, in dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	s := in.Slug
	if s == "" {
		s = slug.Make(in.Name)
	} else {
		s = slug.Make(s)
	}
	if s == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	org := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Slug:      s,
		LogoURL:   in.LogoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.orgRepo.CreateWithOwner(ctx, org, userID); err != nil {
		return nil, domain.CreateErr("de l'organisation", err)
	}
	return toOrganizationResponse(org, entity.RoleOwner), nil
}

// Get devuelve la organización vista por el miembro.
func (uc *OrganizationUseCase) Get(ctx context.Context, organizationID, userID string) (*dto.OrganizationResponse, error) {
	org, err := uc.orgRepo.GetByID(ctx, organizationID)
	if err != nil {
		return nil, domain.FetchErr("de l'organisation", err)
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	m, err := uc.memberRepo.Get(ctx, organizationID, userID)
	if err != nil {
		return nil, domain.FetchErr("de l'organisation", err)
	}
	role := ""
	if m != nil {
		role = m.Role
	}
	return toOrganizationResponse(org, role), nil
}

// ListMine organizaciones del usuario (selector de organización).
func (uc *OrganizationUseCase) ListMine(ctx context.Context, userID string) ([]dto.OrganizationResponse, error) {
	orgs, err := uc.orgRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.FetchErr("des organisations", err)
	}
	out := make([]dto.OrganizationResponse, 0, len(orgs))
	for _, o := range orgs {
		m, err := uc.memberRepo.Get(ctx, o.ID, userID)
		if err != nil {
			return nil, domain.FetchErr("des organisations", err)
		}
		role := ""
		if m != nil {
			role = m.Role
		}
		out = append(out, *toOrganizationResponse(o, role))
	}
	return out, nil
}

// Update modifica nombre, slug o logo. Requiere owner/admin (lo verifica el middleware).
func (uc *OrganizationUseCase) Update(ctx context.Context, organizationID string, in dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error) {
	org, err := uc.orgRepo.GetByID(ctx, organizationID)
	if err != nil {
		return nil, domain.FetchErr("de l'organisation", err)
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		org.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		s := slug.Make(*in.Slug)
		if s == "" {
			return nil, domain.ErrInvalidInput
		}
		org.Slug = s
	}
	if in.LogoURL != nil {
		org.LogoURL = *in.LogoURL
	}
	org.UpdatedAt = time.Now()
	if err := uc.orgRepo.Update(ctx, org); err != nil {
		return nil, domain.UpdateErr("de l'organisation", err)
	}
	return toOrganizationResponse(org, ""), nil
}

// Delete borra la organización y, en cascada, todos sus datos. Solo el owner.
func (uc *OrganizationUseCase) Delete(ctx context.Context, organizationID, userID string) error {
	m, err := uc.memberRepo.Get(ctx, organizationID, userID)
	if err != nil {
		return domain.FetchErr("de l'organisation", err)
	}
	if m == nil || m.Role != entity.RoleOwner {
		return domain.ErrForbidden
	}
	return domain.DeleteErr("de l'organisation", uc.orgRepo.Delete(ctx, organizationID))
}

// ListMembers miembros de la organización.
func (uc *OrganizationUseCase) ListMembers(ctx context.Context, organizationID string) ([]dto.MemberResponse, error) {
	members, err := uc.memberRepo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, domain.FetchErr("des membres", err)
	}
	out := make([]dto.MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, dto.MemberResponse{
			UserID: m.UserID, Email: m.Email, Name: m.Name, Role: m.Role, CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

// Invite crea una invitación pendiente. Si el email ya es miembro -> ErrAlreadyMember;
// si ya hay una invitación pendiente -> ErrDuplicateInvitation (traducido desde el 23505).
func (uc *OrganizationUseCase) Invite(ctx context.Context, organizationID, invitedBy string, in dto.InviteMemberRequest) (*dto.InvitationResponse, error) {
	if in.Role != entity.RoleAdmin && in.Role != entity.RoleMember {
		return nil, domain.ErrInvalidInput
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.FetchErr("de l'utilisateur", err)
	}
	if user != nil {
		m, err := uc.memberRepo.Get(ctx, organizationID, user.ID)
		if err != nil {
			return nil, domain.FetchErr("des membres", err)
		}
		if m != nil {
			return nil, domain.ErrAlreadyMember
		}
	}
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	inv := &entity.Invitation{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Email:          email,
		Role:           in.Role,
		Token:          token,
		InvitedBy:      invitedBy,
		ExpiresAt:      now.Add(InvitationTTL),
		CreatedAt:      now,
	}
	if err := uc.memberRepo.CreateInvitation(ctx, inv); err != nil {
		return nil, domain.CreateErr("de l'invitation", err)
	}
	return toInvitationResponse(inv, true), nil
}

// ListInvitations invitaciones pendientes (sin token).
func (uc *OrganizationUseCase) ListInvitations(ctx context.Context, organizationID string) ([]dto.InvitationResponse, error) {
	list, err := uc.memberRepo.ListPendingInvitations(ctx, organizationID)
	if err != nil {
		return nil, domain.FetchErr("des invitations", err)
	}
	out := make([]dto.InvitationResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, *toInvitationResponse(inv, false))
	}
	return out, nil
}

// AcceptInvitation une al usuario autenticado a la organización de la invitación.
// El email del usuario debe coincidir con el invitado.
func (uc *OrganizationUseCase) AcceptInvitation(ctx context.Context, userID, token string) (*dto.OrganizationResponse, error) {
	inv, err := uc.memberRepo.GetInvitationByToken(ctx, token)
	if err != nil {
		return nil, domain.FetchErr("de l'invitation", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.AcceptedAt != nil || time.Now().After(inv.ExpiresAt) {
		return nil, domain.ErrInvitationExpired
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.FetchErr("de l'utilisateur", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !strings.EqualFold(user.Email, inv.Email) {
		return nil, domain.ErrForbidden
	}
	if err := uc.memberRepo.AcceptInvitation(ctx, inv, userID); err != nil {
		return nil, domain.CreateErr("du membre", err)
	}
	return uc.Get(ctx, inv.OrganizationID, userID)
}

// RemoveMember quita a un miembro. El owner no puede ser eliminado.
func (uc *OrganizationUseCase) RemoveMember(ctx context.Context, organizationID, userID string) error {
	m, err := uc.memberRepo.Get(ctx, organizationID, userID)
	if err != nil {
		return domain.FetchErr("du membre", err)
	}
	if m == nil {
		return domain.ErrNotFound
	}
	if m.Role == entity.RoleOwner {
		return domain.ErrForbidden
	}
	return domain.DeleteErr("du membre", uc.memberRepo.Remove(ctx, organizationID, userID))
}

func newToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func toOrganizationResponse(o *entity.Organization, role string) *dto.OrganizationResponse {
	return &dto.OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		Slug:      o.Slug,
		LogoURL:   o.LogoURL,
		Role:      role,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toInvitationResponse(inv *entity.Invitation, withToken bool) *dto.InvitationResponse {
	r := &dto.InvitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		Role:      inv.Role,
		ExpiresAt: inv.ExpiresAt,
		CreatedAt: inv.CreatedAt,
	}
	if withToken {
		r.Token = inv.Token
	}
	return r
}
