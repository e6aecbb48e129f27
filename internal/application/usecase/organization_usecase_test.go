package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-peinture-api/internal/application/apptest"
	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/application/usecase"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
)

func newOrgUC(s *apptest.Store) *usecase.OrganizationUseCase {
	return usecase.NewOrganizationUseCase(apptest.OrganizationRepo{S: s}, apptest.MemberRepo{S: s}, apptest.UserRepo{S: s})
}

func seedUsers(s *apptest.Store) {
	s.Users["owner"] = &entity.User{ID: "owner", Email: "owner@exemple.fr", Name: "Owner"}
	s.Users["bob"] = &entity.User{ID: "bob", Email: "bob@exemple.fr", Name: "Bob"}
}

func TestOrganizationCreate_SlugDerivadoYOwner(t *testing.T) {
	s := apptest.NewStore()
	seedUsers(s)
	res, err := newOrgUC(s).Create(context.Background(), "owner", dto.CreateOrganizationRequest{Name: "Peintures Élégance"})
	require.NoError(t, err)
	assert.Equal(t, "peintures-elegance", res.Slug)
	assert.Equal(t, entity.RoleOwner, res.Role)
	assert.Equal(t, entity.RoleOwner, s.Members[res.ID+"|owner"].Role)
}

func TestOrganizationCreate_SlugOcupado(t *testing.T) {
	s := apptest.NewStore()
	seedUsers(s)
	uc := newOrgUC(s)
	_, err := uc.Create(context.Background(), "owner", dto.CreateOrganizationRequest{Name: "Déco"})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), "bob", dto.CreateOrganizationRequest{Name: "Autre", Slug: "deco"})
	require.ErrorIs(t, err, domain.ErrSlugTaken)
	assert.Equal(t, "Erreur lors de la création de l'organisation : ce slug est déjà utilisé", err.Error())
}

func TestOrganizationInvite_YaMiembro(t *testing.T) {
	s := apptest.NewStore()
	seedUsers(s)
	uc := newOrgUC(s)
	org, err := uc.Create(context.Background(), "owner", dto.CreateOrganizationRequest{Name: "Atelier"})
	require.NoError(t, err)

	_, err = uc.Invite(context.Background(), org.ID, "owner", dto.InviteMemberRequest{Email: "OWNER@exemple.fr", Role: entity.RoleMember})
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)
}

func TestOrganizationInvite_DuplicadaYAceptar(t *testing.T) {
	s := apptest.NewStore()
	seedUsers(s)
	uc := newOrgUC(s)
	org, err := uc.Create(context.Background(), "owner", dto.CreateOrganizationRequest{Name: "Atelier"})
	require.NoError(t, err)

	inv, err := uc.Invite(context.Background(), org.ID, "owner", dto.InviteMemberRequest{Email: "bob@exemple.fr", Role: entity.RoleAdmin})
	require.NoError(t, err)
	require.NotEmpty(t, inv.Token)

	_, err = uc.Invite(context.Background(), org.ID, "owner", dto.InviteMemberRequest{Email: "bob@exemple.fr", Role: entity.RoleMember})
	require.ErrorIs(t, err, domain.ErrDuplicateInvitation)

	joined, err := uc.AcceptInvitation(context.Background(), "bob", inv.Token)
	require.NoError(t, err)
	assert.Equal(t, org.ID, joined.ID)
	assert.Equal(t, entity.RoleAdmin, joined.Role)

	_, err = uc.AcceptInvitation(context.Background(), "bob", inv.Token)
	assert.ErrorIs(t, err, domain.ErrInvitationExpired)
}

func TestOrganizationAcceptInvitation_OtroEmail(t *testing.T) {
	s := apptest.NewStore()
	seedUsers(s)
	s.Invitations["i1"] = &entity.Invitation{
		ID: "i1", OrganizationID: "o1", Email: "carla@exemple.fr", Role: entity.RoleMember,
		Token: "tok", ExpiresAt: time.Now().Add(time.Hour),
	}
	_, err := newOrgUC(s).AcceptInvitation(context.Background(), "bob", "tok")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestOrganizationAcceptInvitation_Expirada(t *testing.T) {
	s := apptest.NewStore()
	seedUsers(s)
	s.Invitations["i1"] = &entity.Invitation{
		ID: "i1", OrganizationID: "o1", Email: "bob@exemple.fr", Role: entity.RoleMember,
		Token: "tok", ExpiresAt: time.Now().Add(-time.Minute),
	}
	_, err := newOrgUC(s).AcceptInvitation(context.Background(), "bob", "tok")
	assert.ErrorIs(t, err, domain.ErrInvitationExpired)
}

func TestOrganizationDelete_SoloOwner(t *testing.T) {
	s := apptest.NewStore()
	seedUsers(s)
	uc := newOrgUC(s)
	org, err := uc.Create(context.Background(), "owner", dto.CreateOrganizationRequest{Name: "Atelier"})
	require.NoError(t, err)
	s.Members[org.ID+"|bob"] = &entity.Member{OrganizationID: org.ID, UserID: "bob", Role: entity.RoleAdmin}

	assert.ErrorIs(t, uc.Delete(context.Background(), org.ID, "bob"), domain.ErrForbidden)
	require.NoError(t, uc.Delete(context.Background(), org.ID, "owner"))
	assert.NotContains(t, s.Orgs, org.ID)
}

func TestOrganizationRemoveMember_OwnerProtegido(t *testing.T) {
	s := apptest.NewStore()
	seedUsers(s)
	uc := newOrgUC(s)
	org, err := uc.Create(context.Background(), "owner", dto.CreateOrganizationRequest{Name: "Atelier"})
	require.NoError(t, err)
	assert.ErrorIs(t, uc.RemoveMember(context.Background(), org.ID, "owner"), domain.ErrForbidden)
}
