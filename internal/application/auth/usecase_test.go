package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-peinture-api/internal/application/apptest"
	"github.com/jhoicas/stock-peinture-api/internal/application/auth"
	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/pkg/jwt"
)

const (
	testSecret   = "secret-auth-test"
	testIssuer   = "stock-peinture-test"
	testPassword = "Peinture2026!"
)

func newAuthUC(s *apptest.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(apptest.UserRepo{S: s}, apptest.OrganizationRepo{S: s}, apptest.MemberRepo{S: s}, auth.JWTConfig{
		Secret: testSecret, ExpMinutes: 30, Issuer: testIssuer,
	})
}

func register(t *testing.T, uc *auth.AuthUseCase, email string) *dto.UserResponse {
	t.Helper()
	u, err := uc.Register(context.Background(), dto.RegisterRequest{Email: email, Password: testPassword, Name: "Claire Dubois"})
	require.NoError(t, err)
	return u
}

// ─── Register ───────────────────────────────────────────────────────────────

func TestRegister_GuardaHashBcrypt(t *testing.T) {
	s := apptest.NewStore()
	u := register(t, newAuthUC(s), "  Claire@Atelier.fr ")

	assert.Equal(t, "claire@atelier.fr", u.Email)
	assert.Equal(t, "Claire Dubois", u.Name)

	stored := s.Users[u.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, testPassword, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(testPassword)))
}

func TestRegister_NombreVacioUsaEmail(t *testing.T) {
	u, err := newAuthUC(apptest.NewStore()).Register(context.Background(), dto.RegisterRequest{
		Email: "sans.nom@atelier.fr", Password: testPassword, Name: "   ",
	})
	require.NoError(t, err)
	assert.Equal(t, "sans.nom@atelier.fr", u.Name)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	s := apptest.NewStore()
	uc := newAuthUC(s)
	register(t, uc, "claire@atelier.fr")

	_, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "CLAIRE@atelier.fr", Password: testPassword, Name: "Autre"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Len(t, s.Users, 1)
}

func TestRegister_FalloLecturaSeEnvuelve(t *testing.T) {
	s := apptest.NewStore()
	boom := errors.New("connexion perdue")
	s.Fail["UserRepo.GetByEmail"] = boom

	_, err := newAuthUC(s).Register(context.Background(), dto.RegisterRequest{Email: "a@b.fr", Password: testPassword, Name: "A"})
	require.ErrorIs(t, err, boom)
	var opErr *domain.OpError
	assert.ErrorAs(t, err, &opErr)
	assert.Empty(t, s.Users)
}

// ─── Login ──────────────────────────────────────────────────────────────────

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc := newAuthUC(apptest.NewStore())
	register(t, uc, "claire@atelier.fr")

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "claire@atelier.fr", Password: "mauvais-mot"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_EmailDesconocidoMismoError(t *testing.T) {
	_, err := newAuthUC(apptest.NewStore()).Login(context.Background(), dto.LoginRequest{Email: "personne@atelier.fr", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_TokenYOrganizaciones(t *testing.T) {
	s := apptest.NewStore()
	uc := newAuthUC(s)
	u := register(t, uc, "claire@atelier.fr")

	now := time.Now()
	s.Orgs["org-b"] = &entity.Organization{ID: "org-b", Name: "Bâtiment Sud", Slug: "batiment-sud", CreatedAt: now}
	s.Orgs["org-a"] = &entity.Organization{ID: "org-a", Name: "Atelier Nord", Slug: "atelier-nord", CreatedAt: now}
	s.Orgs["org-x"] = &entity.Organization{ID: "org-x", Name: "Ailleurs", Slug: "ailleurs", CreatedAt: now}
	s.Members["org-a|"+u.ID] = &entity.Member{OrganizationID: "org-a", UserID: u.ID, Role: entity.RoleOwner}
	s.Members["org-b|"+u.ID] = &entity.Member{OrganizationID: "org-b", UserID: u.ID, Role: entity.RoleMember}

	res, err := uc.Login(context.Background(), dto.LoginRequest{Email: "Claire@atelier.fr", Password: testPassword})
	require.NoError(t, err)

	assert.Equal(t, u.ID, res.User.ID)
	assert.Equal(t, 30*60, res.ExpiresIn)
	require.Len(t, res.Organizations, 2)
	assert.Equal(t, "org-a", res.Organizations[0].ID)
	assert.Equal(t, entity.RoleOwner, res.Organizations[0].Role)
	assert.Equal(t, "org-b", res.Organizations[1].ID)
	assert.Equal(t, entity.RoleMember, res.Organizations[1].Role)

	claims, err := jwt.Parse(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "claire@atelier.fr", claims.Email)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestLogin_SinOrganizacionesDevuelveListaVacia(t *testing.T) {
	uc := newAuthUC(apptest.NewStore())
	register(t, uc, "solo@atelier.fr")

	res, err := uc.Login(context.Background(), dto.LoginRequest{Email: "solo@atelier.fr", Password: testPassword})
	require.NoError(t, err)
	assert.NotNil(t, res.Organizations)
	assert.Empty(t, res.Organizations)
}

// ─── Me ─────────────────────────────────────────────────────────────────────

func TestMe(t *testing.T) {
	uc := newAuthUC(apptest.NewStore())
	u := register(t, uc, "claire@atelier.fr")

	me, err := uc.Me(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, me.Email)

	_, err = uc.Me(context.Background(), "inconnu")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
