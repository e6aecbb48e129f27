package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-peinture-api/internal/application/apptest"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	apphttp "github.com/jhoicas/stock-peinture-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-peinture-api/pkg/jwt"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testOrgID     = "00000000-0000-0000-0000-000000000002"
	testEmail     = "marie@exemple.fr"
	testIssuer    = "stock-peinture-test"
	testExpMin    = 60
)

// failingChecker simula una caída de la DB al verificar la membresía.
type failingChecker struct{}

func (failingChecker) Get(context.Context, string, string) (*entity.Member, error) {
	return nil, errors.New("connexion refusée")
}

func storeWithMember(role string) *apptest.Store {
	s := apptest.NewStore()
	s.Members[testOrgID+"|"+testUserID] = &entity.Member{OrganizationID: testOrgID, UserID: testUserID, Role: role}
	return s
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT
//   - RequireMembership para resolver organización y rol
//   - RequireRole para autorizar el acceso
func buildTestApp(s *apptest.Store, allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/organizations/:orgID/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireMembership(apptest.MemberRepo{S: s}, logger.Nop()),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"ok":              true,
				"role":            apphttp.GetRole(c),
				"organization_id": apphttp.GetOrganizationID(c),
			})
		},
	)
	return app
}

func bearer(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testEmail, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

const protectedPath = "/organizations/" + testOrgID + "/protected"

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtractaClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "email": apphttp.GetEmail(c)})
	})

	resp := doRequest(t, app, "/me", bearer(t))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testEmail, body["email"])
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(storeWithMember(entity.RoleOwner), entity.RoleOwner), protectedPath, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(storeWithMember(entity.RoleOwner), entity.RoleOwner), protectedPath, "Token abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(storeWithMember(entity.RoleOwner), entity.RoleOwner), protectedPath, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_SecretIncorrecto_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret-completamente-distinto", testUserID, testEmail, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp(storeWithMember(entity.RoleOwner), entity.RoleOwner), protectedPath, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireMembership + RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_OwnerAccedeRutaOwner(t *testing.T) {
	resp := doRequest(t, buildTestApp(storeWithMember(entity.RoleOwner), entity.RoleOwner), protectedPath, bearer(t))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RoleOwner, body["role"])
	assert.Equal(t, testOrgID, body["organization_id"])
}

func TestRequireRole_AdminAccedeRutaOwnerOAdmin(t *testing.T) {
	resp := doRequest(t, buildTestApp(storeWithMember(entity.RoleAdmin), entity.RoleOwner, entity.RoleAdmin), protectedPath, bearer(t))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_MemberBloqueadoEnRutaAdmin(t *testing.T) {
	resp := doRequest(t, buildTestApp(storeWithMember(entity.RoleMember), entity.RoleOwner, entity.RoleAdmin), protectedPath, bearer(t))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_SinMembership_Retorna401(t *testing.T) {
	app := fiber.New()
	app.Get("/x", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireRole(entity.RoleOwner), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp := doRequest(t, app, "/x", bearer(t))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestRequireMembership_NoMiembro_Retorna403(t *testing.T) {
	resp := doRequest(t, buildTestApp(apptest.NewStore(), entity.RoleOwner), protectedPath, bearer(t))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "NOT_A_MEMBER")
}

func TestRequireMembership_OtraOrganizacion_Retorna403(t *testing.T) {
	resp := doRequest(t, buildTestApp(storeWithMember(entity.RoleOwner), entity.RoleOwner), "/organizations/00000000-0000-0000-0000-0000000000ff/protected", bearer(t))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireMembership_OrgIDNoUUID_Retorna404(t *testing.T) {
	app := fiber.New()
	app.Get("/organizations/:orgID/x",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireMembership(failingChecker{}, logger.Nop()),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)

	// nunca llega a la DB: failingChecker respondería 503
	resp := doRequest(t, app, "/organizations/abc/x", bearer(t))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "NOT_FOUND")
}

func TestRequireMembership_FalloDB_Retorna503(t *testing.T) {
	app := fiber.New()
	app.Get("/organizations/:orgID/x",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireMembership(failingChecker{}, logger.Nop()),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)

	resp := doRequest(t, app, "/organizations/"+testOrgID+"/x", bearer(t))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MEMBERSHIP_CHECK_FAILED")
}
