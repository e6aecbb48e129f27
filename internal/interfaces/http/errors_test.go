package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	apphttp "github.com/jhoicas/stock-peinture-api/internal/interfaces/http"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

func TestErrorHandler_TraduceErroresDeDominio(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"sku duplicado envuelto", domain.CreateErr("du produit", domain.ErrDuplicateSKU), http.StatusConflict, "DUPLICATE_SKU"},
		{"no encontrado", domain.FetchErr("du produit", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"validación", domain.ErrInvalidInput, http.StatusBadRequest, "VALIDATION"},
		{"técnico requerido", domain.ErrTechnicianRequired, http.StatusBadRequest, "TECHNICIAN_REQUIRED"},
		{"stock insuficiente", domain.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"ciclo", domain.ErrCategoryCycle, http.StatusConflict, "CATEGORY_CYCLE"},
		{"invitación expirada", domain.ErrInvitationExpired, http.StatusGone, "INVITATION_EXPIRED"},
		{"prohibido", domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"fiber", fiber.NewError(http.StatusTeapot, "thé"), http.StatusTeapot, "HTTP_ERROR"},
		{"desconocido", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
			app.Get("/", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, tc.err.Error(), body.Message)
		})
	}
}

func TestErrorHandler_MensajeLocalizado(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	app.Get("/", func(c *fiber.Ctx) error {
		return domain.CreateErr("du produit", domain.ErrDuplicateSKU)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Erreur lors de la création du produit : ce SKU existe déjà dans l'organisation", body.Message)
}
