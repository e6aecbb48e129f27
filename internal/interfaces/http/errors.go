package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorMappings se evalúa en orden con errors.Is: los sentinels específicos van antes que
// los genéricos (ErrDuplicateSKU antes que ErrDuplicate).
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrTechnicianRequired, fiber.StatusBadRequest, "TECHNICIAN_REQUIRED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrSlugTaken, fiber.StatusConflict, "SLUG_TAKEN"},
	{domain.ErrAlreadyMember, fiber.StatusConflict, "ALREADY_MEMBER"},
	{domain.ErrDuplicateInvitation, fiber.StatusConflict, "DUPLICATE_INVITATION"},
	{domain.ErrDuplicateSKU, fiber.StatusConflict, "DUPLICATE_SKU"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrCategoryHasChildren, fiber.StatusConflict, "CATEGORY_HAS_CHILDREN"},
	{domain.ErrCategoryCycle, fiber.StatusConflict, "CATEGORY_CYCLE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInvitationExpired, fiber.StatusGone, "INVITATION_EXPIRED"},
}

// statusFor traduce un error de dominio a status HTTP y código estable.
// El mensaje es siempre err.Error(): ya viene localizado desde el dominio.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, "HTTP_ERROR"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// writeError responde el error como dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// ErrorHandler manejador de errores de la app Fiber: los handlers pueden devolver errores de
// dominio directamente. Los 5xx se registran.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, _ := statusFor(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		}
		return writeError(c, err)
	}
}
