package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

// memberChecker es el contrato mínimo que necesita el middleware para verificar membresías.
// Lo implementa repository.MemberRepository.
type memberChecker interface {
	Get(ctx context.Context, organizationID, userID string) (*entity.Member, error)
}

// RequireMembership verifica que el usuario del token sea miembro de la organización del
// parámetro :orgID y deja organización y rol en c.Locals. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 404 Not Found → :orgID no es un UUID.
//   - 403 Forbidden → no es miembro (no se distingue de una organización inexistente).
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
func RequireMembership(checker memberChecker, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "utilisateur introuvable dans le token",
			})
		}
		orgID, err := idParam(c, "orgID")
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "organisation introuvable"})
		}

		m, err := checker.Get(c.UserContext(), orgID, userID)
		if err != nil {
			log.Error().Err(err).Str("organization_id", orgID).Msg("vérification d'appartenance")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "MEMBERSHIP_CHECK_FAILED",
				Message: "impossible de vérifier l'appartenance, réessayez plus tard",
			})
		}
		if m == nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "NOT_A_MEMBER",
				Message: "vous n'êtes pas membre de cette organisation",
			})
		}

		c.Locals(LocalOrganizationID, orgID)
		c.Locals(LocalRole, m.Role)
		return c.Next()
	}
}
