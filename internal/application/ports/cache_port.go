package ports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/stock-peinture-api/pkg/logger"
)

// ErrCacheMiss la clave no existe o expiró.
var ErrCacheMiss = errors.New("cache: clave no encontrada")

// Cache define el puerto de salida para el almacenamiento clave/valor con expiración.
// Lo usan las estadísticas del dashboard y los borradores del asistente de onboarding.
// Los valores viajan serializados en JSON; Get decodifica sobre dst.
type Cache interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// StatsKey clave de las estadísticas cacheadas de una organización.
func StatsKey(organizationID string) string {
	return fmt.Sprintf("stats:%s", organizationID)
}

// OnboardingKey clave del estado del asistente por (organización, usuario).
func OnboardingKey(organizationID, userID string) string {
	return fmt.Sprintf("onboarding:%s:%s", organizationID, userID)
}

// InvalidateStats borra las estadísticas cacheadas de la organización tras una escritura.
// Un fallo de la caché no invalida la operación ya confirmada: solo se registra.
func InvalidateStats(ctx context.Context, c Cache, log *logger.Logger, organizationID string) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, StatsKey(organizationID)); err != nil && log != nil {
		log.Warn().Err(err).Str("organization_id", organizationID).Msg("invalidar caché de estadísticas")
	}
}
