package obs

import (
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// InstrumentRedis attaches OpenTelemetry tracing, and optionally metrics, to client.
// Failures are logged; an uninstrumented client still works.
func InstrumentRedis(client *redis.Client, withMetrics bool, logger zerolog.Logger) {
	if client == nil {
		return
	}
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if withMetrics {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
}
