package services

import (
	"context"
	"fmt"
	"time"

	"github.com/TourHive/booking-flow-backend/logger"
	"github.com/TourHive/booking-flow-backend/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SessionCounter reports how many booking sessions are live. Satisfied by
// the session registry.
type SessionCounter interface {
	Len() int
}

// HealthService aggregates component health for the readiness and detailed
// health endpoints. Redis is the only hard dependency: without it the schema
// cache degrades but bookings still work, so a Redis outage reports DEGRADED
// rather than DOWN.
type HealthService struct {
	redisClient *redis.Client
	sessions    SessionCounter
	version     string
	startedAt   time.Time
	log         *zap.SugaredLogger
}

func NewHealthService(redisClient *redis.Client, sessions SessionCounter, version string) *HealthService {
	return &HealthService{
		redisClient: redisClient,
		sessions:    sessions,
		version:     version,
		startedAt:   time.Now(),
		log:         logger.GetLogger(),
	}
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	redisStatus := h.checkRedis(ctx)
	components["redis"] = redisStatus
	if redisStatus.Status == types.HealthStatusDegraded {
		overallStatus = types.HealthStatusDegraded
	}

	components["sessions"] = h.checkSessions()

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
	}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if h.redisClient == nil {
		return types.HealthComponent{
			Status:  types.HealthStatusDegraded,
			Details: "Redis not configured; schema cache disabled",
		}
	}

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDegraded,
			Details: "Redis connection failed; schema lookups go upstream",
		}
	}

	return types.HealthComponent{
		Status: types.HealthStatusUp,
	}
}

func (h *HealthService) checkSessions() types.HealthComponent {
	if h.sessions == nil {
		return types.HealthComponent{
			Status: types.HealthStatusUp,
		}
	}
	return types.HealthComponent{
		Status:  types.HealthStatusUp,
		Details: fmt.Sprintf("%d live sessions", h.sessions.Len()),
	}
}
