package ai

import (
	"context"
	"time"

	"github.com/fitpantry/coach/pkg/healthcheck"
	"go.uber.org/zap"
)

// HealthChecker probes the configured provider. An unreachable provider
// degrades the service: local actions keep working.
type HealthChecker struct {
	provider Provider
	timeout  time.Duration
	logger   *zap.Logger
}

// NewHealthChecker creates a new AI health checker
func NewHealthChecker(provider Provider, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		provider: provider,
		timeout:  10 * time.Second,
		logger:   logger.Named("ai-health"),
	}
}

var _ healthcheck.Checker = (*HealthChecker)(nil)

// Check implements healthcheck.Checker
func (h *HealthChecker) Check(ctx context.Context) healthcheck.Check {
	start := time.Now()
	check := healthcheck.Check{
		Status:      healthcheck.StatusHealthy,
		LastChecked: start,
		Metadata:    map[string]string{"provider": h.provider.Name()},
	}

	healthCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := h.provider.HealthCheck(healthCtx); err != nil {
		check.Status = healthcheck.StatusDegraded
		check.Message = err.Error()
		h.logger.Warn("AI provider health check failed",
			zap.String("provider", h.provider.Name()),
			zap.Error(err))
	}
	check.Duration = time.Since(start)
	return check
}
