package ai

import (
	"context"

	"github.com/fitpantry/coach/internal/infrastructure/config"
	"github.com/fitpantry/coach/internal/ports/outbound"
	"github.com/fitpantry/coach/pkg/healthcheck"
	"go.uber.org/zap"
)

// NewCircuitBreaker builds the breaker guarding provider calls and logs its transitions
func NewCircuitBreaker(cfg config.AIConfig, logger *zap.Logger) *healthcheck.CircuitBreaker {
	log := logger.Named("ai-breaker")
	return healthcheck.NewCircuitBreaker(cfg.Provider, healthcheck.CircuitBreakerConfig{
		FailureThreshold: cfg.BreakerThreshold,
		Cooldown:         cfg.BreakerCooldown,
		OnStateChange: func(name string, from, to healthcheck.CircuitBreakerState) {
			log.Warn("AI circuit breaker state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// BreakerGateway short-circuits calls while the provider keeps failing
type BreakerGateway struct {
	next    outbound.Gateway
	breaker *healthcheck.CircuitBreaker
}

// NewBreakerGateway decorates next with breaker
func NewBreakerGateway(next outbound.Gateway, breaker *healthcheck.CircuitBreaker) *BreakerGateway {
	return &BreakerGateway{next: next, breaker: breaker}
}

var _ outbound.Gateway = (*BreakerGateway)(nil)

// Name returns the wrapped provider name
func (g *BreakerGateway) Name() string {
	return g.next.Name()
}

// Generate forwards the call unless the circuit is open
func (g *BreakerGateway) Generate(ctx context.Context, prompt string, attachments ...outbound.Attachment) (string, error) {
	var text string
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		text, err = g.next.Generate(ctx, prompt, attachments...)
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}
