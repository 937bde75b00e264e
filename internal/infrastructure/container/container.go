// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/fitpantry/coach/internal/application/coach"
	"github.com/fitpantry/coach/internal/domain/shared"
	"github.com/fitpantry/coach/internal/infrastructure/ai"
	"github.com/fitpantry/coach/internal/infrastructure/calendar"
	"github.com/fitpantry/coach/internal/infrastructure/config"
	"github.com/fitpantry/coach/internal/infrastructure/http/apiserver"
	"github.com/fitpantry/coach/internal/infrastructure/http/middleware"
	"github.com/fitpantry/coach/internal/infrastructure/monitoring"
	"github.com/fitpantry/coach/internal/infrastructure/security"
	"github.com/fitpantry/coach/internal/ports/inbound"
	"github.com/fitpantry/coach/internal/ports/outbound"
	"github.com/fitpantry/coach/pkg/healthcheck"
	"github.com/fitpantry/coach/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ConfigPathEnv names the variable holding an explicit config file path
const ConfigPathEnv = "FITPANTRY_CONFIG"

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	StorageModule,
	MonitoringModule,
	AIModule,
	HealthModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load(os.Getenv(ConfigPathEnv))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
			Service:     cfg.App.Name,
		})
	},
)

// StorageModule provides the session repository selected by storage.driver
var StorageModule = fx.Provide(
	NewSessionRepository,
)

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	func() *prometheus.Registry {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return reg
	},
	func(reg *prometheus.Registry, log *zap.Logger) *monitoring.MetricsCollector {
		return monitoring.NewMetricsCollector(reg, reg, log)
	},
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		tp, err := monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			Insecure:       cfg.Monitoring.OTLPInsecure,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: tp.Shutdown})
		return tp, nil
	},
)

// AIModule provides the generative gateway: provider, circuit breaker, then instrumentation
var AIModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (ai.Provider, error) {
		return ai.NewProvider(cfg.AI, log)
	},
	ai.NewHealthChecker,
	func(cfg *config.Config, log *zap.Logger) *healthcheck.CircuitBreaker {
		return ai.NewCircuitBreaker(cfg.AI, log)
	},
	func(
		p ai.Provider,
		breaker *healthcheck.CircuitBreaker,
		metrics *monitoring.MetricsCollector,
		tp *monitoring.TracingProvider,
		log *zap.Logger,
	) outbound.Gateway {
		return ai.NewInstrumentedGateway(ai.NewBreakerGateway(p, breaker), metrics, tp.Tracer(), log)
	},
)

// HealthModule registers the dependency probes behind /health
var HealthModule = fx.Provide(
	NewHealthCheck,
)

// NewHealthCheck registers storage, provider and breaker probes. Only a failing
// storage backend makes the service unhealthy.
func NewHealthCheck(
	cfg *config.Config,
	repo outbound.SessionRepository,
	provider *ai.HealthChecker,
	breaker *healthcheck.CircuitBreaker,
	log *zap.Logger,
) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Name, cfg.App.Version, log)
	if pinger, ok := repo.(outbound.Pinger); ok {
		hc.Register("storage", healthcheck.PingChecker(pinger.Ping, healthcheck.StatusUnhealthy))
	}
	hc.Register("ai_provider", provider)
	hc.Register("ai_circuit", breaker.Checker())
	return hc
}

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	security.NewValidationService,
	func(cfg *config.Config, log *zap.Logger) *security.TokenService {
		secret := cfg.Auth.TokenSecret
		if secret == "" {
			log.Warn("auth.token_secret is empty, using a development secret")
			secret = "fitpantry-development-secret"
		}
		return security.NewTokenService(secret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL, log)
	},
	func(cfg *config.Config) (outbound.CalendarExporter, error) {
		loc, err := cfg.Location()
		if err != nil {
			return nil, fmt.Errorf("invalid calendar timezone: %w", err)
		}
		calCfg := calendar.DefaultConfig()
		calCfg.StartHour = cfg.Calendar.StartHour
		if cfg.Calendar.Spacing > 0 {
			calCfg.Spacing = cfg.Calendar.Spacing
		}
		if cfg.Calendar.Duration > 0 {
			calCfg.Duration = cfg.Calendar.Duration
		}
		calCfg.Location = loc
		return calendar.NewICSExporter(calCfg), nil
	},
	fx.Annotate(
		shared.NewInMemoryDispatcher,
		fx.As(new(shared.EventDispatcher)),
	),
	func(
		repo outbound.SessionRepository,
		gateway outbound.Gateway,
		cal outbound.CalendarExporter,
		validator *security.ValidationService,
		dispatcher shared.EventDispatcher,
		metrics *monitoring.MetricsCollector,
		log *zap.Logger,
	) inbound.CoachService {
		return coach.NewService(repo, gateway, cal, validator, dispatcher, log, coach.WithMetrics(metrics))
	},
)

// HTTPModule provides the API server
var HTTPModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *middleware.RateLimiter {
		return middleware.NewRateLimiter(cfg.RateLimit, log)
	},
	func(
		cfg *config.Config,
		log *zap.Logger,
		svc inbound.CoachService,
		tokens *security.TokenService,
		metrics *monitoring.MetricsCollector,
		limiter *middleware.RateLimiter,
		health *healthcheck.HealthCheck,
	) *apiserver.Server {
		return apiserver.NewServer(cfg, log, apiserver.Dependencies{
			Coach:       svc,
			Tokens:      tokens,
			Metrics:     metrics,
			RateLimiter: limiter,
			Health:      health,
		})
	},
)

// LifecycleModule wires event handlers and lifecycle hooks
var LifecycleModule = fx.Invoke(
	func(metrics *monitoring.MetricsCollector, dispatcher shared.EventDispatcher) {
		metrics.RegisterEventHandlers(dispatcher)
	},
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks starts and stops the HTTP server and the rate limiter janitor
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	server *apiserver.Server,
	limiter *middleware.RateLimiter,
) {
	janitorCtx, stopJanitor := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting FitPantry coach",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("ai_provider", cfg.AI.Provider),
				zap.String("storage", cfg.Storage.Driver),
			)

			if cfg.RateLimit.Enable {
				go limiter.Run(janitorCtx)
			}

			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server stopped unexpectedly", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down FitPantry coach")
			stopJanitor()

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
