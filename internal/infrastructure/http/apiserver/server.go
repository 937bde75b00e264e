// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fitpantry/coach/internal/infrastructure/config"
	"github.com/fitpantry/coach/internal/infrastructure/http/handlers"
	"github.com/fitpantry/coach/internal/infrastructure/http/middleware"
	"github.com/fitpantry/coach/internal/ports/inbound"
	"github.com/fitpantry/coach/pkg/healthcheck"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// SessionTokens issues and verifies session bearer tokens
type SessionTokens interface {
	handlers.TokenIssuer
	middleware.TokenVerifier
}

// MetricsExporter records HTTP metrics and serves the scrape endpoint
type MetricsExporter interface {
	middleware.HTTPMetrics
	Handler() http.Handler
}

// Dependencies groups what the server routes to. Metrics, RateLimiter and Health are optional.
type Dependencies struct {
	Coach       inbound.CoachService
	Tokens      SessionTokens
	Metrics     MetricsExporter
	RateLimiter *middleware.RateLimiter
	Health      *healthcheck.HealthCheck
}

// Server represents the JSON API HTTP server
type Server struct {
	config  *config.Config
	logger  *zap.Logger
	deps    Dependencies
	server  *http.Server
	router  *chi.Mux
	openAPI *OpenAPIHandler
}

// NewServer creates a new API server instance
func NewServer(cfg *config.Config, log *zap.Logger, deps Dependencies) *Server {
	s := &Server{
		config:  cfg,
		logger:  log.Named("api-server"),
		deps:    deps,
		openAPI: NewOpenAPIHandler(log),
	}
	if s.deps.Health == nil {
		s.deps.Health = healthcheck.New(cfg.App.Name, cfg.App.Version, log)
	}

	s.router = s.setupRoutes()

	var handler http.Handler = s.router
	if cfg.Monitoring.EnableTracing {
		handler = otelhttp.NewHandler(s.router, "fitpantry-api",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}

	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	if s.deps.Metrics != nil {
		r.Use(middleware.Metrics(s.deps.Metrics))
	}
	r.Use(middleware.Security())
	if s.config.Server.EnableCORS {
		r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	}
	if s.config.Server.EnableCompression {
		r.Use(middleware.Compress(s.config.Server.CompressionLevel))
	}

	r.Get("/health", s.deps.Health.Handler())
	if s.deps.Metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Method(http.MethodGet, "/metrics", s.deps.Metrics.Handler())
	}

	r.Get("/api/v1/openapi.yaml", s.openAPI.ServeOpenAPISpec)
	r.Get("/api/v1/openapi.json", s.openAPI.ServeOpenAPIJSON)

	r.Route("/api/v1", s.setupAPIV1Routes)

	return r
}

// setupAPIV1Routes configures API v1 endpoints
func (s *Server) setupAPIV1Routes(r chi.Router) {
	h := handlers.NewCoachHandlers(s.deps.Coach, s.deps.Tokens, s.config.Server.MaxUploadBytes, s.logger)

	r.Group(func(r chi.Router) {
		s.useRateLimit(r)
		r.Post("/sessions", h.StartSession)
	})

	r.Route("/session", func(r chi.Router) {
		r.Use(middleware.SessionAuth(s.deps.Tokens))
		s.useRateLimit(r)

		r.Get("/", h.GetSession)
		r.Delete("/", h.EndSession)

		r.Put("/profile", h.UpdateProfile)
		r.Post("/calibration", h.Calibrate)

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/{channel}", h.AcquireInventory)
			r.Delete("/items/{item}", h.RemoveInventoryItem)
		})

		r.Route("/plan", func(r chi.Router) {
			r.Post("/", h.GeneratePlan)
			r.Get("/missing", h.MissingToday)
			r.Get("/calendar.ics", h.ExportCalendar)
			r.Post("/{day}/meals/{index}/regenerate", h.RegenerateMeal)
			r.Post("/{day}/meals/{index}/complete", h.CompleteMeal)
		})

		r.Route("/workout", func(r chi.Router) {
			r.Post("/", h.GenerateWorkout)
			r.Post("/{day}/exercises/{index}/sets", h.RegisterSet)
			r.Post("/{day}/exercises/{index}/substitute", h.SubstituteExercise)
		})
		r.Post("/fatigue/reset", h.ResetFatigue)

		r.Post("/water", h.AddWater)
		r.Post("/measurements", h.LogMeasurement)
		r.Post("/recovery", h.RecoveryProtocol)

		r.Post("/clinic/bloodwork", h.AnalyzeBloodWork)
		r.Post("/clinic/injury", h.AnalyzeInjuryReport)

		r.Get("/backup", h.ExportBackup)
		r.Post("/backup", h.ImportBackup)
	})
}

func (s *Server) useRateLimit(r chi.Router) {
	if s.deps.RateLimiter != nil && s.config.RateLimit.Enable {
		r.Use(s.deps.RateLimiter.Middleware())
	}
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting API server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")
	return s.server.Shutdown(ctx)
}
