package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/infrastructure/ai"
	"github.com/fitpantry/coach/internal/infrastructure/config"
	gormrepo "github.com/fitpantry/coach/internal/infrastructure/persistence/gorm"
	"github.com/fitpantry/coach/internal/infrastructure/persistence/memory"
	"github.com/fitpantry/coach/pkg/healthcheck"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"
)

func TestModule_ShouldResolveGraph(t *testing.T) {
	assert.NoError(t, fx.ValidateApp(Module, fx.NopLogger))
}

func TestNewSessionRepository(t *testing.T) {
	t.Run("MemoryDriver_ShouldUseMapStore", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		cfg := &config.Config{Storage: config.StorageConfig{Driver: "memory"}}

		repo, err := NewSessionRepository(lc, cfg, zaptest.NewLogger(t))

		require.NoError(t, err)
		assert.IsType(t, &memory.SessionRepository{}, repo)
	})

	t.Run("SQLiteDriver_ShouldMigrateAndPersist", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		cfg := &config.Config{Storage: config.StorageConfig{
			Driver:     "sqlite",
			SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		}}

		repo, err := NewSessionRepository(lc, cfg, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.IsType(t, &gormrepo.SessionRepository{}, repo)

		st := session.NewState(uuid.NewString())
		require.NoError(t, repo.Create(context.Background(), st))
		loaded, err := repo.Load(context.Background(), st.ID)
		require.NoError(t, err)
		assert.Equal(t, st.ID, loaded.ID)

		lc.RequireStart().RequireStop()
	})
}

func TestNewHealthCheck(t *testing.T) {
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer ollama.Close()

	logger := zaptest.NewLogger(t)
	cfg := &config.Config{
		App: config.AppConfig{Name: "fitpantry", Version: "test"},
		AI:  config.AIConfig{Provider: "ollama", OllamaHost: ollama.URL},
	}
	provider, err := ai.NewProvider(cfg.AI, logger)
	require.NoError(t, err)

	t.Run("SQLiteStorage_ShouldRegisterPingProbe", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		repo, err := NewSessionRepository(lc, &config.Config{Storage: config.StorageConfig{
			Driver:     "sqlite",
			SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		}}, logger)
		require.NoError(t, err)

		hc := NewHealthCheck(cfg, repo, ai.NewHealthChecker(provider, logger), ai.NewCircuitBreaker(cfg.AI, logger), logger)
		response := hc.Check(context.Background())

		assert.Equal(t, healthcheck.StatusHealthy, response.Status)
		require.Len(t, response.Checks, 3)
		assert.Equal(t, "ai_circuit", response.Checks[0].Name)
		assert.Equal(t, "ai_provider", response.Checks[1].Name)
		assert.Equal(t, "storage", response.Checks[2].Name)
		lc.RequireStart().RequireStop()
	})

	t.Run("MemoryStorage_ShouldSkipPingProbe", func(t *testing.T) {
		hc := NewHealthCheck(cfg, memory.NewSessionRepository(), ai.NewHealthChecker(provider, logger), ai.NewCircuitBreaker(cfg.AI, logger), logger)

		response := hc.Check(context.Background())

		assert.Len(t, response.Checks, 2)
	})
}
