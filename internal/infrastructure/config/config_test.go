package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "fitpantry", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 90*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 8, cfg.Calendar.StartHour)
	assert.Equal(t, 4*time.Hour, cfg.Calendar.Spacing)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  provider: ollama\nstorage:\n  driver: sqlite\n"), 0o600))
	t.Setenv("FITPANTRY_SERVER_PORT", "9091")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.AI.Provider)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, 9091, cfg.Server.Port)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FITPANTRY_AI_OPENAI_MODEL=gpt-test\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("FITPANTRY_AI_OPENAI_MODEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gpt-test", cfg.AI.OpenAIModel)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			App:     AppConfig{Name: "fitpantry", Environment: "development"},
			Server:  ServerConfig{Port: 8080},
			AI:      AIConfig{Provider: "gemini"},
			Storage: StorageConfig{Driver: "memory"},
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.AI.Provider = "skynet"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Storage.Driver = "floppy"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.App.Environment = "production"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Calendar.StartHour = 24
	assert.Error(t, cfg.Validate())
}
