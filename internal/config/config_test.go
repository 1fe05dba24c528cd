package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://incidentes.example.test")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 300*time.Millisecond, cfg.RefreshDebounce)
	assert.Equal(t, 3, cfg.WebhookMaxRetries)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadConfig_RequiresBackendURL(t *testing.T) {
	t.Setenv("BACKEND_URL", "")

	_, err := LoadConfig()

	assert.ErrorContains(t, err, "BACKEND_URL")
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://incidentes.example.test")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("BACKEND_TIMEOUT", "10s")
	t.Setenv("REFRESH_DEBOUNCE", "1s")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://alerta.utec.edu.pe")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	assert.Equal(t, time.Second, cfg.RefreshDebounce)
	// los orígenes se separan por coma y se recortan espacios
	assert.Equal(t, []string{"http://localhost:5173", "https://alerta.utec.edu.pe"}, cfg.CORSOrigins)
}

func TestLoadConfig_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://incidentes.example.test")
	t.Setenv("BACKEND_TIMEOUT", "treinta segundos")
	t.Setenv("REDIS_DB", "no-es-un-número")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 0, cfg.RedisDB)
}
