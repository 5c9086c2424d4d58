package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/wage-engine/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"WAGE_ADDR", "WAGE_DB", "WAGE_DRAFT_BACKEND", "WAGE_REDIS_URL", "WAGE_DRAFT_TTL", "WAGE_LOG_LEVEL", "WAGE_RATES_FILE", "WAGE_CORS_ORIGINS"} {
		// Setenv restores the original value after the test.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "wage.db", cfg.DBPath)
	assert.Equal(t, config.DraftBackendSQLite, cfg.DraftBackend)
	assert.Equal(t, 24*time.Hour, cfg.DraftTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.RatesFile)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("WAGE_ADDR", ":9090")
	t.Setenv("WAGE_DB", ":memory:")
	t.Setenv("WAGE_DRAFT_BACKEND", "Redis")
	t.Setenv("WAGE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("WAGE_DRAFT_TTL", "90m")
	t.Setenv("WAGE_LOG_LEVEL", "debug")
	t.Setenv("WAGE_CORS_ORIGINS", "https://wizard.example.com, ,http://localhost:5173")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, config.DraftBackendRedis, cfg.DraftBackend)
	assert.Equal(t, 90*time.Minute, cfg.DraftTTL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"https://wizard.example.com", "http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad ttl", map[string]string{"WAGE_DRAFT_TTL": "a day", "WAGE_DRAFT_BACKEND": "sqlite", "WAGE_LOG_LEVEL": "info"}},
		{"bad level", map[string]string{"WAGE_DRAFT_TTL": "1h", "WAGE_DRAFT_BACKEND": "sqlite", "WAGE_LOG_LEVEL": "loud"}},
		{"unknown backend", map[string]string{"WAGE_DRAFT_TTL": "1h", "WAGE_DRAFT_BACKEND": "etcd", "WAGE_LOG_LEVEL": "info"}},
		{"redis without url", map[string]string{"WAGE_DRAFT_TTL": "1h", "WAGE_DRAFT_BACKEND": "redis", "WAGE_LOG_LEVEL": "info", "WAGE_REDIS_URL": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := config.NewLogger(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown", "operation", "decompose")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"operation":"decompose"`)
}
