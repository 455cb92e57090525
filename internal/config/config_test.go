package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "SHOWS_FILE", "LOG_LEVEL", "REDIS_ADDR", "RATE_LIMIT_PER_MINUTE",
		"IDEMPOTENCY_TTL", "RABBIT_URL", "MONGO_URI", "MONGO_DB",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "booking", cfg.MongoDB)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.RabbitURL)
}

func TestLoad_EnvAndFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("IDEMPOTENCY_TTL", "10m")

	cfg, err := Load([]string{"--addr", ":9100", "--shows", "shows.yaml"})
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.HTTPAddr)
	assert.Equal(t, "shows.yaml", cfg.ShowsFile)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
	assert.Equal(t, 10*time.Minute, cfg.IdempotencyTTL)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	_, err := Load(nil)
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	_, err = Load(nil)
	assert.Error(t, err)

	clearEnv(t)
	_, err = Load([]string{"--bogus"})
	assert.Error(t, err)
}
