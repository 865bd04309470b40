package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "API_BASE", "REQUEST_TIMEOUT", "HANDLER_TIMEOUT", "RATE_LIMIT_PER_SECOND", "SINK_URL", "MAX_IMAGE_BYTES", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 90*time.Second, cfg.Server.HandlerTimeout)
	assert.Equal(t, DefaultAPIBase, cfg.Generation.APIBase)
	assert.Equal(t, 60*time.Second, cfg.Generation.RequestTimeout)
	assert.Equal(t, 5, cfg.Generation.RateLimitPerSecond)
	assert.Empty(t, cfg.Generation.SinkURL)
	assert.Equal(t, 8<<20, cfg.Studio.MaxImageBytes)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_BASE", "https://crm.example.com//")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_PER_SECOND", "0")
	t.Setenv("SINK_URL", "https://sink.example.com/plans")
	t.Setenv("MAX_IMAGE_BYTES", "1024")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "https://crm.example.com", cfg.Generation.APIBase)
	assert.Equal(t, 5*time.Second, cfg.Generation.RequestTimeout)
	assert.Equal(t, 0, cfg.Generation.RateLimitPerSecond)
	assert.Equal(t, "https://sink.example.com/plans", cfg.Generation.SinkURL)
	assert.Equal(t, 1024, cfg.Studio.MaxImageBytes)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("MAX_IMAGE_BYTES", "lots")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.Generation.RequestTimeout)
	assert.Equal(t, 8<<20, cfg.Studio.MaxImageBytes)
}
