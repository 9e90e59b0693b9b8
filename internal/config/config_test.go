package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 0.6, cfg.Classifier.TieBreakConfidence)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.True(t, cfg.Dispatcher.CacheFailures)
	assert.Equal(t, "0347596789", cfg.Dispatcher.Hotline)
	assert.NotEmpty(t, cfg.Dispatcher.UpgradingServices)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
cache:
  driver: redis
  redis:
    addr: redis.internal:6379
dispatcher:
  cache_failures: false
  hotline: "0123456789"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, "redis.internal:6379", cfg.Cache.Redis.Addr)
	assert.False(t, cfg.Dispatcher.CacheFailures)
	assert.Equal(t, "0123456789", cfg.Dispatcher.Hotline)
	// Untouched sections keep their defaults.
	assert.Equal(t, 0.6, cfg.Classifier.TieBreakConfidence)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("REDIS_URL", "redis://cache.internal:6380")
	t.Setenv("LLM_MODEL", "meta-llama/llama-3-70b-instruct")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, "cache.internal:6380", cfg.Cache.Redis.Addr)
	assert.Equal(t, "meta-llama/llama-3-70b-instruct", cfg.LLM.Model)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Cache.Driver = "memcached"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Classifier.TieBreakConfidence = 1.5
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Retrieval.TopK = 0
	assert.Error(t, cfg.Validate())
}
