package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "test")
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("GROQ_API_KEY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Env)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes())

	require.Len(t, cfg.Providers, 2)
	assert.Equal(t, "gemini", cfg.Providers[0].ID)
	assert.Equal(t, "google", cfg.Providers[0].Type)
	assert.True(t, cfg.Providers[0].Vision)
	assert.Equal(t, "gm-key", cfg.Providers[0].APIKey)
	assert.Equal(t, DefaultProviderTimeout, cfg.Providers[0].CallTimeout())

	// a missing key is not fatal, the provider stays configured
	assert.Equal(t, "groq", cfg.Providers[1].ID)
	assert.False(t, cfg.Providers[1].HasCredential())
	assert.True(t, cfg.Providers[1].Enabled)
}

func TestLoadConfig_FileAndAPIKeyResolution(t *testing.T) {
	t.Setenv("TEST_API_KEY", "sk-test-12345")

	configContent := `
cache:
  backend: redis
providers:
  - id: "test-provider"
    name: "Test"
    type: "openai"
    api_key: "ENV:TEST_API_KEY"
    timeout: 5s
    enabled: true
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configContent), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Len(t, cfg.Providers, 1)
	assert.Equal(t, "sk-test-12345", cfg.Providers[0].APIKey)
	assert.Equal(t, 5*time.Second, cfg.Providers[0].CallTimeout())
	assert.Equal(t, "redis", cfg.Cache.Backend)
}

func TestLoadConfig_RejectsDuplicateProviders(t *testing.T) {
	configContent := `
providers:
  - id: "dup"
    type: "openai"
  - id: "dup"
    type: "google"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configContent), 0o644))
	t.Setenv("CONFIG_FILE", path)

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "duplicate provider id")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := LoadConfig()
	assert.Error(t, err)
}
