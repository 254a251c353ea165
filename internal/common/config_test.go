package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "gemini", config.LLM.DefaultProvider)
	assert.Equal(t, 10, config.Providers.Gemini.RPMLimit)
	assert.Equal(t, 4000, config.Providers.Gemini.RPDLimit)
	assert.Equal(t, 4, config.Queue.Concurrency)

	require.NoError(t, config.Validate())
}

func TestLoadFromFile_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadFromFile(filepath.Join(t.TempDir(), "nonexistent.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestLoadFromFile_TOMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aura.toml")
	content := `
environment = "production"

[server]
port = 9090

[providers.gemini]
rpm_limit = 5
rpd_limit = 100

[llm]
default_provider = "claude"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, 5, config.Providers.Gemini.RPMLimit)
	assert.Equal(t, 100, config.Providers.Gemini.RPDLimit)
	assert.Equal(t, "claude", config.LLM.DefaultProvider)
	// Untouched sections keep their defaults
	assert.Equal(t, "./data/aura.db", config.Storage.SQLitePath)
}

func TestLoadFromFile_EnvOverridesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aura.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 9090\n"), 0644))

	t.Setenv("AURA_SERVER_PORT", "7070")
	t.Setenv("AURA_JWT_SECRET", "test-secret")
	t.Setenv("AURA_GEMINI_RPM_LIMIT", "3")

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "test-secret", config.Auth.JWTSecret)
	assert.Equal(t, 3, config.Providers.Gemini.RPMLimit)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"invalid port", func(c *Config) { c.Server.Port = 0 }},
		{"zero concurrency", func(c *Config) { c.Queue.Concurrency = 0 }},
		{"unknown provider", func(c *Config) { c.LLM.DefaultProvider = "openai" }},
		{"zero rpm limit", func(c *Config) { c.Providers.Gemini.RPMLimit = 0 }},
		{"bad poll interval", func(c *Config) { c.Queue.PollInterval = "soon" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 24*time.Hour, config.TokenExpiry())
	assert.Equal(t, 30*time.Minute, config.StaleJobAge())
	assert.Equal(t, 30*24*time.Hour, config.JobRetention())
	assert.Equal(t, 30*time.Second, config.CaptureTimeout())

	// Unparseable values fall back to defaults
	config.Auth.TokenExpiry = "garbage"
	assert.Equal(t, 24*time.Hour, config.TokenExpiry())

	config.Processing.StaleJobAge = "2h"
	assert.Equal(t, 2*time.Hour, config.StaleJobAge())
}
