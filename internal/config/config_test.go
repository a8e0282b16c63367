package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Point at a directory with no config file so only defaults apply.
	t.Setenv("SPENDLENS_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.ListenAddr())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(16777216), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SPENDLENS_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("SPENDLENS_SERVER_PORT", "9090")
	t.Setenv("SPENDLENS_SESSION_TTL", "30m")
	t.Setenv("SPENDLENS_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7000\nlogging:\n  level: warn\n"), 0644))
	t.Setenv("SPENDLENS_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("SPENDLENS_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("SPENDLENS_SERVER_PORT", "0")

	_, err := Load()
	assert.Error(t, err)
}
