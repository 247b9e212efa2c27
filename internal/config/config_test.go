package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "SERVER_MODE", "DB_HOST", "REDIS_ADDR", "MOCK_GENERATOR"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 72*time.Hour, cfg.JWT.TTL())
	assert.Equal(t, "@hourly", cfg.Jobs.ExpirySchedule)
	assert.Equal(t, 24, cfg.Jobs.SessionExpiryHours)
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.Generator.Mock)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "studydesk_test")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("MOCK_GENERATOR", "true")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "studydesk_test", cfg.Database.Name)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Generator.Mock)
	assert.Contains(t, cfg.Database.DSN(), "dbname=studydesk_test")
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "server:\n  port: \"7000\"\nrate_limit:\n  max_requests: 10\n  window_minutes: 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, 10, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 5, cfg.RateLimit.WindowMinutes)
}

func TestLoad_ReleaseRequiresStrongSecret(t *testing.T) {
	t.Setenv("SERVER_MODE", "release")
	t.Setenv("JWT_SECRET", "short")

	_, err := Load(t.TempDir())
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Server.Mode)
}
