package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "foodbridge", cfg.AppName)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 30*time.Second, cfg.Redis.FeedTTL)
	assert.Equal(t, 10_000, cfg.Journal.Retention)
	assert.True(t, cfg.Migrations.Enabled)

	// URL composed from the per-field settings when DATABASE_URL is unset
	assert.Equal(t, "postgres://foodbridge:@localhost:5432/foodbridge?sslmode=disable", cfg.Database.URL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL", "48h")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://app:pw@db:5432/app?sslmode=require")
	t.Setenv("JOURNAL_RETENTION", "50")
	t.Setenv("RUN_MIGRATIONS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 48*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "0.0.0.0:9090", cfg.Address())
	assert.Equal(t, "postgres://app:pw@db:5432/app?sslmode=require", cfg.Database.URL)
	assert.Equal(t, 50, cfg.Journal.Retention)
	assert.False(t, cfg.Migrations.Enabled)
}

func TestLoad_DurationAcceptsBareSeconds(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "7")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "20s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7*time.Second, cfg.Context.RequestTimeout)
	assert.Equal(t, 20*time.Second, cfg.Context.ShutdownTimeout)
}
