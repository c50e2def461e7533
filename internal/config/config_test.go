package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "catalog")
	t.Setenv("DB_NAME", "catalog")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 168*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, 11*time.Minute, cfg.Cache.ProductTTL)
	assert.Equal(t, 15*time.Minute, cfg.Cache.CategoryTTL)
	assert.Equal(t, "deleted", cfg.Snapshot.Dir)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
	assert.False(t, cfg.Mail.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("CACHE_PRODUCT_TTL", "2m")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.Cache.ProductTTL)
	assert.True(t, cfg.Mail.Enabled())
}

func TestLoadRequiresDatabase(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CACHE_PRODUCT_TTL", "not-a-duration")

	_, err := Load()
	assert.Error(t, err)
}
