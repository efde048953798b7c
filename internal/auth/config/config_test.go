package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("IDENTITY_PROVIDER", "local")
	t.Setenv("JWT_SECRET_KEY", "a-test-secret-key-that-is-long-enough")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, SessionCookieName, cfg.CookieName)
	assert.Equal(t, "/", cfg.CookiePath)
	assert.Equal(t, "Lax", cfg.CookieSameSite)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadConfig_ProductionForcesSecure(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("IDENTITY_PROVIDER", "firebase")
	t.Setenv("FIREBASE_API_KEY", "key")
	t.Setenv("COOKIE_SAME_SITE", "strict")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "Strict", cfg.CookieSameSite)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("IDENTITY_PROVIDER", "ldap")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
	t.Run("local without secret", func(t *testing.T) {
		t.Setenv("IDENTITY_PROVIDER", "local")
		t.Setenv("JWT_SECRET_KEY", "")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
	t.Run("bad same site", func(t *testing.T) {
		t.Setenv("IDENTITY_PROVIDER", "local")
		t.Setenv("JWT_SECRET_KEY", "secret")
		t.Setenv("COOKIE_SAME_SITE", "sometimes")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
