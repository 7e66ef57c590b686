package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("INVENTRACK_APP_ENV", "")
	t.Setenv("INVENTRACK_DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "inventrack", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenExpiry)
	assert.Equal(t, "KE", cfg.Mpesa.PhoneRegion)
	assert.Equal(t, 8, cfg.Auth.PasswordMinLength)
	assert.False(t, cfg.Auth.AllowAdminSignup)
	assert.NotEmpty(t, cfg.JWT.Secret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INVENTRACK_APP_PORT", "9090")
	t.Setenv("INVENTRACK_AUTH_ALLOW_ADMIN_SIGNUP", "true")
	t.Setenv("INVENTRACK_JWT_ACCESS_TOKEN_TTL", "5m")
	t.Setenv("INVENTRACK_MPESA_PHONE_REGION", "TZ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.True(t, cfg.Auth.AllowAdminSignup)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "TZ", cfg.Mpesa.PhoneRegion)
}

func TestValidate(t *testing.T) {
	t.Run("production requires a long secret", func(t *testing.T) {
		cfg := &Config{App: AppConfig{Env: "production"}, Database: DatabaseConfig{URL: "postgres://x"}}
		applyDefaults(cfg)
		cfg.JWT.Secret = "short"
		assert.ErrorContains(t, cfg.validate(), "at least 32 characters")
	})

	t.Run("production requires a database", func(t *testing.T) {
		cfg := &Config{App: AppConfig{Env: "production"}, JWT: JWTConfig{Secret: "0123456789abcdef0123456789abcdef"}}
		applyDefaults(cfg)
		assert.ErrorContains(t, cfg.validate(), "database.url")
	})

	t.Run("bad region", func(t *testing.T) {
		cfg := &Config{Mpesa: MpesaConfig{PhoneRegion: "KEN"}}
		applyDefaults(cfg)
		assert.ErrorContains(t, cfg.validate(), "phone_region")
	})

	t.Run("pool bounds", func(t *testing.T) {
		cfg := &Config{Database: DatabaseConfig{MaxConns: 2, MinConns: 5}}
		applyDefaults(cfg)
		assert.Error(t, cfg.validate())
	})

	t.Run("development defaults are valid", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		assert.NoError(t, cfg.validate())
	})
}
