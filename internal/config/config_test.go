package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "JWT_SECRET", "SESSION_TTL", "RESET_TOKEN_TTL", "BCRYPT_COST", "FRONTEND_URL", "CORS_ORIGINS", "COOKIE_SECURE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, 72*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, EnvDevelopment, cfg.AppEnv)
	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	require.NoError(t, cfg.Validate())
}

func TestLoad_DefaultSecretRejectedOutsideDevelopment(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "Production")

	cfg := Load()

	assert.Equal(t, "production", cfg.AppEnv)
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "a-real-signing-key")
	assert.NoError(t, Load().Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("FRONTEND_URL", "https://app.example.com/")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("COOKIE_SECURE", "false")

	cfg := Load()

	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "https://app.example.com", cfg.FrontendURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.False(t, cfg.CookieSecure)
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("SESSION_TTL", "three days")
	t.Setenv("BCRYPT_COST", "ten")

	cfg := Load()

	assert.Equal(t, 72*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET"},
		{name: "default secret in development", mutate: func(c *Config) { c.JWTSecret = DefaultJWTSecret }},
		{name: "default secret in production", mutate: func(c *Config) {
			c.AppEnv = "production"
			c.JWTSecret = DefaultJWTSecret
		}, wantErr: "JWT_SECRET"},
		{name: "zero session ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: "SESSION_TTL"},
		{name: "negative reset ttl", mutate: func(c *Config) { c.ResetTokenTTL = -time.Minute }, wantErr: "RESET_TOKEN_TTL"},
		{name: "cost too low", mutate: func(c *Config) { c.BcryptCost = 2 }, wantErr: "BCRYPT_COST"},
		{name: "cost too high", mutate: func(c *Config) { c.BcryptCost = 40 }, wantErr: "BCRYPT_COST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			cfg.AppEnv = EnvDevelopment
			cfg.JWTSecret = "secret"
			cfg.SessionTTL = time.Hour
			cfg.ResetTokenTTL = time.Minute
			cfg.BcryptCost = 10
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
