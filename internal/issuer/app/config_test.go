package app

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/mint/internal/issuer/domain"
	"github.com/aussiebroadwan/mint/pkg/cryptox"
	"github.com/aussiebroadwan/mint/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		ClientIDGenerator:     VariantDefault,
		ClientSecretGenerator: VariantDefault,
		AccessTokenGenerator:  VariantOpaque,
		RefreshTokenGenerator: VariantOpaque,
		ClientSecretLength:    128,
		Charset:               cryptox.AlphanumericCharset,
		OpaqueTokenLength:     30,
		AccessTokenLifetime:   36000 * time.Second,
		SigningBackend:        BackendLocal,
		Algorithm:             jwtx.AlgorithmHS256,
		SigningTimeout:        time.Second,
		Env:                   "test",
		LogLevel:              "error",
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"AUTH_ACCESS_TOKEN_GENERATOR", "AUTH_CLIENT_SECRET_LENGTH", "AUTH_CHARSET",
		"AUTH_ACCESS_TOKEN_EXPIRE_SECONDS", "AUTH_SIGNING_BACKEND", "AUTH_SIGNING_ALGORITHM",
		"AUTH_AUDIENCE", "LOG_SENSITIVE", "AUTH_CLIENT_ID_GENERATOR", "AUTH_OPAQUE_TOKEN_LENGTH",
		"AUTH_SIGNING_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, VariantDefault, cfg.ClientIDGenerator)
	require.Equal(t, VariantOpaque, cfg.AccessTokenGenerator)
	require.Equal(t, 128, cfg.ClientSecretLength)
	require.Equal(t, cryptox.AlphanumericCharset, cfg.Charset)
	require.Equal(t, 30, cfg.OpaqueTokenLength)
	require.Equal(t, 36000*time.Second, cfg.AccessTokenLifetime)
	require.Equal(t, BackendLocal, cfg.SigningBackend)
	require.Equal(t, jwtx.AlgorithmHS256, cfg.Algorithm)
	require.Equal(t, 5*time.Second, cfg.SigningTimeout)
	require.Nil(t, cfg.Audience)
	require.False(t, cfg.LogSensitive)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("AUTH_ACCESS_TOKEN_GENERATOR", "signed")
	t.Setenv("AUTH_CLIENT_SECRET_LENGTH", "64")
	t.Setenv("AUTH_CHARSET", "client_id")
	t.Setenv("AUTH_ACCESS_TOKEN_EXPIRE_SECONDS", "3600")
	t.Setenv("AUTH_REFRESH_TOKEN_EXPIRE_SECONDS", "86400")
	t.Setenv("AUTH_SIGNING_BACKEND", "Remote")
	t.Setenv("AUTH_SIGNING_TIMEOUT", "750ms")
	t.Setenv("AUTH_SIGNING_RATE_LIMIT", "2.5")
	t.Setenv("AUTH_AUDIENCE", "api, web,,")
	t.Setenv("LOG_SENSITIVE", "true")

	cfg := LoadConfig()
	require.Equal(t, VariantSigned, cfg.AccessTokenGenerator)
	require.Equal(t, 64, cfg.ClientSecretLength)
	require.Equal(t, cryptox.ClientIDCharset, cfg.Charset)
	require.Equal(t, time.Hour, cfg.AccessTokenLifetime)
	require.Equal(t, 24*time.Hour, cfg.Lifetime(domain.RoleRefreshToken))
	require.Equal(t, time.Hour, cfg.Lifetime(domain.RoleAccessToken))
	require.Equal(t, BackendRemote, cfg.SigningBackend)
	require.Equal(t, 750*time.Millisecond, cfg.SigningTimeout)
	require.InDelta(t, 2.5, cfg.SigningRateLimit, 1e-9)
	require.Equal(t, 1, cfg.SigningRateBurst)
	require.Equal(t, []string{"api", "web"}, cfg.Audience)
	require.True(t, cfg.LogSensitive)
}

func TestConfig_RefreshLifetimeFallback(t *testing.T) {
	cfg := testConfig()
	require.Equal(t, cfg.AccessTokenLifetime, cfg.Lifetime(domain.RoleRefreshToken))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"short client secret", func(c *Config) { c.ClientSecretLength = 29 }},
		{"zero opaque length", func(c *Config) { c.OpaqueTokenLength = 0 }},
		{"empty charset", func(c *Config) { c.Charset = "" }},
		{"charset with colon", func(c *Config) { c.Charset = "ab:c" }},
		{"sub-second lifetime", func(c *Config) { c.AccessTokenLifetime = 0 }},
		{"negative refresh lifetime", func(c *Config) { c.RefreshTokenLifetime = -time.Second }},
		{"unknown backend", func(c *Config) { c.SigningBackend = "hsm" }},
		{"remote without url", func(c *Config) { c.SigningBackend = BackendRemote }},
		{"remote without timeout", func(c *Config) {
			c.SigningBackend = BackendRemote
			c.SigningURL = "http://signer.invalid"
			c.SigningTimeout = 0
		}},
		{"negative rate limit", func(c *Config) {
			c.SigningBackend = BackendRemote
			c.SigningURL = "http://signer.invalid"
			c.SigningRateLimit = -1
		}},
	}

	require.NoError(t, testConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), domain.ErrConfiguration)
		})
	}
}

func TestLoadConfig_ParseErrors(t *testing.T) {
	t.Setenv("AUTH_CLIENT_SECRET_LENGTH", "abc")
	t.Setenv("AUTH_ACCESS_TOKEN_EXPIRE_SECONDS", "1h")
	t.Setenv("AUTH_SIGNING_TIMEOUT", "soon")
	t.Setenv("AUTH_SIGNING_RATE_LIMIT", "fast")
	t.Setenv("LOG_SENSITIVE", "maybe")

	cfg := LoadConfig()

	// Unparsable values keep their defaults but still fail validation
	require.Equal(t, 128, cfg.ClientSecretLength)

	err := cfg.Validate()
	require.ErrorIs(t, err, domain.ErrConfiguration)
	for _, key := range []string{
		"AUTH_CLIENT_SECRET_LENGTH", "AUTH_ACCESS_TOKEN_EXPIRE_SECONDS",
		"AUTH_SIGNING_TIMEOUT", "AUTH_SIGNING_RATE_LIMIT", "LOG_SENSITIVE",
	} {
		require.Contains(t, err.Error(), key)
	}
}
