package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/mint/internal/issuer/domain"
	"github.com/aussiebroadwan/mint/internal/issuer/service"
	"github.com/aussiebroadwan/mint/pkg/cryptox"
	"github.com/aussiebroadwan/mint/pkg/jwtx"
)

// Signing backends.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Charset keywords accepted by AUTH_CHARSET. Any other value is used as
// the literal alphabet.
const (
	CharsetAlphanumeric = "alphanumeric"
	CharsetClientID     = "client_id"
)

type Config struct {
	ClientIDGenerator     string // Variant bound to client ids (default: default)
	ClientSecretGenerator string // Variant bound to client secrets (default: default)
	AccessTokenGenerator  string // Variant bound to access tokens (default: opaque)
	RefreshTokenGenerator string // Variant bound to refresh tokens (default: opaque)

	ClientSecretLength int    // Client secret length (default: 128, min: 30)
	Charset            string // Alphabet for random credentials (default: alphanumeric)
	OpaqueTokenLength  int    // Opaque token length (default: 30)

	AccessTokenLifetime  time.Duration // Signed access token lifetime (default: 36000s)
	RefreshTokenLifetime time.Duration // Signed refresh token lifetime, 0 reuses the access lifetime

	SigningBackend    string        // local or remote (default: local)
	Algorithm         string        // HS256, RS256, ES256, EdDSA (default: HS256)
	SecretKey         string        // HS256 secret for the local backend
	SigningKeyFile    string        // PEM private key for local RS256, ES256, EdDSA
	KeyID             string        // Optional: kid header (default: derived from the key)
	SigningURL        string        // Remote signing service endpoint
	SigningAuthSecret string        // Optional: shared secret sent to the remote service
	SigningTimeout    time.Duration // Remote signing deadline (default: 5s)
	SigningRateLimit  float64       // Optional: max remote signing calls per second, 0 means unlimited
	SigningRateBurst  int           // Remote signing burst size (default: 1)

	Issuer   string   // Optional: iss claim
	Audience []string // Optional: aud claim, comma separated in AUTH_AUDIENCE

	Env          string // Environment (dev, staging, prod) (default: dev)
	LogLevel     string // Log level (debug, info, warn, error) (default: info)
	LogFormat    string // Log format (json, text) (default: json)
	LogSensitive bool   // Log token claims and credentials unredacted (default: false)

	loadErr error // environment values that failed to parse
}

// LoadConfig reads the environment. Values that fail to parse keep their
// default and are reported by Validate.
func LoadConfig() Config {
	env := &envReader{}
	cfg := Config{
		ClientIDGenerator:     env.stringOr("AUTH_CLIENT_ID_GENERATOR", VariantDefault),
		ClientSecretGenerator: env.stringOr("AUTH_CLIENT_SECRET_GENERATOR", VariantDefault),
		AccessTokenGenerator:  env.stringOr("AUTH_ACCESS_TOKEN_GENERATOR", VariantOpaque),
		RefreshTokenGenerator: env.stringOr("AUTH_REFRESH_TOKEN_GENERATOR", VariantOpaque),

		ClientSecretLength: env.intOr("AUTH_CLIENT_SECRET_LENGTH", service.DefaultClientSecretLength),
		Charset:            resolveCharset(env.stringOr("AUTH_CHARSET", CharsetAlphanumeric)),
		OpaqueTokenLength:  env.intOr("AUTH_OPAQUE_TOKEN_LENGTH", service.DefaultOpaqueTokenLength),

		AccessTokenLifetime:  env.secondsOr("AUTH_ACCESS_TOKEN_EXPIRE_SECONDS", service.DefaultTokenLifetime),
		RefreshTokenLifetime: env.secondsOr("AUTH_REFRESH_TOKEN_EXPIRE_SECONDS", 0),

		SigningBackend:    strings.ToLower(env.stringOr("AUTH_SIGNING_BACKEND", BackendLocal)),
		Algorithm:         env.stringOr("AUTH_SIGNING_ALGORITHM", jwtx.AlgorithmHS256),
		SecretKey:         os.Getenv("AUTH_SECRET_KEY"),
		SigningKeyFile:    os.Getenv("AUTH_SIGNING_KEY_FILE"),
		KeyID:             os.Getenv("AUTH_SIGNING_KID"),
		SigningURL:        os.Getenv("AUTH_SIGNING_URL"),
		SigningAuthSecret: os.Getenv("AUTH_SIGNING_AUTH_SECRET"),
		SigningTimeout:    env.durationOr("AUTH_SIGNING_TIMEOUT", jwtx.DefaultRemoteTimeout),
		SigningRateLimit:  env.floatOr("AUTH_SIGNING_RATE_LIMIT", 0),
		SigningRateBurst:  env.intOr("AUTH_SIGNING_RATE_BURST", 1),

		Issuer:   os.Getenv("AUTH_ISSUER"),
		Audience: splitList(os.Getenv("AUTH_AUDIENCE")),

		Env:          env.stringOr("ENV", "dev"),
		LogLevel:     env.stringOr("LOG_LEVEL", "info"),
		LogFormat:    env.stringOr("LOG_FORMAT", "json"),
		LogSensitive: env.boolOr("LOG_SENSITIVE", false),
	}
	cfg.loadErr = env.err()

	return cfg
}

// Bindings returns the role to variant selection held by cfg.
func (c Config) Bindings() service.Bindings {
	return service.Bindings{
		domain.RoleClientID:     c.ClientIDGenerator,
		domain.RoleClientSecret: c.ClientSecretGenerator,
		domain.RoleAccessToken:  c.AccessTokenGenerator,
		domain.RoleRefreshToken: c.RefreshTokenGenerator,
	}
}

// Lifetime returns the signed token lifetime for a token role.
func (c Config) Lifetime(role domain.Role) time.Duration {
	if role == domain.RoleRefreshToken && c.RefreshTokenLifetime > 0 {
		return c.RefreshTokenLifetime
	}
	return c.AccessTokenLifetime
}

// Validate checks values that do not depend on which variants are bound.
// Signing material is checked when a signed variant is first built.
func (c Config) Validate() error {
	if c.loadErr != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, c.loadErr)
	}
	if c.ClientSecretLength < service.MinClientSecretLength {
		return fmt.Errorf("%w: client secret length must be at least %d, got %d",
			domain.ErrConfiguration, service.MinClientSecretLength, c.ClientSecretLength)
	}
	if c.OpaqueTokenLength <= 0 {
		return fmt.Errorf("%w: opaque token length must be positive, got %d", domain.ErrConfiguration, c.OpaqueTokenLength)
	}
	if err := cryptox.ValidateCharset(c.Charset); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	if c.AccessTokenLifetime < time.Second {
		return fmt.Errorf("%w: access token lifetime must be at least 1s, got %s", domain.ErrConfiguration, c.AccessTokenLifetime)
	}
	if c.RefreshTokenLifetime < 0 {
		return fmt.Errorf("%w: refresh token lifetime must not be negative", domain.ErrConfiguration)
	}

	switch c.SigningBackend {
	case BackendLocal:
	case BackendRemote:
		if c.SigningURL == "" {
			return fmt.Errorf("%w: AUTH_SIGNING_URL is required for the remote signing backend", domain.ErrConfiguration)
		}
		if c.SigningTimeout <= 0 {
			return fmt.Errorf("%w: signing timeout must be positive", domain.ErrConfiguration)
		}
		if c.SigningRateLimit < 0 {
			return fmt.Errorf("%w: signing rate limit must not be negative", domain.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown signing backend %q", domain.ErrConfiguration, c.SigningBackend)
	}

	return nil
}

func resolveCharset(v string) string {
	switch strings.ToLower(v) {
	case CharsetAlphanumeric:
		return cryptox.AlphanumericCharset
	case CharsetClientID:
		return cryptox.ClientIDCharset
	default:
		return v
	}
}

func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// envReader reads typed environment values and remembers the ones that
// could not be parsed.
type envReader struct {
	errs []error
}

func (r *envReader) fail(key, value, want string) {
	r.errs = append(r.errs, fmt.Errorf("%s=%q is not a valid %s", key, value, want))
}

func (r *envReader) err() error { return errors.Join(r.errs...) }

func (r *envReader) stringOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (r *envReader) intOr(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		r.fail(key, value, "integer")
		return defaultValue
	}
	return intValue
}

func (r *envReader) floatOr(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.fail(key, value, "number")
		return defaultValue
	}
	return f
}

func (r *envReader) boolOr(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		r.fail(key, value, "boolean")
		return defaultValue
	}
	return b
}

// secondsOr reads a whole number of seconds.
func (r *envReader) secondsOr(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		r.fail(key, value, "number of seconds")
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}

func (r *envReader) durationOr(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "5s", "750ms")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	r.fail(key, value, "duration")
	return defaultValue
}
