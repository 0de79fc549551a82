package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/aussiebroadwan/mint/internal/issuer/domain"
	"github.com/aussiebroadwan/mint/pkg/cryptox"
	"github.com/aussiebroadwan/mint/pkg/idx"
	"github.com/aussiebroadwan/mint/pkg/jwtx"
)

// kidPrefix namespaces generated key ids.
const kidPrefix = "mint"

// NewSigner builds the signer described by cfg.
//
// Backends:
//   - "local": HS256 signs with AUTH_SECRET_KEY; RS256, ES256 and EdDSA
//     load a PEM private key from AUTH_SIGNING_KEY_FILE. The default kid
//     is derived from the key material so separate processes sharing a
//     key agree on it.
//   - "remote": signing input is posted to AUTH_SIGNING_URL and the
//     process never sees a private key. Without AUTH_SIGNING_KID a fresh
//     ULID based kid is used. AUTH_SIGNING_RATE_LIMIT caps calls per
//     second.
//
// Every failure wraps domain.ErrSigning.
func NewSigner(cfg Config, logger *slog.Logger) (jwtx.Signer, error) {
	signer, err := newSigner(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSigning, err)
	}

	logger.Info("token signer ready",
		"backend", cfg.SigningBackend,
		"algorithm", signer.Alg(),
		"kid", signer.KID(),
	)
	return signer, nil
}

func newSigner(cfg Config) (jwtx.Signer, error) {
	switch cfg.SigningBackend {
	case BackendRemote:
		kid := cfg.KeyID
		if kid == "" {
			kid = idx.NewKeyID(kidPrefix)
		}
		var backend jwtx.SigningBackend = &jwtx.HTTPBackend{
			URL:    cfg.SigningURL,
			Secret: cfg.SigningAuthSecret,
			Client: &http.Client{Timeout: cfg.SigningTimeout},
		}
		if cfg.SigningRateLimit > 0 {
			backend = jwtx.NewRateLimitedBackend(backend, cfg.SigningRateLimit, cfg.SigningRateBurst)
		}
		return jwtx.NewRemoteSigner(cfg.Algorithm, kid, backend, cfg.SigningTimeout)

	case BackendLocal, "":
		material, err := localKeyMaterial(cfg)
		if err != nil {
			return nil, err
		}
		kid := cfg.KeyID
		if kid == "" {
			kid = derivedKeyID(material)
		}
		if cfg.Algorithm == jwtx.AlgorithmHS256 {
			return jwtx.NewSignerHS256(kid, material)
		}
		return jwtx.NewSignerFromPEM(cfg.Algorithm, kid, material)

	default:
		return nil, fmt.Errorf("unknown signing backend %q", cfg.SigningBackend)
	}
}

func localKeyMaterial(cfg Config) ([]byte, error) {
	if cfg.Algorithm == jwtx.AlgorithmHS256 {
		if cfg.SecretKey == "" {
			return nil, fmt.Errorf("%w: AUTH_SECRET_KEY is not set", jwtx.ErrInvalidKey)
		}
		return []byte(cfg.SecretKey), nil
	}

	if cfg.SigningKeyFile == "" {
		return nil, fmt.Errorf("%w: AUTH_SIGNING_KEY_FILE is required for %s", jwtx.ErrInvalidKey, cfg.Algorithm)
	}
	pemKey, err := os.ReadFile(cfg.SigningKeyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read signing key: %w", jwtx.ErrInvalidKey, err)
	}
	return pemKey, nil
}

// derivedKeyID fingerprints the key material. The fingerprint is one way,
// so the kid never exposes the key.
func derivedKeyID(material []byte) string {
	return kidPrefix + "-" + cryptox.FingerprintToken(string(material))[:16]
}
