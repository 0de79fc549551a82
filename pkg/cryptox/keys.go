package cryptox

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// DefaultRSABits is used by GenerateSigningKey when no size is given.
const DefaultRSABits = 4096

// GenerateSigningKey creates a fresh private key for the given JWS
// algorithm ("RS256", "ES256" or "EdDSA") and returns it as a PKCS8 PEM
// block. rsaBits is only consulted for RS256.
func GenerateSigningKey(alg string, rsaBits int) ([]byte, error) {
	var key any
	var err error

	switch alg {
	case "RS256":
		if rsaBits == 0 {
			rsaBits = DefaultRSABits
		}
		if rsaBits < 2048 {
			return nil, fmt.Errorf("%w: RSA key size must be at least 2048 bits", ErrInvalidParameter)
		}
		key, err = rsa.GenerateKey(rand.Reader, rsaBits)
	case "ES256":
		key, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	case "EdDSA":
		_, key, err = ed25519.GenerateKey(rand.Reader)
	default:
		return nil, fmt.Errorf("%w: unsupported key algorithm %q", ErrInvalidParameter, alg)
	}
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate %s key: %w", alg, err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to marshal PKCS8 key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}
