package jwtx

import (
	"context"
	"crypto/rsa"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinRSABits is the smallest RSA modulus accepted for RS256.
const MinRSABits = 2048

// RS256Signer implements the Signer interface using RSA SHA-256.
type RS256Signer struct {
	kid string
	key *rsa.PrivateKey
	pub *rsa.PublicKey
	alg string
}

// newRS256Signer loads an RSA private key from PEM bytes. Handles both
// PKCS1 and PKCS8 because otherwise we will be chasing a bug for longer
// that we would be willing to admit.
func newRS256Signer(kid string, pemKey []byte) (*RS256Signer, error) {
	priv, err := parsePrivateKeyPEM(pemKey)
	if err != nil {
		return nil, err
	}

	key, ok := priv.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA private key", ErrInvalidKey)
	}

	s := &RS256Signer{
		kid: kid,
		key: key,
		pub: &key.PublicKey,
		alg: jwt.SigningMethodRS256.Alg(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *RS256Signer) Alg() string { return s.alg }
func (s *RS256Signer) KID() string { return s.kid }

// Sign takes your claims and turns them into a signed JWT string.
func (s *RS256Signer) Sign(ctx context.Context, claims Claims) (string, error) {
	if err := s.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigning, err)
	}
	return encode(ctx, jwt.SigningMethodRS256, s.kid, claims, localSign(jwt.SigningMethodRS256, s.key))
}

func (s *RS256Signer) VerificationKey() any { return s.pub }

// Validate does a quick sanity check to make sure we actually have keys.
func (s *RS256Signer) Validate() error {
	if s.key == nil || s.pub == nil {
		return fmt.Errorf("%w: nil RSA key", ErrInvalidKey)
	}
	if bits := s.pub.N.BitLen(); bits < MinRSABits {
		return fmt.Errorf("%w: RSA key is %d bits, need at least %d", ErrInvalidKey, bits, MinRSABits)
	}
	return nil
}
