package jwtx

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ES256Signer implements the Signer interface using ECDSA P-256 with SHA-256.
type ES256Signer struct {
	kid string
	key *ecdsa.PrivateKey
	pub *ecdsa.PublicKey
	alg string
}

// newES256Signer loads an ECDSA private key from PEM bytes (PKCS8 or SEC1).
func newES256Signer(kid string, pemKey []byte) (*ES256Signer, error) {
	priv, err := parsePrivateKeyPEM(pemKey)
	if err != nil {
		return nil, err
	}

	key, ok := priv.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an ECDSA private key", ErrInvalidKey)
	}

	s := &ES256Signer{
		kid: kid,
		key: key,
		pub: &key.PublicKey,
		alg: jwt.SigningMethodES256.Alg(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *ES256Signer) Alg() string { return s.alg }
func (s *ES256Signer) KID() string { return s.kid }

// Sign takes your claims and turns them into a signed JWT string.
func (s *ES256Signer) Sign(ctx context.Context, claims Claims) (string, error) {
	if err := s.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigning, err)
	}
	return encode(ctx, jwt.SigningMethodES256, s.kid, claims, localSign(jwt.SigningMethodES256, s.key))
}

func (s *ES256Signer) VerificationKey() any { return s.pub }

// Validate does a quick sanity check to make sure we actually have keys.
func (s *ES256Signer) Validate() error {
	if s.key == nil || s.pub == nil {
		return fmt.Errorf("%w: nil ECDSA key", ErrInvalidKey)
	}
	// ES256 is only defined over P-256
	if name := s.key.Curve.Params().Name; name != "P-256" {
		return fmt.Errorf("%w: expected P-256 curve, got %s", ErrInvalidKey, name)
	}
	return nil
}
