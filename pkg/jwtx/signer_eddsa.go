package jwtx

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// EdDSASigner implements the Signer interface using Ed25519.
type EdDSASigner struct {
	kid string
	key ed25519.PrivateKey
	pub ed25519.PublicKey
	alg string
}

// newEdDSASigner loads an Ed25519 private key from PKCS8 PEM bytes.
func newEdDSASigner(kid string, pemKey []byte) (*EdDSASigner, error) {
	priv, err := parsePrivateKeyPEM(pemKey)
	if err != nil {
		return nil, err
	}

	key, ok := priv.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an Ed25519 private key", ErrInvalidKey)
	}

	s := &EdDSASigner{
		kid: kid,
		key: key,
		pub: key.Public().(ed25519.PublicKey),
		alg: jwt.SigningMethodEdDSA.Alg(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *EdDSASigner) Alg() string { return s.alg }
func (s *EdDSASigner) KID() string { return s.kid }

// Sign takes your claims and turns them into a signed JWT string.
func (s *EdDSASigner) Sign(ctx context.Context, claims Claims) (string, error) {
	if err := s.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigning, err)
	}
	return encode(ctx, jwt.SigningMethodEdDSA, s.kid, claims, localSign(jwt.SigningMethodEdDSA, s.key))
}

func (s *EdDSASigner) VerificationKey() any { return s.pub }

// Validate does a quick sanity check to make sure we actually have keys.
func (s *EdDSASigner) Validate() error {
	if len(s.key) != ed25519.PrivateKeySize {
		return fmt.Errorf("%w: invalid Ed25519 private key size", ErrInvalidKey)
	}
	if len(s.pub) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: invalid Ed25519 public key size", ErrInvalidKey)
	}
	return nil
}
