package jwtx

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinHMACKeySize is the shortest accepted HS256 secret, in bytes. Anything
// shorter than the SHA-256 block output is treated as malformed.
const MinHMACKeySize = 32

// HS256Signer implements the Signer interface using HMAC SHA-256.
type HS256Signer struct {
	kid string
	key []byte
	alg string
}

func newHS256Signer(kid string, secret []byte) (*HS256Signer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: HMAC secret is empty", ErrInvalidKey)
	}
	if len(secret) < MinHMACKeySize {
		return nil, fmt.Errorf("%w: HMAC secret must be at least %d bytes, got %d", ErrInvalidKey, MinHMACKeySize, len(secret))
	}

	return &HS256Signer{
		kid: kid,
		key: append([]byte(nil), secret...),
		alg: jwt.SigningMethodHS256.Alg(),
	}, nil
}

func (s *HS256Signer) Alg() string { return s.alg }
func (s *HS256Signer) KID() string { return s.kid }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(ctx context.Context, claims Claims) (string, error) {
	if err := s.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigning, err)
	}
	return encode(ctx, jwt.SigningMethodHS256, s.kid, claims, localSign(jwt.SigningMethodHS256, s.key))
}

// VerificationKey returns the shared secret. Symmetric keys verify with
// the same material they sign with.
func (s *HS256Signer) VerificationKey() any { return s.key }

// Validate does a quick sanity check to make sure we actually have a key.
func (s *HS256Signer) Validate() error {
	if len(s.key) < MinHMACKeySize {
		return fmt.Errorf("%w: HMAC secret too short", ErrInvalidKey)
	}
	return nil
}
