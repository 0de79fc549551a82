package jwtx

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Supported JWT signing algorithms
const (
	AlgorithmHS256 = "HS256"
	AlgorithmRS256 = "RS256"
	AlgorithmES256 = "ES256"
	AlgorithmEdDSA = "EdDSA"
)

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	KID() string
	Sign(ctx context.Context, claims Claims) (string, error)
	Validate() error
}

// KeyHolder is implemented by signers that hold their key locally and can
// hand out the matching verification key (public key, or the HMAC secret).
type KeyHolder interface {
	VerificationKey() any
}

// NewSignerHS256 creates an HMAC-SHA256 signer from a shared secret.
func NewSignerHS256(kid string, secret []byte) (Signer, error) {
	return newHS256Signer(kid, secret)
}

// NewSignerRS256 creates an RS256 signer from PEM bytes.
func NewSignerRS256(kid string, pemKey []byte) (Signer, error) {
	return newRS256Signer(kid, pemKey)
}

// NewSignerES256 creates an ES256 signer from PEM bytes.
func NewSignerES256(kid string, pemKey []byte) (Signer, error) {
	return newES256Signer(kid, pemKey)
}

// NewSignerEdDSA creates an EdDSA signer from PEM bytes.
// Ed25519 keys must be in PKCS8 format.
func NewSignerEdDSA(kid string, pemKey []byte) (Signer, error) {
	return newEdDSASigner(kid, pemKey)
}

// NewSignerFromPEM picks the asymmetric signer matching alg.
func NewSignerFromPEM(alg, kid string, pemKey []byte) (Signer, error) {
	switch alg {
	case AlgorithmRS256:
		return NewSignerRS256(kid, pemKey)
	case AlgorithmES256:
		return NewSignerES256(kid, pemKey)
	case AlgorithmEdDSA:
		return NewSignerEdDSA(kid, pemKey)
	default:
		return nil, fmt.Errorf("%w: %q needs a PEM private key (supported: RS256, ES256, EdDSA)", ErrUnsupportedAlg, alg)
	}
}

// signFunc produces the raw signature over a JWS signing input.
type signFunc func(ctx context.Context, input string) ([]byte, error)

// encode builds the compact JWS for claims. Encoding problems are reported
// as ErrSerialization before any signing is attempted.
func encode(ctx context.Context, method jwt.SigningMethod, kid string, claims Claims, sign signFunc) (string, error) {
	t := jwt.NewWithClaims(method, jwt.MapClaims(claims))
	if kid != "" {
		t.Header["kid"] = kid
	}

	input, err := t.SigningString()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerialization, err)
	}

	sig, err := sign(ctx, input)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigning, err)
	}
	if len(sig) == 0 {
		return "", fmt.Errorf("%w: empty signature", ErrSigning)
	}

	return input + "." + t.EncodeSegment(sig), nil
}

// localSign signs in-process with method and key.
func localSign(method jwt.SigningMethod, key any) signFunc {
	return func(ctx context.Context, input string) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return method.Sign(input, key)
	}
}

// parsePrivateKeyPEM decodes a PEM private key. PKCS1, SEC1 and PKCS8 are
// all accepted; the caller checks the concrete key type.
func parsePrivateKeyPEM(pemKey []byte) (any, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, fmt.Errorf("%w: invalid PEM", ErrInvalidKey)
	}

	var key any
	var err error

	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case "EC PRIVATE KEY":
		key, err = x509.ParseECPrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	default:
		return nil, fmt.Errorf("%w: unsupported PEM type %q", ErrInvalidKey, block.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrInvalidKey, block.Type, err)
	}

	return key, nil
}
