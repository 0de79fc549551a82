package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// VerifyOptions captures common expectations used by verifiers.
type VerifyOptions struct {
	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Audience is a value the token must contain (claims.aud). Empty means
	// "don't care".
	Audience string

	// Leeway allows small clock skew when validating exp/nbf/iat.
	Leeway time.Duration
}

// KeySetVerifier verifies tokens against the keys in a KeySet, picking
// the key by the "kid" header and pinning the algorithm to the one the
// key was registered with.
type KeySetVerifier struct {
	keys *KeySet
	opts VerifyOptions
}

// NewVerifier returns a Verifier backed by keys.
func NewVerifier(keys *KeySet, opts VerifyOptions) *KeySetVerifier {
	return &KeySetVerifier{keys: keys, opts: opts}
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *KeySetVerifier) Verify(tokenStr string) (Claims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithLeeway(v.opts.Leeway),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if v.opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.opts.Issuer))
	}
	if v.opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.opts.Audience))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.NewParser(parserOpts...).ParseWithClaims(tokenStr, claims, v.keyFunc)
	if err != nil {
		return nil, mapParseError(err)
	}
	if !token.Valid {
		return nil, ErrInvalidSig
	}

	return Claims(claims), nil
}

func (v *KeySetVerifier) keyFunc(t *jwt.Token) (any, error) {
	// Need the kid to know which key to use
	kid, _ := t.Header["kid"].(string)

	key, alg, err := v.keys.Get(kid)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
	}

	// Never let the token pick a different algorithm than the key's
	if t.Method.Alg() != alg {
		return nil, fmt.Errorf("jwtx: algorithm mismatch: token %s, key %s", t.Method.Alg(), alg)
	}

	return key, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrUnknownKID):
		return ErrUnknownKID
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrAudience
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: %w", ErrMissingClaim, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	}
}
