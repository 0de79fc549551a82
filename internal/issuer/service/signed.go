package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aussiebroadwan/mint/internal/issuer/domain"
	"github.com/aussiebroadwan/mint/pkg/jwtx"
	"github.com/aussiebroadwan/mint/pkg/slogx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenLifetime is used when configuration does not set one.
const DefaultTokenLifetime = 36000 * time.Second

// SignedTokenGenerator issues self-contained JWTs.
type SignedTokenGenerator struct {
	Signer   jwtx.Signer
	Lifetime time.Duration // whole seconds; exp - iat always equals this
	Issuer   string        // optional iss claim
	Audience []string      // optional aud claim
	Clock    func() time.Time
}

// Generate builds the claim set for req, merges extra over it (extra wins
// on every key) and signs the result.
func (g *SignedTokenGenerator) Generate(ctx context.Context, req domain.RequestContext, extra map[string]any) (string, error) {
	if g.Signer == nil {
		return "", fmt.Errorf("%w: no signing key configured", domain.ErrSigning)
	}
	if err := g.Signer.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSigning, err)
	}

	lifetime := g.Lifetime.Truncate(time.Second)
	if lifetime <= 0 {
		return "", fmt.Errorf("%w: token lifetime must be at least one second, got %s", domain.ErrInvalidParameter, g.Lifetime)
	}

	ref, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate token reference: %w", err)
	}

	now := g.now()
	claims := jwtx.Claims{
		jwtx.ClaimRef:      ref.String(),
		jwtx.ClaimScope:    scopesOf(req),
		jwtx.ClaimIssuedAt: jwt.NewNumericDate(now),
		jwtx.ClaimExpires:  jwt.NewNumericDate(now.Add(lifetime)),
	}
	if req.HasSubject() {
		claims[jwtx.ClaimSubject] = req.Subject
	}
	if g.Issuer != "" {
		claims[jwtx.ClaimIssuer] = g.Issuer
	}
	if len(g.Audience) > 0 {
		claims[jwtx.ClaimAudience] = slices.Clone(g.Audience)
	}
	claims.Merge(extra)

	token, err := g.Signer.Sign(ctx, claims)
	if err != nil {
		if errors.Is(err, jwtx.ErrSerialization) {
			return "", fmt.Errorf("%w: %w", domain.ErrSerialization, err)
		}
		return "", fmt.Errorf("%w: %w", domain.ErrSigning, err)
	}

	// Claim values, ref and subject stay out of the log
	l := slogx.FromContext(ctx)
	if exp, ok := claims.ExpiresAt(); ok {
		l.Debug("signed token issued", "alg", g.Signer.Alg(), "kid", g.Signer.KID(), "expires_at", exp)
	}

	return token, nil
}

func (g *SignedTokenGenerator) now() time.Time {
	clock := g.Clock
	if clock == nil {
		clock = time.Now
	}
	return clock().UTC().Truncate(time.Second)
}

// scopesOf copies the request scopes so the claim set never aliases
// caller memory. A nil slice still encodes as [].
func scopesOf(req domain.RequestContext) []string {
	if req.Scopes == nil {
		return []string{}
	}
	return slices.Clone(req.Scopes)
}
