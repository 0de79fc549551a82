package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/mint/internal/issuer/domain"
	"github.com/aussiebroadwan/mint/pkg/cryptox"
)

// DefaultOpaqueTokenLength gives ~178 bits over the alphanumeric charset.
const DefaultOpaqueTokenLength = 30

// TokenGenerator produces an access or refresh token for a request.
type TokenGenerator interface {
	Generate(ctx context.Context, req domain.RequestContext, extra map[string]any) (string, error)
}

// OpaqueTokenGenerator produces random bearer tokens with no structure.
type OpaqueTokenGenerator struct {
	Length  int
	Charset string // defaults to cryptox.AlphanumericCharset
}

// Generate returns a fresh random token. The request and extra claims are
// accepted so opaque and signed generators are interchangeable, but an
// opaque token carries nothing from them.
func (g OpaqueTokenGenerator) Generate(ctx context.Context, _ domain.RequestContext, _ map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return randomCredential(g.Length, charsetOrDefault(g.Charset))
}

// EncodedTokenGenerator produces base64url tokens from Size random bytes.
// Unlike OpaqueTokenGenerator the length is set by entropy, not by charset.
type EncodedTokenGenerator struct {
	Size int // random bytes; cryptox.TokenSize256 gives 43 characters
}

func (g EncodedTokenGenerator) Generate(ctx context.Context, _ domain.RequestContext, _ map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	token, err := cryptox.GenerateToken(g.Size)
	if err != nil {
		if errors.Is(err, cryptox.ErrInvalidParameter) {
			return "", fmt.Errorf("%w: %w", domain.ErrInvalidParameter, err)
		}
		return "", err
	}
	return token, nil
}
