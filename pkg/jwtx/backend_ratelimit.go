package jwtx

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedBackend caps how often an inner SigningBackend is called, so a
// burst of issuance cannot overrun a shared signing service. Waiting for a
// slot counts against the caller's deadline.
type RateLimitedBackend struct {
	backend SigningBackend
	limiter *rate.Limiter
}

// NewRateLimitedBackend allows perSecond calls per second with the given
// burst. A non-positive burst is treated as 1.
func NewRateLimitedBackend(backend SigningBackend, perSecond float64, burst int) *RateLimitedBackend {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedBackend{
		backend: backend,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (b *RateLimitedBackend) Sign(ctx context.Context, req SignRequest) ([]byte, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("signing rate limit: %w", err)
	}
	return b.backend.Sign(ctx, req)
}
