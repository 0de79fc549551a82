package jwtx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultRemoteTimeout bounds a single remote signing call.
const DefaultRemoteTimeout = 5 * time.Second

// SignRequest is what a SigningBackend is asked to sign.
type SignRequest struct {
	Alg   string
	KID   string
	Input []byte // JWS signing input: base64url(header) "." base64url(claims)
}

// SigningBackend signs JWS input outside the process, e.g. in a KMS or
// HSM. It returns the raw JWS signature bytes for the requested alg.
type SigningBackend interface {
	Sign(ctx context.Context, req SignRequest) ([]byte, error)
}

// SigningBackendFunc adapts a plain function to SigningBackend.
type SigningBackendFunc func(ctx context.Context, req SignRequest) ([]byte, error)

func (f SigningBackendFunc) Sign(ctx context.Context, req SignRequest) ([]byte, error) {
	return f(ctx, req)
}

// RemoteSigner delegates the signature to a SigningBackend. Each call is
// bounded by timeout and is never retried here.
type RemoteSigner struct {
	alg     string
	kid     string
	method  jwt.SigningMethod
	backend SigningBackend
	timeout time.Duration
}

// NewRemoteSigner creates a signer backed by an external signing service.
// A zero timeout uses DefaultRemoteTimeout.
func NewRemoteSigner(alg, kid string, backend SigningBackend, timeout time.Duration) (*RemoteSigner, error) {
	method := jwt.GetSigningMethod(alg)
	if method == nil || alg == "none" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlg, alg)
	}
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}

	s := &RemoteSigner{
		alg:     method.Alg(),
		kid:     kid,
		method:  method,
		backend: backend,
		timeout: timeout,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *RemoteSigner) Alg() string { return s.alg }
func (s *RemoteSigner) KID() string { return s.kid }

// Sign encodes claims locally and asks the backend for the signature.
func (s *RemoteSigner) Sign(ctx context.Context, claims Claims) (string, error) {
	if err := s.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigning, err)
	}
	return encode(ctx, s.method, s.kid, claims, s.signRemote)
}

func (s *RemoteSigner) signRemote(ctx context.Context, input string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		sig []byte
		err error
	}

	// Buffered so a backend that ignores ctx can still finish and exit.
	done := make(chan result, 1)
	go func() {
		sig, err := s.backend.Sign(ctx, SignRequest{Alg: s.alg, KID: s.kid, Input: []byte(input)})
		done <- result{sig: sig, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("remote signer timed out after %s: %w", s.timeout, r.err)
			}
			return nil, fmt.Errorf("remote signer: %w", r.err)
		}
		return r.sig, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, fmt.Errorf("remote signer: call canceled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("remote signer timed out after %s: %w", s.timeout, ctx.Err())
	}
}

// Validate checks the signer has a backend to talk to.
func (s *RemoteSigner) Validate() error {
	if s.backend == nil {
		return fmt.Errorf("%w: no remote signing backend", ErrInvalidKey)
	}
	return nil
}
