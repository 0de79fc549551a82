package jwtx

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultSecretHeader carries the shared secret to the signing service.
const DefaultSecretHeader = "X-API-Secret"

// maxSignResponse caps how much of the backend response is read.
const maxSignResponse = 64 << 10

var (
	ErrBackendConnection = errors.New("jwtx: failed to connect to signing backend")
	ErrBackendRejected   = errors.New("jwtx: signing backend rejected request")
	ErrBackendResponse   = errors.New("jwtx: invalid response from signing backend")
)

// HTTPBackend is a SigningBackend that POSTs the signing input as JSON to
// an external signing service:
//
//	request:  {"alg": "ES256", "kid": "k1", "input": "<base64url>"}
//	response: {"signature": "<base64url>"}
type HTTPBackend struct {
	URL          string
	Secret       string // optional shared secret
	SecretHeader string // defaults to DefaultSecretHeader
	Client       *http.Client
}

type httpSignRequest struct {
	Alg   string `json:"alg"`
	KID   string `json:"kid,omitempty"`
	Input string `json:"input"`
}

type httpSignResponse struct {
	Signature string `json:"signature"`
	Message   string `json:"message,omitempty"`
}

// Sign implements SigningBackend.
func (b *HTTPBackend) Sign(ctx context.Context, req SignRequest) ([]byte, error) {
	body, err := json.Marshal(httpSignRequest{
		Alg:   req.Alg,
		KID:   req.KID,
		Input: base64.RawURLEncoding.EncodeToString(req.Input),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendConnection, err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	if b.Secret != "" {
		header := b.SecretHeader
		if header == "" {
			header = DefaultSecretHeader
		}
		hreq.Header.Set(header, b.Secret)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendConnection, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxSignResponse))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response", ErrBackendResponse)
	}

	var out httpSignResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && out.Message != "" {
			return nil, fmt.Errorf("%w: HTTP %d - %s", ErrBackendRejected, resp.StatusCode, out.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrBackendRejected, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendResponse, decodeErr)
	}

	sig, err := base64.RawURLEncoding.DecodeString(out.Signature)
	if err != nil || len(sig) == 0 {
		return nil, fmt.Errorf("%w: missing or malformed signature", ErrBackendResponse)
	}

	return sig, nil
}
