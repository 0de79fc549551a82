package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/mint/internal/issuer/domain"
	"github.com/aussiebroadwan/mint/pkg/cryptox"
)

const (
	// ClientIDLength is the length of every client id.
	ClientIDLength = 40

	// DefaultClientSecretLength is used when configuration does not set one.
	DefaultClientSecretLength = 128

	// MinClientSecretLength is the floor enforced at config validation.
	MinClientSecretLength = 30
)

// HashGenerator produces a client credential. Implementations hold no
// state between calls and are safe for concurrent use.
type HashGenerator interface {
	Hash() (string, error)
}

// ClientIDGenerator generates client ids usable in HTTP Basic auth, so the
// charset may never contain a colon.
type ClientIDGenerator struct {
	Charset string // defaults to cryptox.AlphanumericCharset
}

func (g ClientIDGenerator) Hash() (string, error) {
	charset := charsetOrDefault(g.Charset)
	if strings.ContainsRune(charset, ':') {
		return "", fmt.Errorf("%w: client id charset must not contain ':'", domain.ErrInvalidParameter)
	}
	return randomCredential(ClientIDLength, charset)
}

// ClientSecretGenerator generates client secrets of a configured length.
type ClientSecretGenerator struct {
	Length  int
	Charset string // defaults to cryptox.AlphanumericCharset
}

func (g ClientSecretGenerator) Hash() (string, error) {
	return randomCredential(g.Length, charsetOrDefault(g.Charset))
}

func charsetOrDefault(charset string) string {
	if charset == "" {
		return cryptox.AlphanumericCharset
	}
	return charset
}

// randomCredential draws from cryptox and maps its parameter errors onto
// the domain taxonomy.
func randomCredential(length int, charset string) (string, error) {
	s, err := cryptox.RandomString(length, charset)
	if err != nil {
		if errors.Is(err, cryptox.ErrInvalidParameter) {
			return "", fmt.Errorf("%w: %w", domain.ErrInvalidParameter, err)
		}
		return "", err
	}
	return s, nil
}
