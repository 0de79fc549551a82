package cryptox

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"
)

// Character sets used for generated credentials.
const (
	// AlphanumericCharset is ASCII letters and digits. This is the default
	// for client ids, client secrets and opaque tokens.
	AlphanumericCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// ClientIDCharset is printable ASCII minus space, colon, quotes and
	// backslash, so values survive HTTP Basic auth and header quoting.
	ClientIDCharset = AlphanumericCharset + "!#$%&()*+,-./;<=>?@[]^_`{|}~"
)

// ErrInvalidParameter reports a non-positive length or an unusable charset.
var ErrInvalidParameter = errors.New("cryptox: invalid parameter")

// RandomString returns exactly length characters, each drawn uniformly and
// independently from alphabet using crypto/rand.
func RandomString(length int, alphabet string) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("%w: length must be positive, got %d", ErrInvalidParameter, length)
	}

	chars := []rune(alphabet)
	if len(chars) == 0 {
		return "", fmt.Errorf("%w: alphabet is empty", ErrInvalidParameter)
	}

	max := big.NewInt(int64(len(chars)))
	out := make([]rune, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("cryptox: failed to read random source: %w", err)
		}
		out[i] = chars[n.Int64()]
	}

	return string(out), nil
}

// ValidateCharset checks that a configured charset is usable for
// credentials: non-empty, printable ASCII, no duplicates and no colon.
func ValidateCharset(charset string) error {
	if charset == "" {
		return fmt.Errorf("%w: charset is empty", ErrInvalidParameter)
	}
	if !utf8.ValidString(charset) {
		return fmt.Errorf("%w: charset is not valid UTF-8", ErrInvalidParameter)
	}
	if strings.ContainsRune(charset, ':') {
		return fmt.Errorf("%w: charset must not contain ':'", ErrInvalidParameter)
	}

	seen := make(map[rune]struct{}, len(charset))
	for _, r := range charset {
		if r <= ' ' || r > '~' {
			return fmt.Errorf("%w: charset contains non-printable character %q", ErrInvalidParameter, r)
		}
		if _, dup := seen[r]; dup {
			return fmt.Errorf("%w: charset contains duplicate %q", ErrInvalidParameter, r)
		}
		seen[r] = struct{}{}
	}

	return nil
}
