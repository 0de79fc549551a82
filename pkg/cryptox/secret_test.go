package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashSecret(t *testing.T) {
	secret, err := RandomString(128, AlphanumericCharset)
	require.NoError(t, err)

	hash, err := HashSecret(secret)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"), "hash should be in PHC format")
	require.NotContains(t, hash, secret)

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6)
	require.Equal(t, "m=19456,t=2,p=1", parts[3])

	require.NoError(t, VerifySecret(secret, hash))
	require.ErrorIs(t, VerifySecret(secret+"x", hash), ErrSecretMismatch)
}

func TestHashSecret_Salted(t *testing.T) {
	h1, err := HashSecret("same-secret")
	require.NoError(t, err)
	h2, err := HashSecret("same-secret")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2, "salt should differ between hashes")
	require.NoError(t, VerifySecret("same-secret", h1))
	require.NoError(t, VerifySecret("same-secret", h2))
}

func TestVerifySecret_InvalidFormat(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"wrong algorithm", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"},
		{"wrong version", "$argon2id$v=16$m=1,t=1,p=1$c2FsdA$aGFzaA"},
		{"bad params", "$argon2id$v=19$m=x$c2FsdA$aGFzaA"},
		{"bad salt", "$argon2id$v=19$m=1,t=1,p=1$!!!$aGFzaA"},
		{"too few parts", "$argon2id$v=19$m=1,t=1,p=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySecret("secret", tt.hash)
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrSecretMismatch)
		})
	}
}
