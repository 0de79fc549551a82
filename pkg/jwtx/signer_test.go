package jwtx_test

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/mint/pkg/cryptox"
	"github.com/aussiebroadwan/mint/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "https://auth.example.test"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestClaims(now time.Time, ttl time.Duration) jwtx.Claims {
	return jwtx.Claims{
		jwtx.ClaimRef:      "ref-1",
		jwtx.ClaimScope:    []string{"read", "write"},
		jwtx.ClaimIssuedAt: jwt.NewNumericDate(now),
		jwtx.ClaimExpires:  jwt.NewNumericDate(now.Add(ttl)),
		jwtx.ClaimIssuer:   exampleIssuer,
	}
}

func newSigner(t *testing.T, alg, kid string) jwtx.Signer {
	t.Helper()

	if alg == jwtx.AlgorithmHS256 {
		s, err := jwtx.NewSignerHS256(kid, testSecret)
		require.NoError(t, err)
		return s
	}

	pemKey, err := cryptox.GenerateSigningKey(alg, 2048)
	require.NoError(t, err)

	s, err := jwtx.NewSignerFromPEM(alg, kid, pemKey)
	require.NoError(t, err)
	return s
}

func TestSignAndVerify(t *testing.T) {
	algs := []string{jwtx.AlgorithmHS256, jwtx.AlgorithmRS256, jwtx.AlgorithmES256, jwtx.AlgorithmEdDSA}

	for _, alg := range algs {
		t.Run(alg, func(t *testing.T) {
			kid := "test-key-" + strings.ToLower(alg)
			signer := newSigner(t, alg, kid)
			require.NoError(t, signer.Validate())
			require.Equal(t, alg, signer.Alg())
			require.Equal(t, kid, signer.KID())

			now := time.Now().UTC().Truncate(time.Second)
			token, err := signer.Sign(context.Background(), newTestClaims(now, 5*time.Minute))
			require.NoError(t, err)
			require.Len(t, strings.Split(token, "."), 3)

			keys := jwtx.NewKeySet()
			require.NoError(t, keys.AddSigner(signer))

			claims, err := jwtx.NewVerifier(keys, jwtx.VerifyOptions{Issuer: exampleIssuer}).Verify(token)
			require.NoError(t, err)
			require.Equal(t, "ref-1", claims[jwtx.ClaimRef])
			require.Equal(t, []any{"read", "write"}, claims[jwtx.ClaimScope])

			iat, ok := claims.IssuedAt()
			require.True(t, ok)
			exp, ok := claims.ExpiresAt()
			require.True(t, ok)
			require.Equal(t, now, iat)
			require.Equal(t, 5*time.Minute, exp.Sub(iat))

			// kid header must be present so verifiers can pick the key
			parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
			require.NoError(t, err)
			require.Equal(t, kid, parsed.Header["kid"])
			require.Equal(t, alg, parsed.Header["alg"])
		})
	}
}

func TestNewSignerHS256_InvalidKey(t *testing.T) {
	tests := []struct {
		name   string
		secret []byte
	}{
		{"nil secret", nil},
		{"empty secret", []byte{}},
		{"short secret", []byte("too-short")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := jwtx.NewSignerHS256("k", tt.secret)
			require.ErrorIs(t, err, jwtx.ErrInvalidKey)
			require.Nil(t, s)
		})
	}
}

func TestNewSignerHS256_CopiesSecret(t *testing.T) {
	secret := append([]byte(nil), testSecret...)
	signer, err := jwtx.NewSignerHS256("k", secret)
	require.NoError(t, err)

	now := time.Now().UTC()
	token, err := signer.Sign(context.Background(), newTestClaims(now, time.Minute))
	require.NoError(t, err)

	// Mutating the caller's buffer must not change the signer's key
	secret[0] = 'X'

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.Add("k", jwtx.AlgorithmHS256, testSecret))
	_, err = jwtx.NewVerifier(keys, jwtx.VerifyOptions{}).Verify(token)
	require.NoError(t, err)
}

func TestNewSignerFromPEM_Errors(t *testing.T) {
	ecKey, err := cryptox.GenerateSigningKey(jwtx.AlgorithmES256, 0)
	require.NoError(t, err)

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := jwtx.NewSignerFromPEM(jwtx.AlgorithmHS256, "k", ecKey)
		require.ErrorIs(t, err, jwtx.ErrUnsupportedAlg)
	})

	t.Run("invalid PEM", func(t *testing.T) {
		_, err := jwtx.NewSignerFromPEM(jwtx.AlgorithmEdDSA, "k", []byte("not a pem"))
		require.ErrorIs(t, err, jwtx.ErrInvalidKey)
	})

	t.Run("wrong key type", func(t *testing.T) {
		_, err := jwtx.NewSignerFromPEM(jwtx.AlgorithmRS256, "k", ecKey)
		require.ErrorIs(t, err, jwtx.ErrInvalidKey)

		_, err = jwtx.NewSignerFromPEM(jwtx.AlgorithmEdDSA, "k", ecKey)
		require.ErrorIs(t, err, jwtx.ErrInvalidKey)
	})

	t.Run("unsupported PEM type", func(t *testing.T) {
		pemKey := []byte("-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n")
		_, err := jwtx.NewSignerFromPEM(jwtx.AlgorithmES256, "k", pemKey)
		require.ErrorIs(t, err, jwtx.ErrInvalidKey)
	})
}

func TestSign_SerializationError(t *testing.T) {
	signer := newSigner(t, jwtx.AlgorithmHS256, "k")

	tests := []struct {
		name  string
		value any
	}{
		{"channel", make(chan int)},
		{"function", func() {}},
		{"NaN", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := newTestClaims(time.Now(), time.Minute)
			claims["bad"] = tt.value

			token, err := signer.Sign(context.Background(), claims)
			require.ErrorIs(t, err, jwtx.ErrSerialization)
			require.NotErrorIs(t, err, jwtx.ErrSigning)
			require.Empty(t, token)
		})
	}
}

func TestSign_CanceledContext(t *testing.T) {
	signer := newSigner(t, jwtx.AlgorithmHS256, "k")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	token, err := signer.Sign(ctx, newTestClaims(time.Now(), time.Minute))
	require.ErrorIs(t, err, jwtx.ErrSigning)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, token)
}

func TestClaimsMerge(t *testing.T) {
	claims := jwtx.Claims{"scope": []string{"read"}, "ref": "r1"}
	claims.Merge(map[string]any{"scope": "custom", "aud": "api"})

	require.Equal(t, "custom", claims["scope"])
	require.Equal(t, "api", claims["aud"])
	require.Equal(t, "r1", claims["ref"])

	// nil extra is a no-op
	require.Len(t, claims.Merge(nil), 3)
}

func TestClaimsTimes(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()

	tests := []struct {
		name  string
		value any
	}{
		{"numeric date", jwt.NewNumericDate(now)},
		{"time", now},
		{"float seconds", float64(now.Unix())},
		{"int64 seconds", now.Unix()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := jwtx.Claims{"exp": tt.value}.ExpiresAt()
			require.True(t, ok)
			require.Equal(t, now, got)
		})
	}

	_, ok := jwtx.Claims{"iat": "yesterday"}.IssuedAt()
	require.False(t, ok)
	_, ok = jwtx.Claims{}.IssuedAt()
	require.False(t, ok)
}
