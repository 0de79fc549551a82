package idx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/mint/pkg/idx"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := idx.New()
	require.False(t, id.IsZero())
	require.True(t, idx.Zero.IsZero())

	_, err := ulid.ParseStrict(id.String())
	require.NoError(t, err)
}

func TestMonotonic(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()
	a := idx.NewAt(tm)
	b := idx.NewAt(tm)

	// Same millisecond, the monotonic source still orders them
	require.Less(t, a.String(), b.String())

	u, err := ulid.ParseStrict(a.String())
	require.NoError(t, err)
	require.Equal(t, tm, ulid.Time(u.Time()).UTC())
}

func TestNewKeyID(t *testing.T) {
	kid := idx.NewKeyID("mint")
	require.True(t, strings.HasPrefix(kid, "mint-"))
	require.Equal(t, strings.ToLower(kid), kid)

	_, err := ulid.ParseStrict(strings.ToUpper(strings.TrimPrefix(kid, "mint-")))
	require.NoError(t, err)

	require.NotEqual(t, idx.NewKeyID(""), idx.NewKeyID(""))
}
