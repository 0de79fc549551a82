package jwtx

import (
	"encoding/json"
	"maps"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Registered and custom claim names used by issued tokens.
const (
	ClaimRef      = "ref"
	ClaimScope    = "scope"
	ClaimIssuedAt = "iat"
	ClaimExpires  = "exp"
	ClaimSubject  = "sub"
	ClaimIssuer   = "iss"
	ClaimAudience = "aud"
)

// Claims is a free-form claim set. Values must be JSON encodable; time
// claims are stored as *jwt.NumericDate when built here and come back as
// float64 seconds after verification.
type Claims map[string]any

// Merge copies extra into c, overwriting keys that already exist.
func (c Claims) Merge(extra map[string]any) Claims {
	maps.Copy(c, extra)
	return c
}

// IssuedAt returns the iat claim, if present and numeric.
func (c Claims) IssuedAt() (time.Time, bool) { return c.numericTime(ClaimIssuedAt) }

// ExpiresAt returns the exp claim, if present and numeric.
func (c Claims) ExpiresAt() (time.Time, bool) { return c.numericTime(ClaimExpires) }

func (c Claims) numericTime(name string) (time.Time, bool) {
	switch v := c[name].(type) {
	case *jwt.NumericDate:
		if v == nil {
			return time.Time{}, false
		}
		return v.Time.UTC(), true
	case time.Time:
		return v.UTC(), true
	case float64:
		return time.Unix(int64(v), 0).UTC(), true
	case int64:
		return time.Unix(v, 0).UTC(), true
	case int:
		return time.Unix(int64(v), 0).UTC(), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(n, 0).UTC(), true
	default:
		return time.Time{}, false
	}
}
