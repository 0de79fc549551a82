package domain

import (
	"fmt"
	"strings"
)

// Role names what a generator is used for. Each role maps to exactly one
// active generator.
type Role string

const (
	RoleClientID     Role = "client_id"
	RoleClientSecret Role = "client_secret"
	RoleAccessToken  Role = "access_token"
	RoleRefreshToken Role = "refresh_token"
)

// Roles lists every role a registry must bind.
var Roles = []Role{RoleClientID, RoleClientSecret, RoleAccessToken, RoleRefreshToken}

// Kind tells credential roles (no request input) apart from token roles.
type Kind int

const (
	KindUnknown Kind = iota
	KindCredential
	KindToken
)

func (k Kind) String() string {
	switch k {
	case KindCredential:
		return "credential"
	case KindToken:
		return "token"
	default:
		return "unknown"
	}
}

// Kind reports whether the role is served by a hash or a token generator.
func (r Role) Kind() Kind {
	switch r {
	case RoleClientID, RoleClientSecret:
		return KindCredential
	case RoleAccessToken, RoleRefreshToken:
		return KindToken
	default:
		return KindUnknown
	}
}

func (r Role) String() string { return string(r) }

// ParseRole accepts the role name with either '_' or '-' separators.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if r.Kind() == KindUnknown {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidParameter, s)
	}
	return r, nil
}
