package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/aussiebroadwan/mint/internal/issuer/domain"
)

// Factory builds the generator for a variant. A variant is either a hash
// variant (Hash set) or a token variant (Token set), never both.
type Factory struct {
	Hash  func(role domain.Role) (HashGenerator, error)
	Token func(role domain.Role) (TokenGenerator, error)
}

func (f Factory) kind() domain.Kind {
	switch {
	case f.Hash != nil && f.Token == nil:
		return domain.KindCredential
	case f.Token != nil && f.Hash == nil:
		return domain.KindToken
	default:
		return domain.KindUnknown
	}
}

var errNoGenerator = errors.New("factory returned no generator")

// Bindings selects the variant name for each role.
type Bindings map[domain.Role]string

// Handle is a resolved role.
type Handle struct {
	Role    domain.Role
	Variant string
	Hash    HashGenerator  // set for credential roles
	Token   TokenGenerator // set for token roles
}

// Registry maps every role to one callable generator. All bindings are
// resolved when the registry is built, so a registry that exists can
// serve every role. It is read-only afterwards and safe for concurrent use.
type Registry struct {
	handles map[domain.Role]Handle
}

// NewRegistry resolves each role in domain.Roles through its bound
// factory. Any role left unbound, bound to an unknown variant, or bound to
// a variant of the wrong kind fails with domain.ErrConfiguration.
func NewRegistry(bindings Bindings, factories map[string]Factory) (*Registry, error) {
	for role := range bindings {
		if role.Kind() == domain.KindUnknown {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrConfiguration, role)
		}
	}

	r := &Registry{handles: make(map[domain.Role]Handle, len(domain.Roles))}
	for _, role := range domain.Roles {
		h, err := resolve(role, bindings, factories)
		if err != nil {
			return nil, err
		}
		r.handles[role] = h
	}
	return r, nil
}

func resolve(role domain.Role, bindings Bindings, factories map[string]Factory) (Handle, error) {
	variant, ok := bindings[role]
	if !ok || variant == "" {
		return Handle{}, fmt.Errorf("%w: no generator bound for %s", domain.ErrConfiguration, role)
	}

	f, ok := factories[variant]
	if !ok {
		return Handle{}, fmt.Errorf("%w: %s: unknown generator %q (known: %v)",
			domain.ErrConfiguration, role, variant, slices.Sorted(maps.Keys(factories)))
	}
	if f.kind() != role.Kind() {
		return Handle{}, fmt.Errorf("%w: %s: generator %q is a %s generator, need %s",
			domain.ErrConfiguration, role, variant, f.kind(), role.Kind())
	}

	h := Handle{Role: role, Variant: variant}
	var err error
	switch role.Kind() {
	case domain.KindCredential:
		h.Hash, err = f.Hash(role)
		if err == nil && h.Hash == nil {
			err = errNoGenerator
		}
	case domain.KindToken:
		h.Token, err = f.Token(role)
		if err == nil && h.Token == nil {
			err = errNoGenerator
		}
	}
	if err != nil {
		return Handle{}, fmt.Errorf("%w: %s: generator %q: %w", domain.ErrConfiguration, role, variant, err)
	}
	return h, nil
}

// Resolve returns the handle bound to role.
func (r *Registry) Resolve(role domain.Role) (Handle, error) {
	h, ok := r.handles[role]
	if !ok {
		return Handle{}, fmt.Errorf("%w: no generator bound for %s", domain.ErrConfiguration, role)
	}
	return h, nil
}

func (r *Registry) GenerateClientID() (string, error) {
	return r.hash(domain.RoleClientID)
}

func (r *Registry) GenerateClientSecret() (string, error) {
	return r.hash(domain.RoleClientSecret)
}

func (r *Registry) GenerateAccessToken(ctx context.Context, req domain.RequestContext, extra map[string]any) (string, error) {
	return r.token(ctx, domain.RoleAccessToken, req, extra)
}

func (r *Registry) GenerateRefreshToken(ctx context.Context, req domain.RequestContext, extra map[string]any) (string, error) {
	return r.token(ctx, domain.RoleRefreshToken, req, extra)
}

func (r *Registry) hash(role domain.Role) (string, error) {
	h, err := r.Resolve(role)
	if err != nil {
		return "", err
	}
	return h.Hash.Hash()
}

func (r *Registry) token(ctx context.Context, role domain.Role, req domain.RequestContext, extra map[string]any) (string, error) {
	h, err := r.Resolve(role)
	if err != nil {
		return "", err
	}
	return h.Token.Generate(ctx, req, extra)
}
