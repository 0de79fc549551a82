package app

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/mint/internal/issuer/domain"
	"github.com/aussiebroadwan/mint/internal/issuer/service"
	"github.com/aussiebroadwan/mint/pkg/cryptox"
	"github.com/aussiebroadwan/mint/pkg/jwtx"
	"github.com/aussiebroadwan/mint/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Built-in generator variants.
const (
	VariantDefault   = "default"    // random client id or client secret
	VariantOpaque    = "opaque"     // random opaque token over the configured charset
	VariantOpaqueB64 = "opaque_b64" // 32 random bytes, base64url
	VariantSigned    = "signed"     // signed JWT
)

// Application wires configuration, logging, signing and the generator
// registry together.
type Application struct {
	cfg      Config
	logger   *slog.Logger
	registry *service.Registry

	signerOnce func() (jwtx.Signer, error)
}

type options struct {
	factories map[string]service.Factory
	signer    jwtx.Signer
	logOutput io.Writer
}

// Option customises New.
type Option func(*options)

// WithFactory registers an extra generator variant under name. It may
// shadow a built-in variant.
func WithFactory(name string, f service.Factory) Option {
	return func(o *options) { o.factories[name] = f }
}

// WithSigner replaces the signer NewSigner would build from the config.
func WithSigner(s jwtx.Signer) Option {
	return func(o *options) { o.signer = s }
}

// WithLogOutput sends logs to w instead of stdout.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// New validates cfg and resolves every role. A role bound to a missing
// variant, or a signed variant without usable key material, fails here
// rather than at first use.
func New(cfg Config, opts ...Option) (*Application, error) {
	o := options{factories: make(map[string]service.Factory)}
	for _, opt := range opts {
		opt(&o)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "mint",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Redact:  !cfg.LogSensitive,
			Output:  o.logOutput,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app.signerOnce = sync.OnceValues(func() (jwtx.Signer, error) {
		if o.signer != nil {
			return o.signer, nil
		}
		return NewSigner(app.cfg, app.logger)
	})

	factories := app.builtinFactories()
	for name, f := range o.factories {
		factories[name] = f
	}

	registry, err := service.NewRegistry(cfg.Bindings(), factories)
	if err != nil {
		return nil, err
	}
	app.registry = registry

	app.logger.Info("generators configured",
		"client_id_generator", cfg.ClientIDGenerator,
		"client_secret_generator", cfg.ClientSecretGenerator,
		"access_token_generator", cfg.AccessTokenGenerator,
		"refresh_token_generator", cfg.RefreshTokenGenerator,
	)

	return app, nil
}

func (app *Application) builtinFactories() map[string]service.Factory {
	return map[string]service.Factory{
		VariantDefault: {Hash: func(role domain.Role) (service.HashGenerator, error) {
			if role == domain.RoleClientID {
				return service.ClientIDGenerator{Charset: app.cfg.Charset}, nil
			}
			return service.ClientSecretGenerator{Length: app.cfg.ClientSecretLength, Charset: app.cfg.Charset}, nil
		}},
		VariantOpaque: {Token: func(domain.Role) (service.TokenGenerator, error) {
			return service.OpaqueTokenGenerator{Length: app.cfg.OpaqueTokenLength, Charset: app.cfg.Charset}, nil
		}},
		VariantOpaqueB64: {Token: func(domain.Role) (service.TokenGenerator, error) {
			return service.EncodedTokenGenerator{Size: cryptox.TokenSize256}, nil
		}},
		VariantSigned: {Token: func(role domain.Role) (service.TokenGenerator, error) {
			signer, err := app.signerOnce()
			if err != nil {
				return nil, err
			}
			return &service.SignedTokenGenerator{
				Signer:   signer,
				Lifetime: app.cfg.Lifetime(role),
				Issuer:   app.cfg.Issuer,
				Audience: app.cfg.Audience,
			}, nil
		}},
	}
}

func (app *Application) Registry() *service.Registry { return app.registry }

func (app *Application) Logger() *slog.Logger { return app.logger }

// Verifier returns a verifier for tokens this application signs. Remote
// signers hold no verification key, so verifying their tokens fails with
// jwtx.ErrNoKey.
func (app *Application) Verifier() (jwtx.Verifier, error) {
	signer, err := app.signerOnce()
	if err != nil {
		return nil, err
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	var audience string
	if len(app.cfg.Audience) > 0 {
		audience = app.cfg.Audience[0]
	}
	return jwtx.NewVerifier(keys, jwtx.VerifyOptions{Issuer: app.cfg.Issuer, Audience: audience}), nil
}
