package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aussiebroadwan/mint/internal/issuer/app"
	"github.com/aussiebroadwan/mint/internal/issuer/domain"
	"github.com/aussiebroadwan/mint/pkg/cryptox"
	"github.com/aussiebroadwan/mint/pkg/idx"
	"github.com/aussiebroadwan/mint/pkg/slogx"
)

var errUsage = errors.New("usage")

const usage = `usage: mint <command> [flags]

commands:
  client-id       generate client ids
  client-secret   generate client secrets (-hash prints an argon2id hash too)
  access-token    issue access tokens
  refresh-token   issue refresh tokens
  verify          verify a signed token and print its claims
  keygen          generate a PEM signing key (-alg RS256|ES256|EdDSA)

Configuration is read from AUTH_* environment variables.`

func exitCode(err error) int {
	if errors.Is(err, errUsage) {
		return 2
	}
	return 1
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)
		return errUsage
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "client-id", "client-secret":
		return runCredential(ctx, cmd, args, stdout, stderr)
	case "access-token", "refresh-token":
		return runToken(ctx, cmd, args, stdout, stderr)
	case "verify":
		return runVerify(ctx, args, stdout, stderr)
	case "keygen":
		return runKeygen(args, stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprintln(stdout, usage)
		return nil
	default:
		fmt.Fprintln(stderr, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errUsage
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	return nil
}

// newApp loads config from the environment and tags logs with a run id.
// Logs always go to stderr so stdout carries only results.
func newApp(ctx context.Context, stderr io.Writer) (*app.Application, context.Context, error) {
	application, err := app.New(app.LoadConfig(), app.WithLogOutput(stderr))
	if err != nil {
		return nil, ctx, err
	}
	ctx = slogx.WithContext(ctx, application.Logger())
	return application, slogx.WithRunID(ctx, idx.New().String()), nil
}

func runCredential(ctx context.Context, cmd string, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet(cmd, stderr)
	count := fs.Int("n", 1, "number of values to generate")
	hash := false
	if cmd == "client-secret" {
		fs.BoolVar(&hash, "hash", false, "also print the argon2id hash to store")
	}
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *count < 1 {
		return fmt.Errorf("%w: -n must be at least 1", errUsage)
	}

	application, ctx, err := newApp(ctx, stderr)
	if err != nil {
		return err
	}
	registry := application.Registry()

	for range *count {
		var value string
		if cmd == "client-id" {
			value, err = registry.GenerateClientID()
		} else {
			value, err = registry.GenerateClientSecret()
		}
		if err != nil {
			return err
		}

		if !hash {
			fmt.Fprintln(stdout, value)
			continue
		}
		encoded, err := cryptox.HashSecret(value)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s\t%s\n", value, encoded)
	}

	slogx.FromContext(ctx).Debug("credentials generated", "kind", cmd, "count", *count)
	return nil
}

func runToken(ctx context.Context, cmd string, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet(cmd, stderr)
	count := fs.Int("n", 1, "number of tokens to issue")
	subject := fs.String("sub", "", "resource owner the token is issued for")
	clientID := fs.String("client", "", "client the token is issued to")
	scope := fs.String("scope", "", "space or comma separated scopes")
	claims := claimFlag{}
	fs.Var(claims, "claim", "extra claim as key=value, repeatable; JSON values are decoded")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *count < 1 {
		return fmt.Errorf("%w: -n must be at least 1", errUsage)
	}

	application, ctx, err := newApp(ctx, stderr)
	if err != nil {
		return err
	}

	req := domain.RequestContext{
		Subject:  *subject,
		ClientID: *clientID,
		Scopes:   splitScopes(*scope),
	}

	generate := application.Registry().GenerateAccessToken
	if cmd == "refresh-token" {
		generate = application.Registry().GenerateRefreshToken
	}

	for range *count {
		token, err := generate(ctx, req, claims.extra())
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, token)
	}
	return nil
}

func runVerify(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("verify", stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: verify takes exactly one token", errUsage)
	}

	application, _, err := newApp(ctx, stderr)
	if err != nil {
		return err
	}
	verifier, err := application.Verifier()
	if err != nil {
		return err
	}

	claims, err := verifier.Verify(fs.Arg(0))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(claims)
}

func runKeygen(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("keygen", stderr)
	alg := fs.String("alg", "EdDSA", "key algorithm: RS256, ES256 or EdDSA")
	bits := fs.Int("bits", cryptox.DefaultRSABits, "RSA key size")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	pemKey, err := cryptox.GenerateSigningKey(*alg, *bits)
	if err != nil {
		return err
	}
	_, err = stdout.Write(pemKey)
	return err
}

func splitScopes(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
}

// claimFlag collects -claim key=value pairs.
type claimFlag map[string]any

func (c claimFlag) String() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

func (c claimFlag) Set(v string) error {
	key, raw, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", v)
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}
	c[key] = value
	return nil
}

func (c claimFlag) extra() map[string]any {
	if len(c) == 0 {
		return nil
	}
	return c
}
