package domain

import "errors"

var (
	// ErrInvalidParameter reports malformed generator input such as a
	// non-positive length or an empty charset.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrConfiguration reports a role that cannot be resolved to a working
	// generator.
	ErrConfiguration = errors.New("configuration error")

	// ErrSigning reports missing or invalid key material, or a signing
	// backend that failed or timed out.
	ErrSigning = errors.New("signing error")

	// ErrSerialization reports a claim set that cannot be encoded.
	ErrSerialization = errors.New("serialization error")
)
