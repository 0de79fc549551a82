package jwtx

import "errors"

var (
	// ErrInvalidKey reports absent or malformed key material.
	ErrInvalidKey = errors.New("jwtx: invalid signing key")

	// ErrSigning reports that a signature could not be produced, including
	// remote backend failures and timeouts.
	ErrSigning = errors.New("jwtx: signing failed")

	// ErrSerialization reports claims that cannot be encoded as JSON.
	ErrSerialization = errors.New("jwtx: claims not serializable")

	// ErrUnsupportedAlg reports an algorithm this package cannot sign with.
	ErrUnsupportedAlg = errors.New("jwtx: unsupported algorithm")
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrUnknownKID   = errors.New("jwtx: unknown kid")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrMissingClaim = errors.New("jwtx: required claim missing")
)
