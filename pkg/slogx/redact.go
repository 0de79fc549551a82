package slogx

import (
	"log/slog"
	"strings"
)

// RedactedValue replaces sensitive attribute values.
const RedactedValue = "[REDACTED]"

// SensitiveKeys are attribute keys whose values are never written when
// redaction is enabled. Matching is case-insensitive and applies inside
// groups as well.
var SensitiveKeys = map[string]struct{}{
	"ref":           {},
	"jti":           {},
	"scope":         {},
	"scopes":        {},
	"sub":           {},
	"subject":       {},
	"claims":        {},
	"token":         {},
	"access_token":  {},
	"refresh_token": {},
	"client_secret": {},
	"secret":        {},
}

// IsSensitive reports whether an attribute key is in SensitiveKeys.
func IsSensitive(key string) bool {
	_, ok := SensitiveKeys[strings.ToLower(key)]
	return ok
}

// RedactAttr is a slog.HandlerOptions.ReplaceAttr func that masks
// sensitive attributes.
func RedactAttr(_ []string, a slog.Attr) slog.Attr {
	if IsSensitive(a.Key) {
		return slog.String(a.Key, RedactedValue)
	}
	return a
}
