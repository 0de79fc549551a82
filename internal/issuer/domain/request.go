package domain

// RequestContext is the part of an authorization request the issuance
// core reads. It is owned by the caller; generators never modify or keep
// it past the call.
type RequestContext struct {
	// Subject is the authenticated resource owner. Empty for grants
	// without a user, e.g. client credentials.
	Subject string

	// ClientID of the requesting client, if known.
	ClientID string

	// Scopes granted for this request, in request order.
	Scopes []string

	// Extensions carries arbitrary grant-specific values.
	Extensions map[string]any
}

// HasSubject reports whether the request is on behalf of a user.
func (r RequestContext) HasSubject() bool { return r.Subject != "" }
