package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// TokenSource supplies the current bearer credential, "" when signed out.
type TokenSource interface {
	Token() string
}

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// BearerTransport attaches the stored credential and a request id to every
// outgoing call.
type BearerTransport struct {
	Base   http.RoundTripper
	Tokens TokenSource
}

// RoundTrip implements http.RoundTripper.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	if t.Tokens != nil {
		if token := t.Tokens.Token(); token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if r.Header.Get(RequestIDHeader) == "" {
		r.Header.Set(RequestIDHeader, uuid.New().String())
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(r)
}
