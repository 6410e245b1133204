// Package model defines shared types for the gateway.
package model

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Source is the provenance marker attached to every proxied response.
type Source string

const (
	SourceBackend  Source = "backend"
	SourceFallback Source = "fallback"
)

// ProxyRequest represents an inbound request to be forwarded to a backend.
// It is built from the echo request and discarded after the backend call.
type ProxyRequest struct {
	Ctx    context.Context
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   io.Reader
}

// BackendResponse is a fully read backend reply.
type BackendResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the backend answered with a 2xx status.
func (r *BackendResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Result is what the handler writes back to the caller.
// Exactly one of Raw and Payload is set: Raw for relayed backend bodies,
// Payload for fallback values that still need encoding.
type Result struct {
	StatusCode int
	Source     Source
	Raw        []byte
	Payload    any
}
