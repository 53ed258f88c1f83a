package core

import (
	"context"
	"net/http"
	"net/url"
)

// Exchange is the request-scoped collaborator handed to a handler at
// initialization. Hooks read credentials from Request and write challenges
// to Response; the core itself never touches either.
type Exchange interface {
	Context() context.Context
	Request() *http.Request
	Response() Response
}

// Response is the response metadata a scheme can manipulate.
type Response interface {
	Header() http.Header
	WriteHeader(statusCode int)
	Write(b []byte) (int, error)

	// StatusCode returns the status written so far, or 0.
	StatusCode() int

	// HasStarted reports whether headers have been sent.
	HasStarted() bool

	// OnStarting registers a callback run just before headers are sent.
	OnStarting(fn func() error)

	// OnCompleted registers a callback run after the response is finished.
	OnCompleted(fn func() error)
}

// Encoder escapes values that schemes embed in URLs (return paths, redirect targets).
type Encoder interface {
	Encode(s string) string
}

// URLEncoder is the default Encoder, backed by url.QueryEscape.
type URLEncoder struct{}

// Encode implements Encoder.
func (URLEncoder) Encode(s string) string { return url.QueryEscape(s) }
