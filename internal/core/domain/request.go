package domain

import (
	"io"
	"net/http"
	"net/url"
	"time"
)

// RequestKind tells the session client how to treat an unauthorized response.
type RequestKind int

const (
	// RequestData is an ordinary API call, eligible for refresh-and-retry.
	RequestData RequestKind = iota
	// RequestRefresh is the token refresh call. It is never retried.
	RequestRefresh
	// RequestIdentity is the "who am I" check. A 401 means not signed in.
	RequestIdentity
)

// String returns the kind name.
func (k RequestKind) String() string {
	switch k {
	case RequestRefresh:
		return "refresh"
	case RequestIdentity:
		return "identity"
	default:
		return "data"
	}
}

// Request describes an API call independently of any single attempt.
// It is never mutated while being sent, so it can be replayed.
type Request struct {
	Method string
	// Path is relative to the API base URL, e.g. "/workspace/stats".
	Path   string
	Query  url.Values
	Header http.Header
	// Body is JSON-encoded on every attempt. Nil sends no body.
	Body any
	Kind RequestKind
	// Timeout overrides the client default for each attempt.
	Timeout time.Duration
	// Stream leaves the response body open for the caller.
	Stream bool
}

// Response is a completed API response.
type Response struct {
	StatusCode int
	Header     http.Header
	// Body holds the full body for non-streaming requests.
	Body []byte
	// Stream is set for successful streaming requests; the caller must close it.
	Stream io.ReadCloser
}
