package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a sync is already running for the connection.
	ErrSyncInProgress = errors.New("sync in progress")

	// Session Errors.

	// ErrNotSignedIn indicates the identity check found no valid session.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrSessionExpired indicates the refresh failed and credentials were discarded.
	ErrSessionExpired = errors.New("session expired")

	// ErrUnauthorized indicates the server rejected the request after recovery was exhausted.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenRefreshFailed indicates the token refresh operation failed.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// Transport Errors.

	// ErrNetwork indicates no response was received from the server.
	ErrNetwork = errors.New("network error")

	// ErrTimeout indicates the request deadline was exceeded.
	ErrTimeout = errors.New("request timed out")

	// ErrServer indicates the server answered with a 5xx status.
	ErrServer = errors.New("server error")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
