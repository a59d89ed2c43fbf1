// Package session implements the authenticated API client.
//
// The Client owns the access/refresh token lifecycle. It attaches the bearer
// credential to every request, and when a request is rejected with 401 it
// refreshes the pair once and replays the request once. Concurrent requests
// that fail with the same stale token share a single refresh.
//
// When the refresh itself fails the pair is discarded and subscribers receive
// a domain.SessionInvalidated event; the caller gets a failure of kind
// domain.FailureSessionExpired. A 401 on the identity check means "not signed
// in" and never triggers a refresh.
package session
