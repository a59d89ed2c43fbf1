package domain

import "time"

// CredentialPair is the access/refresh token pair held for the signed-in user.
//
// A pair is either fully present or absent: a nil *CredentialPair means no
// session. The refresh token may be empty when the backend keeps it in an
// HTTP-only cookie instead of returning it in the response body.
type CredentialPair struct {
	// AccessToken is the short-lived bearer token attached to API requests.
	AccessToken string `json:"access_token" toml:"access_token"`
	// RefreshToken is the long-lived token exchanged for a new pair.
	RefreshToken string `json:"refresh_token,omitempty" toml:"refresh_token,omitempty"`
	// TokenType is typically "bearer".
	TokenType string `json:"token_type,omitempty" toml:"token_type,omitempty"`
	// Expiry is when the access token expires. Zero when unknown.
	Expiry time.Time `json:"expiry,omitempty" toml:"expiry"`
}

// Validate reports whether the pair can be stored.
func (c *CredentialPair) Validate() error {
	if c == nil || c.AccessToken == "" {
		return ErrInvalidInput
	}
	return nil
}

// IsExpired returns true if the access token expiry is known and has passed.
func (c *CredentialPair) IsExpired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().After(c.Expiry)
}

// ExpiresWithin returns true if the access token expires within d.
func (c *CredentialPair) ExpiresWithin(d time.Duration) bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Until(c.Expiry) < d
}

// HasRefreshToken returns true if a refresh token is held locally.
func (c *CredentialPair) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// TokenResponse is the token payload returned by sign-in and refresh.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	// RefreshToken is empty when the backend did not rotate it.
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`
}

// SessionEventType identifies a session lifecycle event.
type SessionEventType string

const (
	// SessionRefreshed is emitted after a successful token refresh.
	SessionRefreshed SessionEventType = "session-refreshed"
	// SessionInvalidated is emitted when refresh failed and credentials were discarded.
	SessionInvalidated SessionEventType = "session-invalidated"
)

// SessionEvent is delivered to session subscribers.
type SessionEvent struct {
	Type SessionEventType
	// Reason carries the refresh failure for SessionInvalidated.
	Reason error
	At     time.Time
}
