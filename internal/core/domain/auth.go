package domain

import "time"

// Plan is the subscription plan of an organization.
type Plan struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	MaxUsers    *int   `json:"max_users"`
	MaxApps     *int   `json:"max_apps"`
}

// Role is the user's role inside their organization.
type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// Organization is the tenant the user belongs to.
type Organization struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Domain  string `json:"domain,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
	Status  string `json:"status"`
	Plan    Plan   `json:"plan"`
}

// User is the signed-in account as returned by the identity check.
type User struct {
	ID            int64        `json:"id"`
	Email         string       `json:"email"`
	FullName      string       `json:"full_name,omitempty"`
	AvatarURL     string       `json:"avatar_url,omitempty"`
	EmailVerified bool         `json:"email_verified"`
	Status        string       `json:"status"`
	LastLoginAt   *time.Time   `json:"last_login_at"`
	Role          Role         `json:"role"`
	Organization  Organization `json:"organization"`
}

// DisplayName returns the full name, falling back to the email.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// AuthURL is the provider authorization URL returned by the backend.
type AuthURL struct {
	AuthorizationURL string `json:"authorization_url"`
	// State is filled in for integration connects.
	State string `json:"state,omitempty"`
}

// AuthSuccess is returned when the OAuth callback completes sign-in.
type AuthSuccess struct {
	TokenResponse
	User      User `json:"user"`
	IsNewUser bool `json:"is_new_user"`
}
