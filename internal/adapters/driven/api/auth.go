package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// Auth endpoints, relative to the API base URL.
const (
	pathAuthGoogle         = "/auth/google"
	pathAuthGoogleCallback = "/auth/google/callback"
	pathAuthRefresh        = "/auth/refresh"
	pathAuthMe             = "/auth/me"
	pathAuthLogout         = "/auth/logout"
)

type refreshTokenBody struct {
	RefreshToken string `json:"refresh_token"`
}

// GoogleAuthURL returns the Google authorization URL for redirectURI.
func (c *Client) GoogleAuthURL(ctx context.Context, redirectURI string) (*domain.AuthURL, error) {
	return fetch[domain.AuthURL](domain.WithAuthSurface(ctx), c, &domain.Request{
		Method: http.MethodGet,
		Path:   pathAuthGoogle,
		Query:  url.Values{"redirect_uri": {redirectURI}},
	})
}

// OAuthCallback exchanges the Google authorization code for a session.
func (c *Client) OAuthCallback(ctx context.Context, code, state string) (*domain.AuthSuccess, error) {
	return fetch[domain.AuthSuccess](domain.WithAuthSurface(ctx), c, &domain.Request{
		Method: http.MethodGet,
		Path:   pathAuthGoogleCallback,
		Query:  url.Values{"code": {code}, "state": {state}},
	})
}

// Refresh exchanges refreshToken for a new pair. It bypasses refresh-and-retry.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.TokenResponse, error) {
	return fetch[domain.TokenResponse](ctx, c, &domain.Request{
		Method: http.MethodPost,
		Path:   pathAuthRefresh,
		Body:   refreshTokenBody{RefreshToken: refreshToken},
		Kind:   domain.RequestRefresh,
	})
}

// Me returns the signed-in user. A 401 yields domain.ErrNotSignedIn.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	return fetch[domain.User](ctx, c, &domain.Request{
		Method: http.MethodGet,
		Path:   pathAuthMe,
		Kind:   domain.RequestIdentity,
	})
}

// Logout revokes refreshToken on the server. An expired access token is
// not refreshed first.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.exec(domain.WithAuthSurface(ctx), &domain.Request{
		Method: http.MethodPost,
		Path:   pathAuthLogout,
		Body:   refreshTokenBody{RefreshToken: refreshToken},
	})
}
