package session

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// TokenSource exposes the session's access token as an oauth2.TokenSource.
// Every call reads the live pair, so rotations and sign-outs are seen at once.
// When the known expiry is within the refresh buffer the token is refreshed
// first, through the same coalesced refresh used by Do.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, client: c}
}

type tokenSource struct {
	ctx    context.Context
	client *Client
}

// Token implements oauth2.TokenSource.
func (s *tokenSource) Token() (*oauth2.Token, error) {
	pair := s.client.current(s.ctx)
	if pair == nil {
		return nil, &domain.Failure{Kind: domain.FailureNotSignedIn, Message: domain.MessageNotSignedIn}
	}

	if pair.ExpiresWithin(refreshBuffer) && pair.HasRefreshToken() {
		if err := s.client.refresh(s.ctx, pair.AccessToken); err != nil {
			return nil, err
		}
		if pair = s.client.current(s.ctx); pair == nil {
			return nil, sessionExpired(errCredentialsCleared)
		}
	}

	tokenType := pair.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    tokenType,
		Expiry:       pair.Expiry,
	}, nil
}
