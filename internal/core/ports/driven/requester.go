package driven

import (
	"context"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// Requester sends API requests. The session client implements it, attaching
// credentials and recovering from expired access tokens.
type Requester interface {
	// Do sends the request. Error responses are returned as *domain.Failure.
	Do(ctx context.Context, req *domain.Request) (*domain.Response, error)
}

// Session holds the credential pair used by the Requester.
type Session interface {
	// Credentials returns the current pair, or nil when signed out.
	Credentials(ctx context.Context) (*domain.CredentialPair, error)

	// SetCredentials stores a new pair.
	SetCredentials(ctx context.Context, accessToken, refreshToken string) error

	// StoreTokens stores a token response, including its expiry.
	StoreTokens(ctx context.Context, tokens domain.TokenResponse) error

	// ClearCredentials discards the pair.
	ClearCredentials(ctx context.Context) error

	// Subscribe registers fn for session lifecycle events.
	Subscribe(fn func(domain.SessionEvent))
}
