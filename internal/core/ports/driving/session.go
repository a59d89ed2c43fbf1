package driving

import (
	"context"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// LoginRequest is the start of a browser sign-in.
type LoginRequest struct {
	// AuthorizationURL is where the user must be sent.
	AuthorizationURL string
	// State is the opaque value the callback must echo back.
	State string
}

// SessionService manages the signed-in user.
type SessionService interface {
	// Bootstrap runs the identity check. A missing session is not an error:
	// it returns nil, nil.
	Bootstrap(ctx context.Context) (*domain.User, error)

	// BeginLogin asks the backend for a provider authorization URL.
	BeginLogin(ctx context.Context, redirectURI string) (*LoginRequest, error)

	// CompleteLogin exchanges the callback code for a session.
	CompleteLogin(ctx context.Context, code, state string) (*domain.User, error)

	// Logout ends the session locally and, best effort, on the server.
	Logout(ctx context.Context) error

	// CurrentUser returns the user loaded by Bootstrap or CompleteLogin.
	CurrentUser() *domain.User

	// IsAuthenticated returns true if a user is signed in.
	IsAuthenticated() bool

	// OnSignedOut registers fn to run when the session is invalidated.
	OnSignedOut(fn func(reason error))
}
