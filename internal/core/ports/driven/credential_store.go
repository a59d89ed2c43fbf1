package driven

import (
	"context"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// CredentialStore persists the credential pair of the signed-in user.
// There is at most one pair per store.
type CredentialStore interface {
	// Load returns the stored pair.
	// Returns nil with no error if no pair is stored.
	Load(ctx context.Context) (*domain.CredentialPair, error)

	// Save replaces the stored pair. The pair must be valid.
	Save(ctx context.Context, pair domain.CredentialPair) error

	// Clear removes the stored pair. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
