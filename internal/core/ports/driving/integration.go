package driving

import (
	"context"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// IntegrationService manages identity provider connections and sync runs.
type IntegrationService interface {
	// Connect starts a connection. An empty slug selects Google Workspace.
	Connect(ctx context.Context, providerSlug string) (*domain.AuthURL, error)
	List(ctx context.Context) ([]domain.Connection, error)
	Sync(ctx context.Context, connectionID int64, fullSync bool) (*domain.SyncResult, error)
	Disconnect(ctx context.Context, connectionID int64) error

	// History returns locally recorded sync runs, newest first.
	History(ctx context.Context, connectionID int64, limit int) ([]domain.SyncRecord, error)
}
