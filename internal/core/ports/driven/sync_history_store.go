package driven

import (
	"context"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// SyncHistoryStore records sync runs triggered from this machine.
type SyncHistoryStore interface {
	// Record stores a sync run and returns its assigned ID.
	Record(ctx context.Context, record domain.SyncRecord) (int64, error)

	// List returns the most recent runs, newest first.
	// A connectionID of 0 returns runs for every connection.
	List(ctx context.Context, connectionID int64, limit int) ([]domain.SyncRecord, error)
}
