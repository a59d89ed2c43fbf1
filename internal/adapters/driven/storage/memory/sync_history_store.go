package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driven"
)

// Ensure SyncHistoryStore implements the interface.
var _ driven.SyncHistoryStore = (*SyncHistoryStore)(nil)

// SyncHistoryStore is an in-memory implementation of driven.SyncHistoryStore.
type SyncHistoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	records []domain.SyncRecord
}

// NewSyncHistoryStore creates an empty history store.
func NewSyncHistoryStore() *SyncHistoryStore {
	return &SyncHistoryStore{}
}

// Record stores a sync run.
func (s *SyncHistoryStore) Record(_ context.Context, record domain.SyncRecord) (int64, error) {
	if record.ConnectionID <= 0 || record.Status == "" {
		return 0, domain.ErrInvalidInput
	}
	if record.RequestedAt.IsZero() {
		record.RequestedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	record.ID = s.nextID
	s.records = append(s.records, record)
	return record.ID, nil
}

// List returns the most recent runs, newest first.
func (s *SyncHistoryStore) List(_ context.Context, connectionID int64, limit int) ([]domain.SyncRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SyncRecord, 0, len(s.records))
	for _, r := range s.records {
		if connectionID == 0 || r.ConnectionID == connectionID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].RequestedAt.After(out[j].RequestedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
