package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore keeps the credential pair in memory. Nothing survives
// the process.
type CredentialStore struct {
	mu   sync.RWMutex
	pair *domain.CredentialPair
}

// NewCredentialStore creates an empty in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// Load returns a copy of the stored pair, or nil.
func (s *CredentialStore) Load(_ context.Context) (*domain.CredentialPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pair == nil {
		return nil, nil
	}
	cp := *s.pair
	return &cp, nil
}

// Save replaces the stored pair.
func (s *CredentialStore) Save(_ context.Context, pair domain.CredentialPair) error {
	if err := pair.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = &pair
	return nil
}

// Clear removes the stored pair.
func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = nil
	return nil
}
