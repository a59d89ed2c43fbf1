package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driven"
)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "session.bolt"

var (
	sessionBucket = []byte("session")
	credentialKey = []byte("credentials")
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore persists the credential pair in a bbolt database.
type CredentialStore struct {
	db *bbolt.DB
}

// NewCredentialStore opens (creating if needed) the database in dataDir.
// If dataDir is empty, defaults to ~/.oversight.
func NewCredentialStore(dataDir string) (*CredentialStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".oversight")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(dataDir, DatabaseFile), 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session bucket: %w", err)
	}

	return &CredentialStore{db: db}, nil
}

// Close closes the underlying database and releases its file lock.
func (s *CredentialStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *CredentialStore) Path() string {
	return s.db.Path()
}

// Load returns the stored pair, or nil if none is stored.
func (s *CredentialStore) Load(_ context.Context) (*domain.CredentialPair, error) {
	var pair *domain.CredentialPair
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(sessionBucket).Get(credentialKey)
		if data == nil {
			return nil
		}
		pair = &domain.CredentialPair{}
		return json.Unmarshal(data, pair)
	})
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}
	return pair, nil
}

// Save replaces the stored pair.
func (s *CredentialStore) Save(_ context.Context, pair domain.CredentialPair) error {
	if err := pair.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("marshalling credentials: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionBucket).Put(credentialKey, data)
	})
}

// Clear removes the stored pair.
func (s *CredentialStore) Clear(_ context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete(credentialKey)
	})
}
