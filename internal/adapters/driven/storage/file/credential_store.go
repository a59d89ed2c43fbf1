package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driven"
	"github.com/custodia-labs/oversight-cli/internal/logger"
)

// CredentialsFile is the file name inside the data directory.
const CredentialsFile = "credentials.toml"

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// credentialsDocument is the on-disk layout.
type credentialsDocument struct {
	Session *domain.CredentialPair `toml:"session,omitempty"`
}

// CredentialStore keeps the credential pair in a TOML file.
type CredentialStore struct {
	mu       sync.Mutex
	filePath string
}

// NewCredentialStore creates a store in dataDir.
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
	return &CredentialStore{filePath: filepath.Join(dataDir, CredentialsFile)}, nil
}

// Path returns the credentials file path.
func (s *CredentialStore) Path() string {
	return s.filePath
}

// Load returns the stored pair, or nil if the file is missing or empty.
func (s *CredentialStore) Load(_ context.Context) (*domain.CredentialPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var doc credentialsDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.filePath, err)
	}
	if doc.Session == nil || doc.Session.AccessToken == "" {
		return nil, nil
	}
	return doc.Session, nil
}

// Save replaces the stored pair.
func (s *CredentialStore) Save(_ context.Context, pair domain.CredentialPair) error {
	if err := pair.Validate(); err != nil {
		return err
	}

	data, err := toml.Marshal(credentialsDocument{Session: &pair})
	if err != nil {
		return fmt.Errorf("marshalling credentials: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(data)
}

// Clear removes the credentials file.
func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing credentials: %w", err)
	}
	return nil
}

// write replaces the file via a temp file and rename (caller must hold lock).
func (s *CredentialStore) write(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), ".credentials-*.toml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("restricting credentials permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.filePath); err != nil {
		return fmt.Errorf("replacing credentials: %w", err)
	}
	return nil
}

// Watch calls onChange whenever the credentials file is created, written,
// replaced or removed. It blocks until ctx is cancelled.
//
// The directory is watched rather than the file so that atomic replaces
// and deletions keep being observed.
func (s *CredentialStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.filePath), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != CredentialsFile {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("credentials file changed: %s", event.Op)
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("credentials watcher: %v", err)
		}
	}
}
