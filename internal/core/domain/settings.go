package domain

import (
	"path/filepath"
	"time"
)

const unknownDescription = "Unknown"

// CredentialBackend selects where the credential pair is persisted.
type CredentialBackend string

// Available credential backends.
const (
	// CredentialBackendFile stores the pair in a 0600 TOML file.
	CredentialBackendFile CredentialBackend = "file"

	// CredentialBackendSQLite stores the pair in the local SQLite database.
	CredentialBackendSQLite CredentialBackend = "sqlite"

	// CredentialBackendBolt stores the pair in a bbolt database.
	CredentialBackendBolt CredentialBackend = "bolt"

	// CredentialBackendMemory keeps the pair for the lifetime of the process only.
	CredentialBackendMemory CredentialBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b CredentialBackend) IsValid() bool {
	switch b {
	case CredentialBackendFile, CredentialBackendSQLite, CredentialBackendBolt, CredentialBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b CredentialBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b CredentialBackend) Description() string {
	switch b {
	case CredentialBackendFile:
		return "File (credentials.toml)"
	case CredentialBackendSQLite:
		return "SQLite (oversight.db)"
	case CredentialBackendBolt:
		return "Bolt (session.bolt)"
	case CredentialBackendMemory:
		return "Memory (not persisted)"
	default:
		return unknownDescription
	}
}

// AllCredentialBackends returns every backend in display order.
func AllCredentialBackends() []CredentialBackend {
	return []CredentialBackend{
		CredentialBackendFile,
		CredentialBackendSQLite,
		CredentialBackendBolt,
		CredentialBackendMemory,
	}
}

// APISettings configures the remote API.
type APISettings struct {
	// BaseURL is the API root including the version prefix.
	BaseURL string `env:"API_BASE_URL"`
	// Timeout bounds each ordinary request attempt.
	Timeout time.Duration `env:"API_TIMEOUT"`
	// LongTimeout bounds slow operations such as sync.
	LongTimeout time.Duration `env:"API_LONG_TIMEOUT"`
	// RequestsPerSecond paces outgoing calls. Zero or less means the default rate.
	RequestsPerSecond float64 `env:"API_REQUESTS_PER_SECOND"`
}

// SessionSettings configures credential persistence.
type SessionSettings struct {
	Backend CredentialBackend `env:"SESSION_STORE"`
}

// AppSettings is the resolved application configuration.
type AppSettings struct {
	API     APISettings
	Session SessionSettings
	// DataDir holds credentials and local databases.
	DataDir string `env:"DATA_DIR"`
}

// DefaultAppSettings returns the built-in defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			BaseURL:           "http://localhost:8000/api/v1",
			Timeout:           10 * time.Second,
			LongTimeout:       30 * time.Second,
			RequestsPerSecond: 5,
		},
		Session: SessionSettings{
			Backend: CredentialBackendFile,
		},
	}
}

// DataPath joins name onto the data directory.
func (s AppSettings) DataPath(name string) string {
	return filepath.Join(s.DataDir, name)
}
