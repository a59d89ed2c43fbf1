package services

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driven"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvPrefix prefixes every environment variable that overrides a setting.
const EnvPrefix = "OVERSIGHT_"

// Config keys for settings storage.
const (
	keyAPIBaseURL     = "api.base_url"
	keyAPITimeout     = "api.timeout"
	keyAPILongTimeout = "api.long_timeout"
	keyAPIRate        = "api.requests_per_second"
	keySessionStore   = "session.store"
	keyDataDir        = "data_dir"
)

var settingKeys = []string{
	keyAPIBaseURL,
	keyAPITimeout,
	keyAPILongTimeout,
	keyAPIRate,
	keySessionStore,
	keyDataDir,
}

// SettingsService resolves settings from defaults, the config file and the
// environment, in that order.
type SettingsService struct {
	configStore driven.ConfigStore
	environ     map[string]string
}

// NewSettingsService creates a new settings service reading the process
// environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// WithEnvironment replaces the process environment, for tests.
func (s *SettingsService) WithEnvironment(environ map[string]string) *SettingsService {
	s.environ = environ
	return s
}

// Get resolves the current settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		API: domain.APISettings{
			BaseURL:           s.getString(keyAPIBaseURL, defaults.API.BaseURL),
			Timeout:           s.getDuration(keyAPITimeout, defaults.API.Timeout),
			LongTimeout:       s.getDuration(keyAPILongTimeout, defaults.API.LongTimeout),
			RequestsPerSecond: s.getFloat(keyAPIRate, defaults.API.RequestsPerSecond),
		},
		Session: domain.SessionSettings{
			Backend: s.getBackend(defaults.Session.Backend),
		},
		DataDir: s.getString(keyDataDir, s.defaultDataDir()),
	}

	opts := env.Options{Prefix: EnvPrefix}
	if s.environ != nil {
		opts.Environment = s.environ
	}
	if err := env.ParseWithOptions(settings, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if !settings.Session.Backend.IsValid() {
		return nil, fmt.Errorf("invalid session store %q: %w", settings.Session.Backend, domain.ErrInvalidInput)
	}

	return settings, nil
}

// Set validates and persists a single setting.
func (s *SettingsService) Set(key, value string) error {
	switch key {
	case keyAPIBaseURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid URL %q: %w", value, domain.ErrInvalidInput)
		}
		return s.save(key, value)
	case keyAPITimeout, keyAPILongTimeout:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid duration %q: %w", value, domain.ErrInvalidInput)
		}
		return s.save(key, d.String())
	case keyAPIRate:
		rps, err := strconv.ParseFloat(value, 64)
		if err != nil || rps <= 0 {
			return fmt.Errorf("invalid rate %q: %w", value, domain.ErrInvalidInput)
		}
		return s.save(key, rps)
	case keySessionStore:
		backend := domain.CredentialBackend(value)
		if !backend.IsValid() {
			return fmt.Errorf("invalid session store %q: %w", value, domain.ErrInvalidInput)
		}
		return s.save(key, backend.String())
	case keyDataDir:
		if value == "" {
			return fmt.Errorf("data directory is required: %w", domain.ErrInvalidInput)
		}
		return s.save(key, value)
	default:
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
}

// Unset restores the default for key.
func (s *SettingsService) Unset(key string) error {
	if !isSettingKey(key) {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	return nil
}

// Keys returns the settable keys.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	defaults := domain.DefaultAppSettings()
	defaults.DataDir = s.defaultDataDir()
	return defaults
}

func (s *SettingsService) save(key string, value any) error {
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// defaultDataDir is the directory holding the config file.
func (s *SettingsService) defaultDataDir() string {
	if path := s.configStore.Path(); filepath.IsAbs(path) {
		return filepath.Dir(path)
	}
	return ""
}

func isSettingKey(key string) bool {
	for _, k := range settingKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if secs := s.configStore.GetInt(key); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(s.configStore.GetString(key))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getBackend(defaultVal domain.CredentialBackend) domain.CredentialBackend {
	backend := domain.CredentialBackend(s.configStore.GetString(keySessionStore))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
