// Command oversight is the Oversight command line client.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/oversight-cli/internal/adapters/driven/api"
	configfile "github.com/custodia-labs/oversight-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/oversight-cli/internal/adapters/driven/session"
	"github.com/custodia-labs/oversight-cli/internal/adapters/driven/storage/bolt"
	"github.com/custodia-labs/oversight-cli/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/oversight-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/oversight-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/oversight-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driven"
	"github.com/custodia-labs/oversight-cli/internal/core/services"
	"github.com/custodia-labs/oversight-cli/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, version, build)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// build wires the adapters into the services the commands use.
func build(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	logger.Section("Startup")
	configStore, err := openConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	if opts.APIURL != "" {
		settings.API.BaseURL = opts.APIURL
	}
	logger.Debug("API %s, credentials in %s", settings.API.BaseURL, settings.Session.Backend)

	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	store, history, err := openStores(settings, &closers)
	if err != nil {
		return nil, errors.Join(err, closeAll())
	}

	registry := prometheus.NewRegistry()
	metrics, err := session.NewMetrics(registry)
	if err != nil {
		return nil, errors.Join(err, closeAll())
	}

	client, err := session.New(session.Config{
		BaseURL:   settings.API.BaseURL,
		Timeout:   settings.API.Timeout,
		Metrics:   metrics,
		UserAgent: "oversight/" + version,
	}, store)
	if err != nil {
		return nil, errors.Join(err, closeAll())
	}

	// Another process signing in or out rewrites the credentials file.
	if fileStore, ok := store.(*file.CredentialStore); ok {
		watchCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := fileStore.Watch(watchCtx, client.Reload); err != nil {
				logger.Debug("Not watching credentials: %v", err)
			}
		}()
		closers = append(closers, func() error {
			cancel()
			<-done
			return nil
		})
	}

	apiClient := api.New(client, api.Config{
		LongTimeout: settings.API.LongTimeout,
		RateLimit:   api.RateLimitConfig{RequestsPerSecond: settings.API.RequestsPerSecond},
	})

	return &cli.Services{
		Session:     services.NewSessionService(apiClient, client),
		Workspace:   services.NewWorkspaceService(apiClient),
		Integration: services.NewIntegrationService(apiClient, history),
		Chat:        services.NewChatService(apiClient),
		Settings:    settingsService,
		TokenSource: client.TokenSource,
		Metrics:     registry,
		Close:       closeAll,
	}, nil
}

// openStores opens the credential store for the configured backend and
// the sync history store. Sync history lives in SQLite unless the session
// is memory-only.
func openStores(settings *domain.AppSettings, closers *[]func() error) (driven.CredentialStore, driven.SyncHistoryStore, error) {
	if settings.Session.Backend == domain.CredentialBackendMemory {
		return memory.NewCredentialStore(), memory.NewSyncHistoryStore(), nil
	}

	db, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	*closers = append(*closers, db.Close)

	switch settings.Session.Backend {
	case domain.CredentialBackendSQLite:
		return db.CredentialStore(), db.SyncHistoryStore(), nil
	case domain.CredentialBackendBolt:
		store, err := bolt.NewCredentialStore(settings.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening credential store: %w", err)
		}
		*closers = append(*closers, store.Close)
		return store, db.SyncHistoryStore(), nil
	default:
		store, err := file.NewCredentialStore(settings.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening credential store: %w", err)
		}
		return store, db.SyncHistoryStore(), nil
	}
}

// openConfig returns the file-backed config store, or an empty in-memory
// one when the file is to be ignored.
func openConfig(opts cli.Options) (driven.ConfigStore, error) {
	if opts.NoConfig {
		return memory.NewConfigStore(), nil
	}
	return configfile.NewConfigStore(opts.ConfigDir)
}
