package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driven"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driving"
	"github.com/custodia-labs/oversight-cli/internal/logger"
)

// Ensure IntegrationService implements the interface.
var _ driving.IntegrationService = (*IntegrationService)(nil)

// Sync statuses recorded locally.
const (
	syncStatusFailed = "failed"
)

// defaultHistoryLimit is used when History is called with a non-positive limit.
const defaultHistoryLimit = 20

// IntegrationService manages provider connections and records sync runs.
type IntegrationService struct {
	api     driven.IntegrationAPI
	history driven.SyncHistoryStore
	now     func() time.Time
}

// NewIntegrationService creates a new integration service.
// history may be nil, in which case sync runs are not recorded.
func NewIntegrationService(api driven.IntegrationAPI, history driven.SyncHistoryStore) *IntegrationService {
	return &IntegrationService{
		api:     api,
		history: history,
		now:     time.Now,
	}
}

// Connect starts connecting an identity provider.
func (s *IntegrationService) Connect(ctx context.Context, providerSlug string) (*domain.AuthURL, error) {
	if providerSlug == "" {
		providerSlug = domain.DefaultIdentityProvider
	}
	return s.api.Connect(ctx, providerSlug)
}

// List returns the organization's connections.
func (s *IntegrationService) List(ctx context.Context) ([]domain.Connection, error) {
	return s.api.Connections(ctx)
}

// Sync runs a sync for connectionID and records the outcome.
func (s *IntegrationService) Sync(ctx context.Context, connectionID int64, fullSync bool) (*domain.SyncResult, error) {
	if connectionID <= 0 {
		return nil, fmt.Errorf("connection id must be positive: %w", domain.ErrInvalidInput)
	}

	record := domain.SyncRecord{
		ConnectionID: connectionID,
		FullSync:     fullSync,
		RequestedAt:  s.now(),
	}

	logger.Info("Starting sync for connection %d", connectionID)
	result, err := s.api.Sync(ctx, connectionID, fullSync)
	if err != nil {
		record.Status = syncStatusFailed
		record.Error = domain.UserMessage(err)
		s.record(ctx, record)
		return nil, err
	}

	record.Status = result.Status
	record.Stats = result.Stats
	record.StartedAt = result.StartedAt
	record.CompletedAt = result.CompletedAt
	s.record(ctx, record)

	logger.Info("Sync complete: %d users, %d apps", result.Stats.UsersSynced, result.Stats.AppsDiscovered)
	return result, nil
}

// Disconnect removes a provider connection.
func (s *IntegrationService) Disconnect(ctx context.Context, connectionID int64) error {
	if connectionID <= 0 {
		return fmt.Errorf("connection id must be positive: %w", domain.ErrInvalidInput)
	}
	return s.api.Disconnect(ctx, connectionID)
}

// History returns locally recorded sync runs, newest first.
func (s *IntegrationService) History(ctx context.Context, connectionID int64, limit int) ([]domain.SyncRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.history.List(ctx, connectionID, limit)
}

// record stores a sync run. Failing to record never fails the sync.
func (s *IntegrationService) record(ctx context.Context, record domain.SyncRecord) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Record(ctx, record); err != nil {
		logger.Warn("Failed to record sync history: %v", err)
	}
}
