package mcp

import (
	"context"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// mockWorkspaceService is a mock implementation of driving.WorkspaceService.
type mockWorkspaceService struct {
	stats   *domain.WorkspaceStats
	apps    *domain.Page[domain.DiscoveredApp]
	app     *domain.AppDetail
	summary *domain.RiskSummary
	err     error

	lastParams domain.ListParams
	lastAppID  int64
}

func (m *mockWorkspaceService) Stats(_ context.Context) (*domain.WorkspaceStats, error) {
	return m.stats, m.err
}

func (m *mockWorkspaceService) Users(_ context.Context, _ domain.ListParams) (*domain.Page[domain.WorkspaceUser], error) {
	return &domain.Page[domain.WorkspaceUser]{}, m.err
}

func (m *mockWorkspaceService) User(_ context.Context, _ int64) (*domain.UserDetail, error) {
	return nil, m.err
}

func (m *mockWorkspaceService) Groups(_ context.Context, _ domain.ListParams) (*domain.Page[domain.WorkspaceGroup], error) {
	return &domain.Page[domain.WorkspaceGroup]{}, m.err
}

func (m *mockWorkspaceService) Group(_ context.Context, _ int64) (*domain.GroupDetail, error) {
	return nil, m.err
}

func (m *mockWorkspaceService) Apps(_ context.Context, params domain.ListParams) (*domain.Page[domain.DiscoveredApp], error) {
	m.lastParams = params
	return m.apps, m.err
}

func (m *mockWorkspaceService) App(_ context.Context, id int64) (*domain.AppDetail, error) {
	m.lastAppID = id
	return m.app, m.err
}

func (m *mockWorkspaceService) AppTimeline(
	_ context.Context, _ int64, _ domain.ListParams,
) (*domain.Page[domain.TimelineEvent], error) {
	return &domain.Page[domain.TimelineEvent]{}, m.err
}

func (m *mockWorkspaceService) Settings(_ context.Context) (*domain.ConnectionSettings, error) {
	return &domain.ConnectionSettings{}, m.err
}

func (m *mockWorkspaceService) Disconnect(_ context.Context) error {
	return m.err
}

func (m *mockWorkspaceService) AllApps(_ context.Context, _ string) ([]domain.DiscoveredApp, error) {
	if m.apps == nil {
		return nil, m.err
	}
	return m.apps.Items, m.err
}

func (m *mockWorkspaceService) RiskSummary(_ context.Context) (*domain.RiskSummary, error) {
	return m.summary, m.err
}

// mockIntegrationService is a mock implementation of driving.IntegrationService.
type mockIntegrationService struct {
	connections []domain.Connection
	err         error
}

func (m *mockIntegrationService) Connect(_ context.Context, _ string) (*domain.AuthURL, error) {
	return &domain.AuthURL{}, m.err
}

func (m *mockIntegrationService) List(_ context.Context) ([]domain.Connection, error) {
	return m.connections, m.err
}

func (m *mockIntegrationService) Sync(_ context.Context, _ int64, _ bool) (*domain.SyncResult, error) {
	return &domain.SyncResult{}, m.err
}

func (m *mockIntegrationService) Disconnect(_ context.Context, _ int64) error {
	return m.err
}

func (m *mockIntegrationService) History(_ context.Context, _ int64, _ int) ([]domain.SyncRecord, error) {
	return nil, m.err
}
