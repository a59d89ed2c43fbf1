package driving

import (
	"context"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// WorkspaceService browses the synced workspace.
type WorkspaceService interface {
	Stats(ctx context.Context) (*domain.WorkspaceStats, error)
	Users(ctx context.Context, params domain.ListParams) (*domain.Page[domain.WorkspaceUser], error)
	User(ctx context.Context, id int64) (*domain.UserDetail, error)
	Groups(ctx context.Context, params domain.ListParams) (*domain.Page[domain.WorkspaceGroup], error)
	Group(ctx context.Context, id int64) (*domain.GroupDetail, error)
	Apps(ctx context.Context, params domain.ListParams) (*domain.Page[domain.DiscoveredApp], error)
	App(ctx context.Context, id int64) (*domain.AppDetail, error)
	AppTimeline(ctx context.Context, id int64, params domain.ListParams) (*domain.Page[domain.TimelineEvent], error)
	Settings(ctx context.Context) (*domain.ConnectionSettings, error)
	Disconnect(ctx context.Context) error

	// AllApps walks every page of discovered apps matching search.
	AllApps(ctx context.Context, search string) ([]domain.DiscoveredApp, error)

	// RiskSummary classifies every discovered app by its granted scopes.
	RiskSummary(ctx context.Context) (*domain.RiskSummary, error)
}
