package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driven"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driving"
)

// Ensure WorkspaceService implements the interface.
var _ driving.WorkspaceService = (*WorkspaceService)(nil)

const (
	// allAppsPageSize is the page size used when walking every app.
	allAppsPageSize = 100
	// maxAppPages bounds AllApps against a backend that never ends paging.
	maxAppPages = 1000
	// detailConcurrency bounds parallel app detail fetches.
	detailConcurrency = 4
)

// WorkspaceService browses the synced workspace.
type WorkspaceService struct {
	api driven.WorkspaceAPI
}

// NewWorkspaceService creates a new workspace service.
func NewWorkspaceService(api driven.WorkspaceAPI) *WorkspaceService {
	return &WorkspaceService{api: api}
}

// Stats returns the workspace summary counts.
func (s *WorkspaceService) Stats(ctx context.Context) (*domain.WorkspaceStats, error) {
	return s.api.Stats(ctx)
}

// Users lists workspace users.
func (s *WorkspaceService) Users(ctx context.Context, params domain.ListParams) (*domain.Page[domain.WorkspaceUser], error) {
	return s.api.Users(ctx, params)
}

// User returns a single user.
func (s *WorkspaceService) User(ctx context.Context, id int64) (*domain.UserDetail, error) {
	return s.api.User(ctx, id)
}

// Groups lists workspace groups.
func (s *WorkspaceService) Groups(ctx context.Context, params domain.ListParams) (*domain.Page[domain.WorkspaceGroup], error) {
	return s.api.Groups(ctx, params)
}

// Group returns a single group.
func (s *WorkspaceService) Group(ctx context.Context, id int64) (*domain.GroupDetail, error) {
	return s.api.Group(ctx, id)
}

// Apps lists discovered apps.
func (s *WorkspaceService) Apps(ctx context.Context, params domain.ListParams) (*domain.Page[domain.DiscoveredApp], error) {
	return s.api.Apps(ctx, params)
}

// App returns a single app.
func (s *WorkspaceService) App(ctx context.Context, id int64) (*domain.AppDetail, error) {
	return s.api.App(ctx, id)
}

// AppTimeline lists the events of an app.
func (s *WorkspaceService) AppTimeline(ctx context.Context, id int64, params domain.ListParams) (*domain.Page[domain.TimelineEvent], error) {
	return s.api.AppTimeline(ctx, id, params)
}

// Settings returns the workspace connection state.
func (s *WorkspaceService) Settings(ctx context.Context) (*domain.ConnectionSettings, error) {
	return s.api.ConnectionSettings(ctx)
}

// Disconnect removes the workspace connection.
func (s *WorkspaceService) Disconnect(ctx context.Context) error {
	return s.api.DisconnectWorkspace(ctx)
}

// AllApps walks every page of discovered apps.
func (s *WorkspaceService) AllApps(ctx context.Context, search string) ([]domain.DiscoveredApp, error) {
	var apps []domain.DiscoveredApp
	for page := 1; page <= maxAppPages; page++ {
		res, err := s.api.Apps(ctx, domain.ListParams{Page: page, PageSize: allAppsPageSize, Search: search})
		if err != nil {
			return nil, fmt.Errorf("list apps page %d: %w", page, err)
		}
		apps = append(apps, res.Items...)
		if !res.Pagination.HasNext() || len(res.Items) == 0 {
			break
		}
	}
	return apps, nil
}

// RiskSummary fetches every app's granted scopes and counts apps per risk level.
func (s *WorkspaceService) RiskSummary(ctx context.Context) (*domain.RiskSummary, error) {
	apps, err := s.AllApps(ctx, "")
	if err != nil {
		return nil, err
	}

	levels := make([]domain.RiskLevel, len(apps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)
	for i, app := range apps {
		g.Go(func() error {
			detail, err := s.api.App(gctx, app.ID)
			if err != nil {
				return fmt.Errorf("get app %d: %w", app.ID, err)
			}
			levels[i] = domain.AppRisk(detail.AllScopes)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &domain.RiskSummary{}
	for i, app := range apps {
		summary.Add(app.Name(), levels[i])
	}
	return summary, nil
}
