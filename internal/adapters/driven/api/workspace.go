package api

import (
	"context"
	"net/http"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// Workspace endpoints, relative to the API base URL.
const (
	pathWorkspaceStats      = "/workspace/stats"
	pathWorkspaceUsers      = "/workspace/users"
	pathWorkspaceUser       = "/workspace/users/%d"
	pathWorkspaceGroups     = "/workspace/groups"
	pathWorkspaceGroup      = "/workspace/groups/%d"
	pathWorkspaceApps       = "/workspace/apps"
	pathWorkspaceApp        = "/workspace/apps/%d"
	pathWorkspaceTimeline   = "/workspace/apps/%d/timeline"
	pathWorkspaceSettings   = "/workspace/settings"
	pathWorkspaceDisconnect = "/workspace/disconnect"
)

// Stats returns the workspace summary counts.
func (c *Client) Stats(ctx context.Context) (*domain.WorkspaceStats, error) {
	return fetch[domain.WorkspaceStats](ctx, c, &domain.Request{Method: http.MethodGet, Path: pathWorkspaceStats})
}

// Users lists workspace users.
func (c *Client) Users(ctx context.Context, params domain.ListParams) (*domain.Page[domain.WorkspaceUser], error) {
	return fetch[domain.Page[domain.WorkspaceUser]](ctx, c, &domain.Request{
		Method: http.MethodGet,
		Path:   pathWorkspaceUsers,
		Query:  listQuery(params),
	})
}

// User returns a user with their app authorizations.
func (c *Client) User(ctx context.Context, id int64) (*domain.UserDetail, error) {
	return fetch[domain.UserDetail](ctx, c, &domain.Request{Method: http.MethodGet, Path: idPath(pathWorkspaceUser, id)})
}

// Groups lists workspace groups.
func (c *Client) Groups(ctx context.Context, params domain.ListParams) (*domain.Page[domain.WorkspaceGroup], error) {
	return fetch[domain.Page[domain.WorkspaceGroup]](ctx, c, &domain.Request{
		Method: http.MethodGet,
		Path:   pathWorkspaceGroups,
		Query:  listQuery(params),
	})
}

// Group returns a group with its members.
func (c *Client) Group(ctx context.Context, id int64) (*domain.GroupDetail, error) {
	return fetch[domain.GroupDetail](ctx, c, &domain.Request{Method: http.MethodGet, Path: idPath(pathWorkspaceGroup, id)})
}

// Apps lists discovered third-party apps.
func (c *Client) Apps(ctx context.Context, params domain.ListParams) (*domain.Page[domain.DiscoveredApp], error) {
	return fetch[domain.Page[domain.DiscoveredApp]](ctx, c, &domain.Request{
		Method: http.MethodGet,
		Path:   pathWorkspaceApps,
		Query:  listQuery(params),
	})
}

// App returns an app with the users that authorized it.
func (c *Client) App(ctx context.Context, id int64) (*domain.AppDetail, error) {
	return fetch[domain.AppDetail](ctx, c, &domain.Request{Method: http.MethodGet, Path: idPath(pathWorkspaceApp, id)})
}

// AppTimeline lists the authorization events of an app.
func (c *Client) AppTimeline(ctx context.Context, id int64, params domain.ListParams) (*domain.Page[domain.TimelineEvent], error) {
	return fetch[domain.Page[domain.TimelineEvent]](ctx, c, &domain.Request{
		Method: http.MethodGet,
		Path:   idPath(pathWorkspaceTimeline, id),
		Query:  listQuery(params),
	})
}

// ConnectionSettings returns the workspace connection state.
func (c *Client) ConnectionSettings(ctx context.Context) (*domain.ConnectionSettings, error) {
	return fetch[domain.ConnectionSettings](ctx, c, &domain.Request{Method: http.MethodGet, Path: pathWorkspaceSettings})
}

// DisconnectWorkspace removes the workspace connection.
func (c *Client) DisconnectWorkspace(ctx context.Context) error {
	return c.exec(ctx, &domain.Request{Method: http.MethodPost, Path: pathWorkspaceDisconnect})
}
