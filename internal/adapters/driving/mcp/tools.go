package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

const defaultPageSize = 20

// StatsInput is the input schema for the workspace_stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the workspace_stats tool.
type StatsOutput struct {
	TotalUsers           int    `json:"total_users"`
	TotalGroups          int    `json:"total_groups"`
	TotalApps            int    `json:"total_apps"`
	ActiveAuthorizations int    `json:"active_authorizations"`
	LastSyncAt           string `json:"last_sync_at,omitempty"`
}

// ListAppsInput is the input schema for the list_apps tool.
type ListAppsInput struct {
	Search   string `json:"search,omitempty" jsonschema:"filter apps by name or client ID"`
	Page     int    `json:"page,omitempty" jsonschema:"page number starting at 1"`
	PageSize int    `json:"page_size,omitempty" jsonschema:"apps per page (default 20)"`
}

// ListAppsOutput is the output schema for the list_apps tool.
type ListAppsOutput struct {
	Apps       []AppOutput `json:"apps"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
	TotalItems int         `json:"total_items"`
}

// AppOutput is a single discovered app.
type AppOutput struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	ClientID        string `json:"client_id"`
	Status          string `json:"status"`
	ScopesCount     int    `json:"scopes_count"`
	AuthorizedUsers int    `json:"authorized_users"`
}

// AppDetailInput is the input schema for the app_detail tool.
type AppDetailInput struct {
	AppID int64 `json:"app_id" jsonschema:"the discovered app ID"`
}

// AppDetailOutput is the output schema for the app_detail tool.
type AppDetailOutput struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	ClientID  string       `json:"client_id"`
	Status    string       `json:"status"`
	Risk      string       `json:"risk"`
	Scopes    []ScopeInfo  `json:"scopes"`
	UserCount int          `json:"user_count"`
	Users     []UserAccess `json:"users"`
}

// ScopeInfo describes one granted scope.
type ScopeInfo struct {
	Scope    string `json:"scope"`
	Name     string `json:"name"`
	HighRisk bool   `json:"high_risk"`
}

// UserAccess is one user who authorized the app.
type UserAccess struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

// RiskSummaryInput is the input schema for the risk_summary tool.
type RiskSummaryInput struct{}

// ConnectionsInput is the input schema for the list_connections tool.
type ConnectionsInput struct{}

// ConnectionsOutput is the output schema for the list_connections tool.
type ConnectionsOutput struct {
	Connections []ConnectionOutput `json:"connections"`
}

// ConnectionOutput is one identity provider connection.
type ConnectionOutput struct {
	ID             int64  `json:"id"`
	Provider       string `json:"provider"`
	Status         string `json:"status"`
	Domain         string `json:"domain,omitempty"`
	LastSyncStatus string `json:"last_sync_status,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "workspace_stats",
		Description: "Totals for users, groups, discovered apps and active authorizations",
	}, s.handleStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_apps",
		Description: "List third-party OAuth apps discovered in the workspace",
	}, s.handleListApps)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "app_detail",
		Description: "Scopes, risk level and authorized users of a discovered app",
	}, s.handleAppDetail)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "risk_summary",
		Description: "Count discovered apps by risk level and name the high risk ones",
	}, s.handleRiskSummary)

	if s.ports.Integration != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_connections",
			Description: "List identity provider connections and their last sync status",
		}, s.handleConnections)
	}
}

func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.ports.Workspace.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, toolError("getting workspace stats", err)
	}
	return nil, statsOutput(stats), nil
}

func (s *Server) handleListApps(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListAppsInput,
) (*mcp.CallToolResult, ListAppsOutput, error) {
	params := domain.ListParams{Page: input.Page, PageSize: input.PageSize, Search: input.Search}
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = defaultPageSize
	}

	page, err := s.ports.Workspace.Apps(ctx, params)
	if err != nil {
		return nil, ListAppsOutput{}, toolError("listing apps", err)
	}

	output := ListAppsOutput{
		Apps:       make([]AppOutput, len(page.Items)),
		Page:       page.Pagination.Page,
		TotalPages: page.Pagination.TotalPages,
		TotalItems: page.Pagination.TotalItems,
	}
	for i, app := range page.Items {
		output.Apps[i] = AppOutput{
			ID:              app.ID,
			Name:            app.Name(),
			ClientID:        app.ClientID,
			Status:          app.Status,
			ScopesCount:     app.ScopesCount,
			AuthorizedUsers: app.AuthorizedUsersCount,
		}
	}
	return nil, output, nil
}

func (s *Server) handleAppDetail(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AppDetailInput,
) (*mcp.CallToolResult, AppDetailOutput, error) {
	if input.AppID <= 0 {
		return nil, AppDetailOutput{}, fmt.Errorf("app_id must be positive: %w", domain.ErrInvalidInput)
	}

	app, err := s.ports.Workspace.App(ctx, input.AppID)
	if err != nil {
		return nil, AppDetailOutput{}, toolError("getting app", err)
	}
	return nil, appDetailOutput(app), nil
}

func (s *Server) handleRiskSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ RiskSummaryInput,
) (*mcp.CallToolResult, domain.RiskSummary, error) {
	summary, err := s.ports.Workspace.RiskSummary(ctx)
	if err != nil {
		return nil, domain.RiskSummary{}, toolError("summarising risk", err)
	}
	return nil, *summary, nil
}

func (s *Server) handleConnections(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ConnectionsInput,
) (*mcp.CallToolResult, ConnectionsOutput, error) {
	conns, err := s.ports.Integration.List(ctx)
	if err != nil {
		return nil, ConnectionsOutput{}, toolError("listing connections", err)
	}

	out := ConnectionsOutput{Connections: make([]ConnectionOutput, len(conns))}
	for i, c := range conns {
		out.Connections[i] = ConnectionOutput{
			ID:             c.ID,
			Provider:       c.IdentityProviderName,
			Status:         c.Status,
			Domain:         c.WorkspaceDomain,
			LastSyncStatus: c.LastSyncStatus,
		}
	}
	return nil, out, nil
}

func statsOutput(stats *domain.WorkspaceStats) StatsOutput {
	out := StatsOutput{
		TotalUsers:           stats.TotalUsers,
		TotalGroups:          stats.TotalGroups,
		TotalApps:            stats.TotalApps,
		ActiveAuthorizations: stats.ActiveAuthorizations,
	}
	if stats.LastSyncAt != nil {
		out.LastSyncAt = stats.LastSyncAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return out
}

func appDetailOutput(app *domain.AppDetail) AppDetailOutput {
	out := AppDetailOutput{
		ID:        app.ID,
		Name:      app.Name(),
		ClientID:  app.ClientID,
		Status:    app.Status,
		Risk:      string(domain.AppRisk(app.AllScopes)),
		Scopes:    make([]ScopeInfo, len(app.AllScopes)),
		UserCount: len(app.Authorizations),
		Users:     make([]UserAccess, len(app.Authorizations)),
	}
	for i, scope := range app.AllScopes {
		out.Scopes[i] = ScopeInfo{
			Scope:    scope,
			Name:     domain.FormatScopeName(scope),
			HighRisk: domain.IsHighRiskScope(scope),
		}
	}
	for i, auth := range app.Authorizations {
		out.Users[i] = UserAccess{Email: auth.Email, Status: auth.Status}
	}
	return out
}

func toolError(action string, err error) error {
	return fmt.Errorf("%s: %w", action, err)
}
