package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for Oversight resources.
const uriScheme = "oversight://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "workspace-stats",
		Description: "Workspace totals from the last sync",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "apps/{appId}",
		Name:        "app-detail",
		Description: "A discovered OAuth app with its scopes and authorized users",
		MIMEType:    "application/json",
	}, s.handleAppResource)
}

// handleStatsResource returns the workspace stats.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Workspace.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting workspace stats: %w", err)
	}
	return jsonResource(req.Params.URI, statsOutput(stats))
}

// handleAppResource returns the detail of one app.
func (s *Server) handleAppResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractAppID(req.Params.URI)
	if id <= 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	app, err := s.ports.Workspace.App(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting app: %w", err)
	}
	return jsonResource(req.Params.URI, appDetailOutput(app))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractAppID extracts the app ID from a URI like oversight://apps/{appId}.
// Returns 0 when the URI does not name an app.
func extractAppID(uri string) int64 {
	const prefix = uriScheme + "apps/"

	if !strings.HasPrefix(uri, prefix) {
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(uri, prefix), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
