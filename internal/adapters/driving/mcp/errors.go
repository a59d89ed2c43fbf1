// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Oversight. It lets AI assistants read workspace statistics, discovered
// OAuth apps and their risk through the signed-in session.
package mcp

import "errors"

// ErrMissingWorkspaceService is returned when the workspace service is not provided.
var ErrMissingWorkspaceService = errors.New("mcp: workspace service is required")
