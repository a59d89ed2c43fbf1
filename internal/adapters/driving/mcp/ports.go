package mcp

import (
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Workspace browses the synced workspace.
	Workspace driving.WorkspaceService

	// Integration lists identity provider connections. Optional.
	Integration driving.IntegrationService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Workspace == nil {
		return ErrMissingWorkspaceService
	}
	return nil
}
