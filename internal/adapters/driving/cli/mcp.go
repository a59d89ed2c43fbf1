package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/oversight-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can query your
workspace: stats, apps, app details and the risk summary.

By default the server communicates over stdio using JSON-RPC. Use --port to
start an HTTP server instead; it also serves Prometheus metrics for the
session client at /metrics.

You must be signed in ('oversight auth login') before starting the server.

Examples:
  # Stdio mode (default, for desktop assistants)
  oversight mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  oversight mcp serve --port 8080

Desktop assistant configuration:
  {
    "mcpServers": {
      "oversight": {
        "command": "/path/to/oversight",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Workspace:   workspaceService,
		Integration: integrationService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s/mcp\n", addr)
		return server.RunHTTP(cmd.Context(), addr, metricsGatherer)
	}

	return server.Run(cmd.Context())
}
