package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/oversight-cli/internal/adapters/driving/oauth"
	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/logger"
)

var integrationsCmd = &cobra.Command{
	Use:     "integrations",
	Aliases: []string{"int"},
	Short:   "Connect and sync identity providers",
}

var integrationsConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect an identity provider",
	Long: `Connect an identity provider to your organization. Opens the provider's
admin consent page in your browser.

The provider redirects back to the URL configured on the server. When that
URL points at this machine, pass --callback-port to wait for the redirect
here.

Examples:
  oversight integrations connect
  oversight integrations connect --callback-port 8090`,
	Args: cobra.NoArgs,
	RunE: runIntegrationsConnect,
}

var integrationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List connections",
	Args:  cobra.NoArgs,
	RunE:  runIntegrationsList,
}

var integrationsSyncCmd = &cobra.Command{
	Use:   "sync <connection-id>",
	Short: "Sync a connection",
	Long: `Sync users, groups and OAuth apps from a connection. The run is recorded
locally and shown by 'oversight integrations history'.`,
	Args: cobra.ExactArgs(1),
	RunE: runIntegrationsSync,
}

var integrationsDisconnectCmd = &cobra.Command{
	Use:   "disconnect <connection-id>",
	Short: "Remove a connection",
	Args:  cobra.ExactArgs(1),
	RunE:  runIntegrationsDisconnect,
}

var integrationsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show locally recorded sync runs",
	Args:  cobra.NoArgs,
	RunE:  runIntegrationsHistory,
}

// Integration flags.
var (
	connectProvider     string
	connectCallbackPort int
	connectNoBrowser    bool
	connectTimeout      time.Duration
	syncFull            bool
	historyConnection   int64
	historyLimit        int
)

func init() {
	integrationsConnectCmd.Flags().StringVar(&connectProvider, "provider", domain.DefaultIdentityProvider, "Identity provider slug")
	integrationsConnectCmd.Flags().IntVar(&connectCallbackPort, "callback-port", 0, "Wait for the provider redirect on this port")
	integrationsConnectCmd.Flags().BoolVar(&connectNoBrowser, "no-browser", false, "Print the URL instead of opening a browser")
	integrationsConnectCmd.Flags().DurationVar(&connectTimeout, "timeout", 5*time.Minute, "How long to wait for the redirect")
	integrationsSyncCmd.Flags().BoolVar(&syncFull, "full", false, "Run a full sync instead of an incremental one")
	integrationsHistoryCmd.Flags().Int64Var(&historyConnection, "connection", 0, "Only show runs for this connection")
	integrationsHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum runs to show")

	integrationsCmd.AddCommand(
		integrationsConnectCmd,
		integrationsListCmd,
		integrationsSyncCmd,
		integrationsDisconnectCmd,
		integrationsHistoryCmd,
	)
	rootCmd.AddCommand(integrationsCmd)
}

func runIntegrationsConnect(cmd *cobra.Command, _ []string) error {
	if integrationService == nil {
		return errors.New("integration service not configured")
	}
	ctx := cmd.Context()

	var server *oauth.CallbackServer
	if connectCallbackPort > 0 {
		server = oauth.NewCallbackServer(connectCallbackPort, "")
		if err := server.Start(); err != nil {
			return err
		}
		defer server.Stop() //nolint:errcheck
	}

	authURL, err := integrationService.Connect(ctx, connectProvider)
	if err != nil {
		return explain(err)
	}

	out := newPrinter(cmd)
	if connectNoBrowser {
		out.println("Open this URL to connect " + connectProvider + ":")
		out.println(authURL.AuthorizationURL)
	} else {
		out.println("Opening your browser to connect " + connectProvider + "...")
		if err := openBrowser(authURL.AuthorizationURL); err != nil {
			logger.Debug("Opening browser: %v", err)
			out.println("Could not open a browser. Open this URL to continue:")
			out.println(authURL.AuthorizationURL)
		}
	}

	if server == nil {
		out.println(out.muted("Run 'oversight integrations list' once you have approved access."))
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	result, err := server.Wait(waitCtx)
	if err != nil {
		return fmt.Errorf("connecting %s: %w", connectProvider, err)
	}

	if result.ConnectionID > 0 {
		out.printf("%s Connected (connection %d). Run 'oversight integrations sync %d' to sync.\n",
			out.success("✓"), result.ConnectionID, result.ConnectionID)
		return nil
	}
	out.printf("%s Connected.\n", out.success("✓"))
	return nil
}

func runIntegrationsList(cmd *cobra.Command, _ []string) error {
	if integrationService == nil {
		return errors.New("integration service not configured")
	}

	conns, err := integrationService.List(cmd.Context())
	if err != nil {
		return explain(err)
	}

	out := newPrinter(cmd)
	if len(conns) == 0 {
		out.println("No connections. Run 'oversight integrations connect' to add one.")
		return nil
	}

	rows := make([][]string, 0, len(conns))
	for _, c := range conns {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.IdentityProviderName,
			orDash(c.WorkspaceDomain),
			orDash(c.AdminEmail),
			c.Status,
			formatTimePtr(c.LastSyncCompletedAt),
		})
	}
	out.table([]string{"ID", "Provider", "Domain", "Admin", "Status", "Last sync"}, rows)
	return nil
}

func runIntegrationsSync(cmd *cobra.Command, args []string) error {
	if integrationService == nil {
		return errors.New("integration service not configured")
	}
	id, err := parseID(args[0], "connection")
	if err != nil {
		return err
	}

	out := newPrinter(cmd)
	out.println(out.muted("Syncing connection " + args[0] + "..."))

	result, err := integrationService.Sync(cmd.Context(), id, syncFull)
	if err != nil {
		return explain(err)
	}

	out.printf("%s Sync %s\n", out.success("✓"), result.Status)
	out.field("Users", itoa(result.Stats.UsersSynced))
	out.field("Groups", itoa(result.Stats.GroupsSynced))
	out.field("Apps discovered", itoa(result.Stats.AppsDiscovered))
	out.field("Authorizations", itoa(result.Stats.AuthorizationsFound))
	if d := result.Duration(); d > 0 {
		out.field("Duration", d.Round(time.Second).String())
	}
	return nil
}

func runIntegrationsDisconnect(cmd *cobra.Command, args []string) error {
	if integrationService == nil {
		return errors.New("integration service not configured")
	}
	id, err := parseID(args[0], "connection")
	if err != nil {
		return err
	}

	if err := integrationService.Disconnect(cmd.Context(), id); err != nil {
		return explain(err)
	}
	newPrinter(cmd).printf("Connection %d removed.\n", id)
	return nil
}

func runIntegrationsHistory(cmd *cobra.Command, _ []string) error {
	if integrationService == nil {
		return errors.New("integration service not configured")
	}

	records, err := integrationService.History(cmd.Context(), historyConnection, historyLimit)
	if err != nil {
		return err
	}

	out := newPrinter(cmd)
	if len(records) == 0 {
		out.println("No sync runs recorded.")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		kind := "incremental"
		if r.FullSync {
			kind = "full"
		}
		detail := fmt.Sprintf("%d users, %d apps", r.Stats.UsersSynced, r.Stats.AppsDiscovered)
		if r.Error != "" {
			detail = r.Error
		}
		rows = append(rows, []string{
			formatTime(r.RequestedAt),
			strconv.FormatInt(r.ConnectionID, 10),
			kind,
			r.Status,
			detail,
		})
	}
	out.table([]string{"Requested", "Connection", "Kind", "Status", "Result"}, rows)
	return nil
}
