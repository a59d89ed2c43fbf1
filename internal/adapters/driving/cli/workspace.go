package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Browse the synced workspace",
	Long: `Browse the users, groups and third-party OAuth apps of the connected
Google Workspace.

Examples:
  oversight workspace stats
  oversight workspace apps --search slack
  oversight workspace app 42
  oversight workspace risk`,
}

var workspaceStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show workspace totals",
	Args:  cobra.NoArgs,
	RunE:  runWorkspaceStats,
}

var workspaceUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List workspace users",
	Args:  cobra.NoArgs,
	RunE:  runWorkspaceUsers,
}

var workspaceUserCmd = &cobra.Command{
	Use:   "user <id>",
	Short: "Show a user and the apps they authorized",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceUser,
}

var workspaceGroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List workspace groups",
	Args:  cobra.NoArgs,
	RunE:  runWorkspaceGroups,
}

var workspaceGroupCmd = &cobra.Command{
	Use:   "group <id>",
	Short: "Show a group and its members",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceGroup,
}

var workspaceAppsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List discovered OAuth apps",
	Args:  cobra.NoArgs,
	RunE:  runWorkspaceApps,
}

var workspaceAppCmd = &cobra.Command{
	Use:   "app <id>",
	Short: "Show an app with its scopes and users",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceApp,
}

var workspaceTimelineCmd = &cobra.Command{
	Use:   "timeline <app-id>",
	Short: "Show the history of an app",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceTimeline,
}

var workspaceRiskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Summarise apps by risk level",
	Args:  cobra.NoArgs,
	RunE:  runWorkspaceRisk,
}

var workspaceSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the workspace connection",
	Args:  cobra.NoArgs,
	RunE:  runWorkspaceSettings,
}

var workspaceDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect the workspace",
	Long: `Disconnect the Google Workspace from your organization. Synced users,
groups and apps remain until the next connect and sync.`,
	Args: cobra.NoArgs,
	RunE: runWorkspaceDisconnect,
}

// List flags shared by the list commands.
var (
	listPage     int
	listPageSize int
	listSearch   string
	appsAll      bool
	disconnectOK bool
)

func init() {
	for _, c := range []*cobra.Command{workspaceUsersCmd, workspaceGroupsCmd, workspaceAppsCmd, workspaceTimelineCmd} {
		c.Flags().IntVar(&listPage, "page", 1, "Page number")
		c.Flags().IntVar(&listPageSize, "page-size", 20, "Items per page")
	}
	for _, c := range []*cobra.Command{workspaceUsersCmd, workspaceGroupsCmd, workspaceAppsCmd} {
		c.Flags().StringVarP(&listSearch, "search", "s", "", "Filter by name or email")
	}
	workspaceAppsCmd.Flags().BoolVar(&appsAll, "all", false, "Fetch every page")
	workspaceDisconnectCmd.Flags().BoolVarP(&disconnectOK, "yes", "y", false, "Do not ask for confirmation")

	workspaceCmd.AddCommand(
		workspaceStatsCmd,
		workspaceUsersCmd,
		workspaceUserCmd,
		workspaceGroupsCmd,
		workspaceGroupCmd,
		workspaceAppsCmd,
		workspaceAppCmd,
		workspaceTimelineCmd,
		workspaceRiskCmd,
		workspaceSettingsCmd,
		workspaceDisconnectCmd,
	)
	rootCmd.AddCommand(workspaceCmd)
}

func listParams() domain.ListParams {
	return domain.ListParams{Page: listPage, PageSize: listPageSize, Search: listSearch}
}

func runWorkspaceStats(cmd *cobra.Command, _ []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	stats, err := workspaceService.Stats(cmd.Context())
	if err != nil {
		return explain(err)
	}

	out := newPrinter(cmd)
	out.heading("Workspace")
	out.field("Users", itoa(stats.TotalUsers))
	out.field("Groups", itoa(stats.TotalGroups))
	out.field("Apps", itoa(stats.TotalApps))
	out.field("Active authorizations", itoa(stats.ActiveAuthorizations))
	out.field("Last sync", formatTimePtr(stats.LastSyncAt))
	return nil
}

func runWorkspaceUsers(cmd *cobra.Command, _ []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	page, err := workspaceService.Users(cmd.Context(), listParams())
	if err != nil {
		return explain(err)
	}

	out := newPrinter(cmd)
	if len(page.Items) == 0 {
		out.println("No users found.")
		return nil
	}

	rows := make([][]string, 0, len(page.Items))
	for _, u := range page.Items {
		admin := ""
		switch {
		case u.IsAdmin:
			admin = "admin"
		case u.IsDelegatedAdmin:
			admin = "delegated"
		}
		rows = append(rows, []string{
			fmt.Sprint(u.ID), u.Email, orDash(u.FullName), orDash(admin), u.Status, itoa(u.AuthorizedAppsCount),
		})
	}
	out.table([]string{"ID", "Email", "Name", "Admin", "Status", "Apps"}, rows)
	out.pagination(page.Pagination, "users")
	return nil
}

func runWorkspaceUser(cmd *cobra.Command, args []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}
	id, err := parseID(args[0], "user")
	if err != nil {
		return err
	}

	user, err := workspaceService.User(cmd.Context(), id)
	if err != nil {
		return explain(err)
	}

	out := newPrinter(cmd)
	out.heading(user.Email)
	out.field("Name", orDash(user.FullName))
	out.field("Status", user.Status)
	out.field("Admin", fmt.Sprint(user.IsAdmin))
	out.field("Org unit", orDash(user.OrgUnitPath))
	out.println()

	if len(user.Authorizations) == 0 {
		out.println("No authorized apps.")
		return nil
	}
	rows := make([][]string, 0, len(user.Authorizations))
	for _, a := range user.Authorizations {
		rows = append(rows, []string{
			fmt.Sprint(a.AppID),
			orDash(a.AppName),
			out.risk(domain.AppRisk(a.Scopes)),
			itoa(len(a.Scopes)),
			formatTime(a.AuthorizedAt),
		})
	}
	out.table([]string{"App ID", "App", "Risk", "Scopes", "Authorized"}, rows)
	return nil
}

func runWorkspaceGroups(cmd *cobra.Command, _ []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	page, err := workspaceService.Groups(cmd.Context(), listParams())
	if err != nil {
		return explain(err)
	}

	out := newPrinter(cmd)
	if len(page.Items) == 0 {
		out.println("No groups found.")
		return nil
	}

	rows := make([][]string, 0, len(page.Items))
	for _, g := range page.Items {
		rows = append(rows, []string{fmt.Sprint(g.ID), g.Name, g.Email, itoa(g.DirectMembersCount)})
	}
	out.table([]string{"ID", "Name", "Email", "Members"}, rows)
	out.pagination(page.Pagination, "groups")
	return nil
}

func runWorkspaceGroup(cmd *cobra.Command, args []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}
	id, err := parseID(args[0], "group")
	if err != nil {
		return err
	}

	group, err := workspaceService.Group(cmd.Context(), id)
	if err != nil {
		return explain(err)
	}

	out := newPrinter(cmd)
	out.heading(group.Name)
	out.field("Email", group.Email)
	out.field("Description", orDash(group.Description))
	out.field("Direct members", itoa(group.DirectMembersCount))
	out.println()

	if len(group.Members) == 0 {
		out.println("No members.")
		return nil
	}
	rows := make([][]string, 0, len(group.Members))
	for _, m := range group.Members {
		rows = append(rows, []string{m.Email, orDash(m.FullName), m.Role})
	}
	out.table([]string{"Email", "Name", "Role"}, rows)
	return nil
}

func runWorkspaceApps(cmd *cobra.Command, _ []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	var apps []domain.DiscoveredApp
	var pagination *domain.Pagination
	if appsAll {
		all, err := workspaceService.AllApps(cmd.Context(), listSearch)
		if err != nil {
			return explain(err)
		}
		apps = all
	} else {
		page, err := workspaceService.Apps(cmd.Context(), listParams())
		if err != nil {
			return explain(err)
		}
		apps = page.Items
		pagination = &page.Pagination
	}

	out := newPrinter(cmd)
	if len(apps) == 0 {
		out.println("No apps found.")
		return nil
	}

	rows := make([][]string, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, []string{
			fmt.Sprint(a.ID), a.Name(), orDash(a.ClientType), a.Status,
			itoa(a.ScopesCount), itoa(a.AuthorizedUsersCount), formatTime(a.LastSeenAt),
		})
	}
	out.table([]string{"ID", "App", "Type", "Status", "Scopes", "Users", "Last seen"}, rows)
	if pagination != nil {
		out.pagination(*pagination, "apps")
	} else {
		out.println(out.muted(fmt.Sprintf("%d apps", len(apps))))
	}
	return nil
}

func runWorkspaceApp(cmd *cobra.Command, args []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}
	id, err := parseID(args[0], "app")
	if err != nil {
		return err
	}

	app, err := workspaceService.App(cmd.Context(), id)
	if err != nil {
		return explain(err)
	}

	out := newPrinter(cmd)
	out.heading(app.Name())
	out.field("Client ID", app.ClientID)
	out.field("Type", orDash(app.ClientType))
	out.field("Status", app.Status)
	out.field("Risk", out.risk(domain.AppRisk(app.AllScopes)))
	out.field("First seen", formatTime(app.FirstSeenAt))
	out.field("Last seen", formatTime(app.LastSeenAt))
	out.println()

	if len(app.AllScopes) > 0 {
		out.println("Scopes:")
		for _, s := range app.AllScopes {
			marker := " "
			if domain.IsHighRiskScope(s) {
				marker = "!"
			}
			out.printf("  %s %s %s\n", marker, domain.FormatScopeName(s), out.muted(s))
		}
		out.println()
	}

	if len(app.Authorizations) == 0 {
		out.println("No users have authorized this app.")
		return nil
	}
	rows := make([][]string, 0, len(app.Authorizations))
	for _, a := range app.Authorizations {
		rows = append(rows, []string{a.Email, orDash(a.FullName), itoa(len(a.Scopes)), a.Status, formatTime(a.AuthorizedAt)})
	}
	out.table([]string{"User", "Name", "Scopes", "Status", "Authorized"}, rows)
	return nil
}

func runWorkspaceTimeline(cmd *cobra.Command, args []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}
	id, err := parseID(args[0], "app")
	if err != nil {
		return err
	}

	page, err := workspaceService.AppTimeline(cmd.Context(), id, listParams())
	if err != nil {
		return explain(err)
	}

	out := newPrinter(cmd)
	if len(page.Items) == 0 {
		out.println("No events.")
		return nil
	}

	rows := make([][]string, 0, len(page.Items))
	for _, e := range page.Items {
		actor := e.ActorName
		if actor == "" {
			actor = e.ActorEmail
		}
		rows = append(rows, []string{formatTime(e.EventTime), e.Label(), orDash(actor)})
	}
	out.table([]string{"Time", "Event", "Actor"}, rows)
	out.pagination(page.Pagination, "events")
	return nil
}

func runWorkspaceRisk(cmd *cobra.Command, _ []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	summary, err := workspaceService.RiskSummary(cmd.Context())
	if err != nil {
		return explain(err)
	}

	out := newPrinter(cmd)
	out.heading("App risk")
	out.field(domain.RiskHigh.Label(), itoa(summary.High))
	out.field(domain.RiskMedium.Label(), itoa(summary.Medium))
	out.field(domain.RiskLow.Label(), itoa(summary.Low))
	out.field("Total", itoa(summary.Total()))

	if len(summary.HighRiskApps) > 0 {
		out.println()
		out.println("High risk apps:")
		for _, name := range summary.HighRiskApps {
			out.println("  " + name)
		}
	}
	return nil
}

func runWorkspaceSettings(cmd *cobra.Command, _ []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	settings, err := workspaceService.Settings(cmd.Context())
	if err != nil {
		return explain(err)
	}

	out := newPrinter(cmd)
	if settings.Connection == nil {
		out.println("No workspace connected. Run 'oversight integrations connect'.")
		return nil
	}
	conn := settings.Connection
	out.heading("Workspace connection")
	out.field("Connection", fmt.Sprint(conn.ConnectionID))
	out.field("Domain", orDash(conn.WorkspaceDomain))
	out.field("Admin", orDash(conn.AdminEmail))
	out.field("Status", conn.Status)
	out.field("Last sync", formatTimePtr(conn.LastSyncCompletedAt))
	out.field("Last sync status", orDash(conn.LastSyncStatus))
	out.field("Syncing", fmt.Sprint(settings.IsSyncing))
	out.field("Can sync", fmt.Sprint(settings.CanSync))
	return nil
}

func runWorkspaceDisconnect(cmd *cobra.Command, _ []string) error {
	if workspaceService == nil {
		return errors.New("workspace service not configured")
	}

	if !disconnectOK {
		if !stdinIsTerminal() {
			return errors.New("refusing to disconnect without confirmation; pass --yes")
		}
		if !confirm(cmd, "Disconnect the workspace?") {
			newPrinter(cmd).println("Cancelled.")
			return nil
		}
	}

	if err := workspaceService.Disconnect(cmd.Context()); err != nil {
		return explain(err)
	}
	newPrinter(cmd).println("Workspace disconnected.")
	return nil
}

// confirm asks a yes/no question on the command's input.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
