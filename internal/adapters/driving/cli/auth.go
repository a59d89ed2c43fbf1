package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/oversight-cli/internal/adapters/driving/oauth"
	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/logger"
)

// Callback port range for browser sign-in.
const (
	callbackPortStart = 8085
	callbackPortEnd   = 8185
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in and manage your session",
	Long: `Sign in with Google, check who you are signed in as, and sign out.

Credentials are stored according to the session.store setting
(file, sqlite, bolt or memory). Access tokens are refreshed automatically;
if the refresh fails you are signed out and asked to sign in again.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google",
	Long: `Sign in with your Google account.

A local callback server is started and your browser is opened on the Google
consent page. Once you approve, the browser is redirected back to the CLI and
the session is stored.

Examples:
  oversight auth login
  oversight auth login --no-browser
  oversight auth login --port 8090`,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard stored credentials",
	RunE:  runAuthLogout,
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runAuthWhoami,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether you are signed in",
	RunE:  runAuthStatus,
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a valid access token",
	Long: `Print the current access token, refreshing it first if it is about to
expire. Useful for scripting against the API:

  curl -H "Authorization: Bearer $(oversight auth token)" ...`,
	RunE: runAuthToken,
}

// Flags for auth login.
var (
	authLoginNoBrowser bool
	authLoginPort      int
	authLoginTimeout   time.Duration
)

func init() {
	authLoginCmd.Flags().BoolVar(&authLoginNoBrowser, "no-browser", false, "Print the sign-in URL instead of opening a browser")
	authLoginCmd.Flags().IntVar(&authLoginPort, "port", 0, "Callback port (default: first free port from 8085)")
	authLoginCmd.Flags().DurationVar(&authLoginTimeout, "timeout", 5*time.Minute, "How long to wait for the browser")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoamiCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authTokenCmd)
	rootCmd.AddCommand(authCmd)
}

// openBrowser is replaced in tests.
var openBrowser = oauth.OpenBrowser

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	ctx := cmd.Context()

	port := authLoginPort
	if port == 0 {
		p, err := oauth.FindAvailablePort(callbackPortStart, callbackPortEnd)
		if err != nil {
			return err
		}
		port = p
	}

	// State is checked by the session service.
	server := oauth.NewCallbackServer(port, "")
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop() //nolint:errcheck

	login, err := sessionService.BeginLogin(ctx, server.RedirectURI())
	if err != nil {
		return explain(err)
	}

	out := newPrinter(cmd)
	if authLoginNoBrowser {
		out.println("Open this URL in your browser to sign in:")
		out.println(login.AuthorizationURL)
	} else {
		out.println("Opening your browser to sign in...")
		if err := openBrowser(login.AuthorizationURL); err != nil {
			logger.Debug("Opening browser: %v", err)
			out.println("Could not open a browser. Open this URL to sign in:")
			out.println(login.AuthorizationURL)
		}
	}

	waitCtx, cancel := context.WithTimeout(ctx, authLoginTimeout)
	defer cancel()
	result, err := server.Wait(waitCtx)
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	var user *domain.User
	if result.Completed {
		user, err = sessionService.Bootstrap(ctx)
		if err == nil && user == nil {
			err = errors.New("the server completed sign-in in the browser but issued no session to the CLI")
		}
	} else {
		user, err = sessionService.CompleteLogin(ctx, result.Code, result.State)
	}
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	out.printf("%s Signed in as %s", out.success("✓"), user.DisplayName())
	if user.Organization.Name != "" {
		out.printf(" (%s)", user.Organization.Name)
	}
	out.println()
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if err := sessionService.Logout(cmd.Context()); err != nil {
		return err
	}
	newPrinter(cmd).println("Signed out.")
	return nil
}

func runAuthWhoami(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	user, err := sessionService.Bootstrap(cmd.Context())
	if err != nil {
		return explain(err)
	}
	if user == nil {
		return explain(domain.ErrNotSignedIn)
	}

	out := newPrinter(cmd)
	out.heading(user.DisplayName())
	out.field("Email", user.Email)
	out.field("Role", orDash(user.Role.DisplayName))
	out.field("Organization", orDash(user.Organization.Name))
	out.field("Plan", orDash(user.Organization.Plan.DisplayName))
	out.field("Last sign-in", formatTimePtr(user.LastLoginAt))
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	user, err := sessionService.Bootstrap(cmd.Context())
	if err != nil && !domain.IsNetworkError(err) {
		return explain(err)
	}

	out := newPrinter(cmd)
	switch {
	case err != nil:
		out.println("Unable to reach the server: " + domain.UserMessage(err))
	case user == nil:
		out.println("Not signed in.")
	default:
		out.printf("Signed in as %s <%s>\n", user.DisplayName(), user.Email)
	}

	if settingsService != nil {
		if settings, serr := settingsService.Get(); serr == nil {
			out.field("API", settings.API.BaseURL)
			out.field("Credential store", settings.Session.Backend.Description())
		}
	}
	return nil
}

func runAuthToken(cmd *cobra.Command, _ []string) error {
	if tokenSource == nil {
		return errors.New("token source not configured")
	}

	token, err := tokenSource(cmd.Context()).Token()
	if err != nil {
		return explain(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), token.AccessToken)
	return nil
}
