// Package cli provides the oversight command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driving"
	"github.com/custodia-labs/oversight-cli/internal/logger"
)

// version is set by Execute.
var version = "dev"

// Options are the global flags handed to the Builder.
type Options struct {
	// APIURL overrides the configured API base URL when non-empty.
	APIURL string
	// ConfigDir overrides ~/.oversight when non-empty.
	ConfigDir string
	// NoConfig ignores the configuration file. Settings come from the
	// environment and defaults, and "config set" is not persisted.
	NoConfig bool
	Verbose  bool
}

// Services are the ports the commands run against.
type Services struct {
	Session     driving.SessionService
	Workspace   driving.WorkspaceService
	Integration driving.IntegrationService
	Chat        driving.ChatService
	Settings    driving.SettingsService
	// TokenSource exposes the held access token. Optional.
	TokenSource func(ctx context.Context) oauth2.TokenSource
	// Metrics is served by "mcp serve --port". Optional.
	Metrics prometheus.Gatherer
	// Close releases stores opened by the Builder. Optional.
	Close func() error
}

// Builder constructs Services once the global flags are parsed.
type Builder func(ctx context.Context, opts Options) (*Services, error)

var (
	builder  Builder
	services *Services

	sessionService     driving.SessionService
	workspaceService   driving.WorkspaceService
	integrationService driving.IntegrationService
	chatService        driving.ChatService
	settingsService    driving.SettingsService
	tokenSource        func(ctx context.Context) oauth2.TokenSource
	metricsGatherer    prometheus.Gatherer
)

// annotationNoServices marks commands that run without building services.
const annotationNoServices = "oversight.no-services"

// Global flags.
var (
	flagVerbose   bool
	flagAPIURL    string
	flagConfigDir string
	flagNoConfig  bool
)

var rootCmd = &cobra.Command{
	Use:   "oversight",
	Short: "Audit third-party OAuth apps in your Google Workspace",
	Long: `Oversight signs in to the Oversight API and lets you browse the synced
workspace: users, groups and the third-party OAuth apps they have authorized,
with a risk level derived from each app's granted scopes.

Get started:
  oversight auth login
  oversight integrations connect
  oversight workspace apps`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Show debug output")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "API base URL (overrides api.base_url)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "Configuration directory (default ~/.oversight)")
	rootCmd.PersistentFlags().BoolVar(&flagNoConfig, "no-config", false, "Ignore the configuration file")
}

// SetServices injects the services directly, bypassing the Builder.
func SetServices(s *Services) {
	services = s
	if s == nil {
		s = &Services{}
	}
	sessionService = s.Session
	workspaceService = s.Workspace
	integrationService = s.Integration
	chatService = s.Chat
	settingsService = s.Settings
	tokenSource = s.TokenSource
	metricsGatherer = s.Metrics
}

// Execute runs the root command. build is called once, before the first
// command runs, unless services were injected with SetServices.
func Execute(ctx context.Context, v string, build Builder) error {
	if v != "" {
		version = v
	}
	builder = build
	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, teardown())
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if services != nil || builder == nil || cmd.Annotations[annotationNoServices] != "" {
		return nil
	}

	built, err := builder(cmd.Context(), Options{
		APIURL:    flagAPIURL,
		ConfigDir: flagConfigDir,
		NoConfig:  flagNoConfig,
		Verbose:   flagVerbose,
	})
	if err != nil {
		return err
	}
	SetServices(built)

	if sessionService != nil {
		stderr := cmd.ErrOrStderr()
		sessionService.OnSignedOut(func(reason error) {
			logger.Debug("Session invalidated: %v", reason)
			fmt.Fprintln(stderr, "Your session has expired. Run 'oversight auth login' to sign in again.")
		})
	}
	return nil
}

func teardown() error {
	if services == nil || services.Close == nil {
		return nil
	}
	closeFn := services.Close
	services.Close = nil
	return closeFn()
}

// explain turns session failures into a hint the user can act on.
func explain(err error) error {
	if domain.IsSessionExpired(err) {
		return fmt.Errorf("%w\nRun 'oversight auth login' to sign in", err)
	}
	return err
}
