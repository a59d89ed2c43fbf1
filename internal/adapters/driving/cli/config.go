package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change settings",
	Long: `Show and change the settings stored in ~/.oversight/config.toml.

Environment variables (OVERSIGHT_API_BASE_URL, OVERSIGHT_SESSION_STORE, ...)
take precedence over the file.

Examples:
  oversight config show
  oversight config set api.base_url https://oversight.example.com/api/v1
  oversight config set session.store sqlite
  oversight config unset api.timeout`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Reset a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}
	defaults := settingsService.GetDefaults()

	out := newPrinter(cmd)
	out.heading("Settings")
	out.field("api.base_url", settings.API.BaseURL)
	out.field("api.timeout", settings.API.Timeout.String())
	out.field("api.long_timeout", settings.API.LongTimeout.String())
	out.field("api.requests_per_second", fmt.Sprint(settings.API.RequestsPerSecond))
	out.field("session.store", settings.Session.Backend.Description())
	out.field("data_dir", settings.DataDir)
	out.println()
	out.println(out.muted("Default API: " + defaults.API.BaseURL))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("%w (keys: %v)", err, settingsService.Keys())
	}
	newPrinter(cmd).printf("%s = %s\n", args[0], args[1])
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Unset(args[0]); err != nil {
		return fmt.Errorf("%w (keys: %v)", err, settingsService.Keys())
	}
	newPrinter(cmd).printf("%s reset to default\n", args[0])
	return nil
}
