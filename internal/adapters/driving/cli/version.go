package cli

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoServices: "true"},
	Run: func(cmd *cobra.Command, _ []string) {
		newPrinter(cmd).printf("oversight version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
