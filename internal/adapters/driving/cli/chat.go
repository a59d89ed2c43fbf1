package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Ask the assistant about your workspace",
	Long: `Ask the Oversight assistant a question. The reply is streamed as it is
generated; tool calls the assistant makes are shown inline.

Examples:
  oversight chat "which apps can read everyone's mail?"
  oversight chat who authorized Zoom`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

var chatQuiet bool

func init() {
	chatCmd.Flags().BoolVarP(&chatQuiet, "quiet", "q", false, "Hide tool calls")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	out := newPrinter(cmd)
	atLineStart := true
	onEvent := func(ev domain.ChatEvent) {
		switch ev.Type {
		case domain.ChatText:
			text := ev.Text()
			if text == "" {
				return
			}
			out.printf("%s", text)
			atLineStart = strings.HasSuffix(text, "\n")
		case domain.ChatToolStart:
			if chatQuiet {
				return
			}
			if !atLineStart {
				out.println()
			}
			out.println(out.muted("→ " + ev.ToolName()))
			atLineStart = true
		}
	}

	_, err := chatService.Ask(cmd.Context(), strings.Join(args, " "), onEvent)
	if !atLineStart {
		out.println()
	}
	return explain(err)
}
