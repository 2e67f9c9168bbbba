package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lucas/huechat/internal/history"
	"github.com/lucas/huechat/internal/tui"
)

// resumePicker is the sentinel value --resume takes when passed without
// an argument; it opens the interactive conversation picker.
const resumePicker = "@pick"

var resumeFlag string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with Gemini.

The chat maintains conversation context across messages.
Type 'exit', 'quit', or press Ctrl+C to end the session.

Use --resume to continue a saved conversation. Without an argument it
opens an interactive picker; with an argument it accepts:
` + history.ListAliases(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(resumeFlag)
	},
}

func init() {
	chatCmd.Flags().StringVarP(&resumeFlag, "resume", "r", "", "Resume a saved conversation (@last, @first, index, ID or title)")
	chatCmd.Flags().Lookup("resume").NoOptDefVal = resumePicker
}

// runChat opens the chat window, optionally resuming a saved conversation.
func runChat(resume string) error {
	deps := NewDependencies()

	// A missing client or store is not fatal for the chat window; it
	// opens with a persistent notice instead. Surface the cause here
	// so the user knows what happened once they quit.
	if deps.ClientErr != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(deps.ClientErr, "API client unavailable"))
	}
	if deps.StoreErr != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(deps.StoreErr, "History storage unavailable"))
	}

	var conv *history.Conversation
	switch resume {
	case "":
		// Fresh conversation
	case resumePicker:
		if deps.Store == nil {
			return fmt.Errorf("cannot resume: history unavailable: %w", deps.StoreErr)
		}
		result, err := tui.RunHistorySelector(deps.Store, deps.Config)
		if err != nil {
			return fmt.Errorf("failed to select conversation: %w", err)
		}
		if !result.Confirmed {
			return nil
		}
		conv = result.Conversation
	default:
		if deps.Store == nil {
			return fmt.Errorf("cannot resume: history unavailable: %w", deps.StoreErr)
		}
		resolved, err := history.NewResolver(deps.Store).ResolveWithInfo(resume)
		if err != nil {
			return fmt.Errorf("failed to resume conversation: %w", err)
		}
		conv = resolved
	}

	return tui.RunChat(deps.Client, deps.Config, deps.ChatStore(), conv)
}
