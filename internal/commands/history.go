package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lucas/huechat/internal/history"
)

var (
	exportFormatFlag  string
	exportOutputFlag  string
	searchContentFlag bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage conversation history",
	Long:  `View and manage your local conversation history.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all conversations",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <ref>",
	Short: "Show a conversation",
	Long: `Show a conversation. The reference accepts:
` + history.ListAliases(),
	Args: cobra.ExactArgs(1),
	RunE: runHistoryShow,
}

var historyExportCmd = &cobra.Command{
	Use:   "export <ref>",
	Short: "Export a conversation",
	Long: `Export a conversation to markdown or JSON. The reference accepts:
` + history.ListAliases(),
	Args: cobra.ExactArgs(1),
	RunE: runHistoryExport,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <ref>",
	Short: "Delete a conversation",
	Long: `Delete a conversation. The reference accepts:
` + history.ListAliases(),
	Args: cobra.ExactArgs(1),
	RunE: runHistoryDelete,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all conversations",
	RunE:  runHistoryClear,
}

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search conversations",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistorySearch,
}

func init() {
	historyExportCmd.Flags().StringVar(&exportFormatFlag, "format", "markdown", "Export format (markdown, json)")
	historyExportCmd.Flags().StringVarP(&exportOutputFlag, "output", "o", "", "Save export to file")
	historySearchCmd.Flags().BoolVar(&searchContentFlag, "content", false, "Search message content, not just titles")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historySearchCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := history.DefaultStore()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	conversations, err := store.ListConversations()
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	if len(conversations) == 0 {
		fmt.Println("No conversations found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tMODEL\tMESSAGES\tUPDATED")
	_, _ = fmt.Fprintln(w, "--\t-----\t-----\t--------\t-------")

	for _, conv := range conversations {
		updated := conv.UpdatedAt.Format("2006-01-02 15:04")
		title := conv.Title
		if len(title) > 40 {
			title = title[:40] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			conv.ID, title, conv.Model, len(conv.Messages), updated)
	}

	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := history.DefaultStore()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	conv, err := history.NewResolver(store).ResolveWithInfo(args[0])
	if err != nil {
		return fmt.Errorf("conversation not found: %w", err)
	}

	fmt.Printf("ID: %s\n", conv.ID)
	fmt.Printf("Title: %s\n", conv.Title)
	fmt.Printf("Model: %s\n", conv.Model)
	fmt.Printf("Created: %s\n", conv.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated: %s\n", conv.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Messages: %d\n", len(conv.Messages))
	fmt.Println()

	for i, msg := range conv.Messages {
		role := "You"
		if msg.Role == history.RoleModel {
			role = "Gemini"
		}
		fmt.Printf("[%d] %s (%s):\n", i+1, role, msg.Timestamp.Format("15:04"))

		content := msg.Content
		if len(content) > 500 {
			content = content[:500] + "..."
		}
		fmt.Printf("  %s\n\n", content)
	}

	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	store, err := history.DefaultStore()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	format, err := history.ParseExportFormat(exportFormatFlag)
	if err != nil {
		return err
	}

	id, err := history.NewResolver(store).Resolve(args[0])
	if err != nil {
		return fmt.Errorf("conversation not found: %w", err)
	}

	var data string
	switch format {
	case history.ExportFormatJSON:
		var raw []byte
		raw, err = store.ExportToJSON(id)
		data = string(raw)
	default:
		data, err = store.ExportToMarkdown(id)
	}
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if exportOutputFlag != "" {
		if err := os.WriteFile(exportOutputFlag, []byte(data), 0o644); err != nil {
			return fmt.Errorf("failed to write export file: %w", err)
		}
		fmt.Printf("Exported conversation to %s\n", exportOutputFlag)
		return nil
	}

	fmt.Print(data)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	store, err := history.DefaultStore()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	id, err := history.NewResolver(store).Resolve(args[0])
	if err != nil {
		return fmt.Errorf("conversation not found: %w", err)
	}

	if err := store.DeleteConversation(id); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	fmt.Printf("Deleted conversation: %s\n", id)
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	store, err := history.DefaultStore()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	if err := store.ClearAll(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Println("All conversations deleted.")
	return nil
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	store, err := history.DefaultStore()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	results, err := store.SearchConversations(args[0], searchContentFlag)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No matches found.")
		return nil
	}

	for _, res := range results {
		fmt.Printf("%s  %s (%s)\n", res.Conversation.ID, res.Conversation.Title,
			history.FormatRelativeTime(res.Conversation.UpdatedAt))
		if res.MatchSnippet != "" {
			fmt.Printf("    %s\n", res.MatchSnippet)
		}
	}

	return nil
}
