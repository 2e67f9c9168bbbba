package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/lucas/huechat/internal/history"
)

// captureStdout runs fn while collecting everything written to stdout.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String(), runErr
}

func TestHistoryCommand(t *testing.T) {
	if historyCmd.Use != "history" {
		t.Errorf("Expected use 'history', got %s", historyCmd.Use)
	}

	if historyCmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	expectedSubcommands := []string{"list", "show", "export", "delete", "clear", "search"}
	for _, sub := range expectedSubcommands {
		found := false
		for _, cmd := range historyCmd.Commands() {
			if cmd.Name() == sub {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Subcommand %s not found", sub)
		}
	}
}

func TestHistorySubcommandStructure(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		use      string
		wantArgs bool
	}{
		{"show", historyShowCmd, "show <ref>", true},
		{"export", historyExportCmd, "export <ref>", true},
		{"delete", historyDeleteCmd, "delete <ref>", true},
		{"search", historySearchCmd, "search <query>", true},
		{"list", historyListCmd, "list", false},
		{"clear", historyClearCmd, "clear", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cmd.Use != tt.use {
				t.Errorf("Expected use %q, got %s", tt.use, tt.cmd.Use)
			}
			if tt.cmd.RunE == nil {
				t.Error("RunE should not be nil")
			}
			if (tt.cmd.Args != nil) != tt.wantArgs {
				t.Errorf("Args validation mismatch for %s", tt.name)
			}
		})
	}
}

func TestHistoryRefHelp(t *testing.T) {
	// Ref-taking commands document the alias syntax
	for _, cmd := range []string{historyShowCmd.Long, historyExportCmd.Long, historyDeleteCmd.Long} {
		if !strings.Contains(cmd, "@last") {
			t.Errorf("Expected Long help to mention @last, got: %s", cmd)
		}
	}
}

func TestRunHistoryList_Empty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	output, err := captureStdout(t, func() error {
		return runHistoryList(historyListCmd, []string{})
	})
	if err != nil {
		t.Errorf("runHistoryList failed: %v", err)
	}

	if !strings.Contains(output, "No conversations found.") {
		t.Errorf("Expected 'No conversations found.', got: %s", output)
	}
}

func TestRunHistoryList_WithConversations(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := history.DefaultStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	conv1, _ := store.CreateConversation("gemini-2.5-flash")
	_ = store.AddMessage(conv1.ID, history.RoleUser, "First message")

	conv2, _ := store.CreateConversation("gemini-2.5-pro")
	_ = store.AddMessage(conv2.ID, history.RoleUser, "Second message")

	output, err := captureStdout(t, func() error {
		return runHistoryList(historyListCmd, []string{})
	})
	if err != nil {
		t.Errorf("runHistoryList failed: %v", err)
	}

	if !strings.Contains(output, "ID") || !strings.Contains(output, "TITLE") {
		t.Errorf("Expected table header, got: %s", output)
	}
	if !strings.Contains(output, conv1.ID) {
		t.Errorf("Expected conversation %s in output, got: %s", conv1.ID, output)
	}
	if !strings.Contains(output, "gemini-2.5-pro") {
		t.Errorf("Expected model name in output, got: %s", output)
	}
}

func TestRunHistoryShow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := history.DefaultStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	conv, _ := store.CreateConversation("gemini-2.5-flash")
	_ = store.AddMessage(conv.ID, history.RoleUser, "What is Go?")
	_ = store.AddMessage(conv.ID, history.RoleModel, "A programming language.")

	output, err := captureStdout(t, func() error {
		return runHistoryShow(historyShowCmd, []string{conv.ID})
	})
	if err != nil {
		t.Errorf("runHistoryShow failed: %v", err)
	}

	if !strings.Contains(output, "ID: "+conv.ID) {
		t.Errorf("Expected conversation ID, got: %s", output)
	}
	if !strings.Contains(output, "You") {
		t.Errorf("Expected user role label, got: %s", output)
	}
	if !strings.Contains(output, "Gemini") {
		t.Errorf("Expected model role label, got: %s", output)
	}
	if !strings.Contains(output, "What is Go?") {
		t.Errorf("Expected message content, got: %s", output)
	}
}

func TestRunHistoryShow_Alias(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := history.DefaultStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	conv, _ := store.CreateConversation("gemini-2.5-flash")
	_ = store.AddMessage(conv.ID, history.RoleUser, "Alias lookup works")

	output, err := captureStdout(t, func() error {
		return runHistoryShow(historyShowCmd, []string{"@last"})
	})
	if err != nil {
		t.Errorf("runHistoryShow with @last failed: %v", err)
	}

	if !strings.Contains(output, "Alias lookup works") {
		t.Errorf("Expected resolved conversation content, got: %s", output)
	}
}

func TestRunHistoryShow_NotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := captureStdout(t, func() error {
		return runHistoryShow(historyShowCmd, []string{"conv-missing"})
	})
	if err == nil {
		t.Error("Expected error for missing conversation")
	}
}

func TestRunHistoryExport_Markdown(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	oldFormat := exportFormatFlag
	oldOutput := exportOutputFlag
	defer func() {
		exportFormatFlag = oldFormat
		exportOutputFlag = oldOutput
	}()
	exportFormatFlag = "markdown"
	exportOutputFlag = ""

	store, err := history.DefaultStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	conv, _ := store.CreateConversation("gemini-2.5-flash")
	_ = store.AddMessage(conv.ID, history.RoleUser, "Export me")

	output, err := captureStdout(t, func() error {
		return runHistoryExport(historyExportCmd, []string{conv.ID})
	})
	if err != nil {
		t.Errorf("runHistoryExport failed: %v", err)
	}

	if !strings.Contains(output, "Export me") {
		t.Errorf("Expected exported content, got: %s", output)
	}
}

func TestRunHistoryExport_ToFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	oldFormat := exportFormatFlag
	oldOutput := exportOutputFlag
	defer func() {
		exportFormatFlag = oldFormat
		exportOutputFlag = oldOutput
	}()
	exportFormatFlag = "json"
	exportOutputFlag = filepath.Join(home, "export.json")

	store, err := history.DefaultStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	conv, _ := store.CreateConversation("gemini-2.5-flash")
	_ = store.AddMessage(conv.ID, history.RoleUser, "File export")

	_, err = captureStdout(t, func() error {
		return runHistoryExport(historyExportCmd, []string{conv.ID})
	})
	if err != nil {
		t.Errorf("runHistoryExport failed: %v", err)
	}

	data, err := os.ReadFile(exportOutputFlag)
	if err != nil {
		t.Fatalf("Failed to read export file: %v", err)
	}
	if !strings.Contains(string(data), "File export") {
		t.Errorf("Expected exported content in file, got: %s", string(data))
	}
}

func TestRunHistoryExport_BadFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	oldFormat := exportFormatFlag
	defer func() { exportFormatFlag = oldFormat }()
	exportFormatFlag = "yaml"

	_, err := captureStdout(t, func() error {
		return runHistoryExport(historyExportCmd, []string{"conv-1"})
	})
	if err == nil {
		t.Error("Expected error for unknown export format")
	}
}

func TestRunHistoryDelete(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := history.DefaultStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	conv, _ := store.CreateConversation("gemini-2.5-flash")

	output, err := captureStdout(t, func() error {
		return runHistoryDelete(historyDeleteCmd, []string{conv.ID})
	})
	if err != nil {
		t.Errorf("runHistoryDelete failed: %v", err)
	}

	if !strings.Contains(output, "Deleted conversation: "+conv.ID) {
		t.Errorf("Expected deletion confirmation, got: %s", output)
	}

	if _, err := store.GetConversation(conv.ID); err == nil {
		t.Error("Expected conversation to be gone after delete")
	}
}

func TestRunHistoryClear(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := history.DefaultStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	_, _ = store.CreateConversation("model-1")
	_, _ = store.CreateConversation("model-2")

	output, err := captureStdout(t, func() error {
		return runHistoryClear(historyClearCmd, []string{})
	})
	if err != nil {
		t.Errorf("runHistoryClear failed: %v", err)
	}

	if !strings.Contains(output, "All conversations deleted.") {
		t.Errorf("Expected clear confirmation, got: %s", output)
	}

	conversations, err := store.ListConversations()
	if err != nil {
		t.Fatalf("Failed to list conversations: %v", err)
	}
	if len(conversations) != 0 {
		t.Errorf("Expected 0 conversations after clear, got %d", len(conversations))
	}
}

func TestRunHistorySearch(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	oldContent := searchContentFlag
	defer func() { searchContentFlag = oldContent }()
	searchContentFlag = true

	store, err := history.DefaultStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	conv, _ := store.CreateConversation("gemini-2.5-flash")
	_ = store.AddMessage(conv.ID, history.RoleUser, "Tell me about goroutines")

	output, err := captureStdout(t, func() error {
		return runHistorySearch(historySearchCmd, []string{"goroutines"})
	})
	if err != nil {
		t.Errorf("runHistorySearch failed: %v", err)
	}

	if !strings.Contains(output, conv.ID) {
		t.Errorf("Expected matching conversation in output, got: %s", output)
	}
}

func TestRunHistorySearch_NoMatches(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	oldContent := searchContentFlag
	defer func() { searchContentFlag = oldContent }()
	searchContentFlag = false

	output, err := captureStdout(t, func() error {
		return runHistorySearch(historySearchCmd, []string{"nonexistent"})
	})
	if err != nil {
		t.Errorf("runHistorySearch failed: %v", err)
	}

	if !strings.Contains(output, "No matches found.") {
		t.Errorf("Expected 'No matches found.', got: %s", output)
	}
}
