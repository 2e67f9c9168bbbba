package history

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestExportToMarkdown(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	conv, _ := store.CreateConversation("gemini-2.5-flash")
	_ = store.AddMessage(conv.ID, RoleUser, "Hello, how are you?")
	_ = store.AddMessage(conv.ID, RoleModel, "I'm doing well, thank you!")
	_ = store.UpdateTitle(conv.ID, "Test Conversation") // Set title after messages

	md, err := store.ExportToMarkdown(conv.ID)
	if err != nil {
		t.Fatalf("ExportToMarkdown failed: %v", err)
	}

	if !strings.Contains(md, "# Test Conversation") {
		t.Error("markdown should contain title as header")
	}
	if !strings.Contains(md, "**Model:** gemini-2.5-flash") {
		t.Error("markdown should contain model info")
	}
	if !strings.Contains(md, "## User") {
		t.Error("markdown should contain User header")
	}
	if !strings.Contains(md, "## Gemini") {
		t.Error("markdown should contain Gemini header")
	}
	if !strings.Contains(md, "Hello, how are you?") {
		t.Error("markdown should contain user message")
	}
	if !strings.Contains(md, "I'm doing well") {
		t.Error("markdown should contain model message")
	}
}

func TestExportToMarkdown_NotFound(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	_, err := store.ExportToMarkdown("nonexistent-id")
	if err == nil {
		t.Error("expected error for nonexistent conversation")
	}
}

func TestExportToJSON(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	conv, _ := store.CreateConversation("gemini-2.5-flash")
	_ = store.AddMessage(conv.ID, RoleUser, "Test message")
	_ = store.UpdateTitle(conv.ID, "JSON Test") // Set title after first message

	jsonData, err := store.ExportToJSON(conv.ID)
	if err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}

	var exported map[string]interface{}
	if err := json.Unmarshal(jsonData, &exported); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	if exported["title"] != "JSON Test" {
		t.Errorf("title = %v, want JSON Test", exported["title"])
	}
	if exported["model"] != "gemini-2.5-flash" {
		t.Errorf("model = %v, want gemini-2.5-flash", exported["model"])
	}

	messages, ok := exported["messages"].([]interface{})
	if !ok {
		t.Fatal("messages field missing or wrong type")
	}
	if len(messages) != 1 {
		t.Errorf("expected 1 message, got %d", len(messages))
	}
}

func TestExportToJSON_RoundTrip(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	conv, _ := store.CreateConversation("test-model")
	_ = store.AddMessage(conv.ID, RoleUser, "Question")
	_ = store.AddMessage(conv.ID, RoleModel, "Answer")

	jsonData, err := store.ExportToJSON(conv.ID)
	if err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}

	var exported Conversation
	if err := json.Unmarshal(jsonData, &exported); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	if exported.ID != conv.ID {
		t.Errorf("ID = %s, want %s", exported.ID, conv.ID)
	}
	if len(exported.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(exported.Messages))
	}
	if exported.Messages[0].Content != "Question" {
		t.Errorf("first message content = %s, want Question", exported.Messages[0].Content)
	}
	if exported.Messages[1].Role != RoleModel {
		t.Errorf("second message role = %s, want model", exported.Messages[1].Role)
	}
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    ExportFormat
		wantErr bool
	}{
		{"markdown", ExportFormatMarkdown, false},
		{"md", ExportFormatMarkdown, false},
		{"MD", ExportFormatMarkdown, false},
		{"json", ExportFormatJSON, false},
		{"JSON", ExportFormatJSON, false},
		{" markdown ", ExportFormatMarkdown, false},
		{"yaml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseExportFormat(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseExportFormat(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseExportFormat(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseExportFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSearchConversations_TitleMatch(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	conv1, _ := store.CreateConversation("model-1")
	conv2, _ := store.CreateConversation("model-2")
	_ = store.UpdateTitle(conv1.ID, "API Development")
	_ = store.UpdateTitle(conv2.ID, "Database Design")

	// Search for "API" (title only)
	results, err := store.SearchConversations("API", false)
	if err != nil {
		t.Fatalf("SearchConversations failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	if results[0].Conversation.ID != conv1.ID {
		t.Errorf("result ID = %s, want %s", results[0].Conversation.ID, conv1.ID)
	}
	if results[0].MatchField != "title" {
		t.Errorf("MatchField = %s, want title", results[0].MatchField)
	}
}

func TestSearchConversations_ContentMatch(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	conv, _ := store.CreateConversation("test-model")
	// The first message would become the title, so keep "endpoint" out of it
	_ = store.AddMessage(conv.ID, RoleUser, "Starting a general chat")
	_ = store.AddMessage(conv.ID, RoleModel, "How do I use the API endpoint?")
	_ = store.UpdateTitle(conv.ID, "General Chat")

	// Search in titles only - should not find "endpoint"
	results, _ := store.SearchConversations("endpoint", false)
	if len(results) != 0 {
		t.Errorf("expected 0 results for title-only search, got %d", len(results))
	}

	// Search in content - should find
	results, err := store.SearchConversations("endpoint", true)
	if err != nil {
		t.Fatalf("SearchConversations failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	if results[0].MatchField != "content" {
		t.Errorf("MatchField = %s, want content", results[0].MatchField)
	}
	if !strings.Contains(results[0].MatchSnippet, "endpoint") {
		t.Error("MatchSnippet should contain the search term")
	}
}

func TestSearchConversations_CaseInsensitive(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	conv, _ := store.CreateConversation("test-model")
	_ = store.UpdateTitle(conv.ID, "API Development")

	tests := []string{"api", "API", "Api", "aPi"}
	for _, query := range tests {
		results, err := store.SearchConversations(query, false)
		if err != nil {
			t.Errorf("SearchConversations(%s) failed: %v", query, err)
			continue
		}
		if len(results) != 1 {
			t.Errorf("SearchConversations(%s) expected 1 result, got %d", query, len(results))
		}
	}
}

func TestSearchConversations_NoResults(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	conv, _ := store.CreateConversation("test-model")
	_ = store.UpdateTitle(conv.ID, "General Chat")

	results, err := store.SearchConversations("xyz123nonexistent", true)
	if err != nil {
		t.Fatalf("SearchConversations failed: %v", err)
	}

	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestSearchConversations_TitleMatchPriority(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	conv, _ := store.CreateConversation("test-model")
	_ = store.AddMessage(conv.ID, RoleUser, "Tell me about the API")
	_ = store.UpdateTitle(conv.ID, "API Chat")

	// Title matches - should stop there, not search content
	results, _ := store.SearchConversations("API", true)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].MatchField != "title" {
		t.Errorf("should match title, not content")
	}
}

func TestFormatRelativeTime(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"now", 30 * time.Second, "just now"},
		{"5 mins", 5 * time.Minute, "5m ago"},
		{"1 hour", 90 * time.Minute, "1h ago"},
		{"3 hours", 3 * time.Hour, "3h ago"},
		{"yesterday", 30 * time.Hour, "yesterday"},
		{"3 days", 3*24*time.Hour + time.Hour, "3d ago"},
		{"1 week", 8 * 24 * time.Hour, "1w ago"},
		{"2 weeks", 15 * 24 * time.Hour, "2w ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testTime := time.Now().Add(-tt.duration)
			result := FormatRelativeTime(testTime)
			if result != tt.expected {
				t.Errorf("FormatRelativeTime(%s) = %s, want %s", tt.name, result, tt.expected)
			}
		})
	}
}

func TestFormatRelativeTime_OldDate(t *testing.T) {
	// Very old date should show the full date
	oldTime := time.Now().AddDate(-2, 0, 0)
	result := FormatRelativeTime(oldTime)

	if !strings.Contains(result, "-") {
		t.Errorf("old date should show full date format, got: %s", result)
	}
}

func TestExtractSnippet(t *testing.T) {
	content := "This is a long piece of text that contains the word API somewhere in the middle of it."

	snippet := extractSnippet(content, "API", 40)

	if !strings.Contains(snippet, "API") {
		t.Error("snippet should contain the search term")
	}

	// Should be around the search term
	if len(snippet) > 50 { // 40 + some ellipsis allowance
		t.Errorf("snippet too long: %d chars", len(snippet))
	}
}

func TestExtractSnippet_AtStart(t *testing.T) {
	content := "API is at the very beginning of this text."

	snippet := extractSnippet(content, "API", 30)

	if !strings.HasPrefix(snippet, "API") {
		t.Error("snippet should start with API")
	}
}

func TestExtractSnippet_AtEnd(t *testing.T) {
	content := "This text ends with API"

	snippet := extractSnippet(content, "API", 30)

	if !strings.HasSuffix(snippet, "API") {
		t.Errorf("snippet should end with API, got: %s", snippet)
	}
}
