package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lucas/huechat/internal/history"
	"github.com/lucas/huechat/internal/render"
)

// mockLister is a mock implementation of ConversationLister for testing
type mockLister struct {
	conversations []*history.Conversation
	err           error
}

func (m *mockLister) ListConversations() ([]*history.Conversation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.conversations, nil
}

func newTestSelector(store ConversationLister) HistorySelectorModel {
	styles := NewStyles(render.DefaultPalette())
	return NewHistorySelectorModel(store, "gemini-2.5-flash", styles)
}

func selectorConversations() []*history.Conversation {
	return []*history.Conversation{
		{ID: "conv-1", Title: "First Chat", Model: "gemini-2.5-flash", UpdatedAt: time.Now()},
		{ID: "conv-2", Title: "Second Chat", Model: "gemini-2.5-pro", UpdatedAt: time.Now().Add(-time.Hour)},
	}
}

func TestNewHistorySelectorModel(t *testing.T) {
	store := &mockLister{}
	m := newTestSelector(store)

	if m.store != store {
		t.Error("Store not set correctly")
	}
	if m.modelName != "gemini-2.5-flash" {
		t.Errorf("modelName = %s, want gemini-2.5-flash", m.modelName)
	}
	if !m.loading {
		t.Error("Model should be loading initially")
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestHistorySelectorModel_Init(t *testing.T) {
	m := newTestSelector(&mockLister{})

	if cmd := m.Init(); cmd == nil {
		t.Error("Init should return a command")
	}
}

func TestHistorySelectorModel_LoadConversations(t *testing.T) {
	store := &mockLister{conversations: selectorConversations()}
	m := newTestSelector(store)

	msg := m.loadConversations()()

	loaded, ok := msg.(historyLoadedMsg)
	if !ok {
		t.Fatalf("Expected historyLoadedMsg, got %T", msg)
	}
	if len(loaded.conversations) != 2 {
		t.Errorf("Expected 2 conversations, got %d", len(loaded.conversations))
	}
}

func TestHistorySelectorModel_LoadConversations_Error(t *testing.T) {
	store := &mockLister{err: errors.New("read failed")}
	m := newTestSelector(store)

	msg := m.loadConversations()()

	loaded, ok := msg.(historyLoadedMsg)
	if !ok {
		t.Fatalf("Expected historyLoadedMsg, got %T", msg)
	}
	if loaded.err == nil {
		t.Error("Expected load error to be carried")
	}
}

func TestHistorySelectorModel_Update_WindowSize(t *testing.T) {
	m := newTestSelector(&mockLister{})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	model, ok := updated.(HistorySelectorModel)
	if !ok {
		t.Fatal("Update should return HistorySelectorModel")
	}
	if model.width != 100 {
		t.Errorf("width = %d, want 100", model.width)
	}
	if model.height != 40 {
		t.Errorf("height = %d, want 40", model.height)
	}
	if !model.ready {
		t.Error("Model should be ready after WindowSizeMsg")
	}
}

func TestHistorySelectorModel_Update_HistoryLoaded(t *testing.T) {
	m := newTestSelector(&mockLister{})
	m.ready = true

	updated, _ := m.Update(historyLoadedMsg{conversations: selectorConversations()})

	model := updated.(HistorySelectorModel)
	if model.loading {
		t.Error("Model should stop loading after conversations arrive")
	}
	if len(model.conversations) != 2 {
		t.Errorf("Expected 2 conversations, got %d", len(model.conversations))
	}
}

func TestHistorySelectorModel_Update_HistoryLoadedError(t *testing.T) {
	m := newTestSelector(&mockLister{})
	m.ready = true

	updated, _ := m.Update(historyLoadedMsg{err: errors.New("boom")})

	model := updated.(HistorySelectorModel)
	if model.loading {
		t.Error("Model should stop loading after an error")
	}
	if model.err == nil {
		t.Error("Model should record the load error")
	}
}

func TestHistorySelectorModel_CursorNavigation(t *testing.T) {
	m := newTestSelector(&mockLister{})
	m.ready = true
	m.loading = false
	m.conversations = selectorConversations()

	// Down walks through the list.
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	model := updated.(HistorySelectorModel)
	if model.cursor != 1 {
		t.Errorf("cursor = %d, want 1", model.cursor)
	}

	// Up from the top wraps to the last conversation.
	model.cursor = 0
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyUp})
	model = updated.(HistorySelectorModel)
	if model.cursor != len(model.conversations) {
		t.Errorf("cursor = %d, want %d", model.cursor, len(model.conversations))
	}

	// Down from the bottom wraps back to "New Conversation".
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model = updated.(HistorySelectorModel)
	if model.cursor != 0 {
		t.Errorf("cursor = %d, want 0", model.cursor)
	}
}

func TestHistorySelectorModel_KeysIgnoredWhileLoading(t *testing.T) {
	m := newTestSelector(&mockLister{})
	m.ready = true

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})

	if model := updated.(HistorySelectorModel); model.cursor != 0 {
		t.Error("Navigation should be ignored while loading")
	}
}

func TestHistorySelectorModel_SelectNewConversation(t *testing.T) {
	m := newTestSelector(&mockLister{})
	m.ready = true
	m.loading = false
	m.conversations = selectorConversations()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	model := updated.(HistorySelectorModel)
	conv, isNew, confirmed := model.Result()
	if !confirmed {
		t.Error("Enter should confirm the selection")
	}
	if !isNew {
		t.Error("Cursor 0 should select a new conversation")
	}
	if conv != nil {
		t.Error("New conversation selection should carry no conversation")
	}
	if cmd == nil {
		t.Error("Selection should quit the program")
	}
}

func TestHistorySelectorModel_SelectExisting(t *testing.T) {
	m := newTestSelector(&mockLister{})
	m.ready = true
	m.loading = false
	m.conversations = selectorConversations()
	m.cursor = 2

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	model := updated.(HistorySelectorModel)
	conv, isNew, confirmed := model.Result()
	if !confirmed {
		t.Error("Enter should confirm the selection")
	}
	if isNew {
		t.Error("Selecting an entry should not report a new conversation")
	}
	if conv == nil || conv.ID != "conv-2" {
		t.Errorf("Expected conv-2, got %+v", conv)
	}
}

func TestHistorySelectorModel_EscDoesNotConfirm(t *testing.T) {
	m := newTestSelector(&mockLister{})
	m.ready = true
	m.loading = false
	m.conversations = selectorConversations()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape})

	model := updated.(HistorySelectorModel)
	if _, _, confirmed := model.Result(); confirmed {
		t.Error("Esc should not confirm a selection")
	}
	if cmd == nil {
		t.Error("Esc should quit the program")
	}
}

func TestHistorySelectorModel_HomeEnd(t *testing.T) {
	m := newTestSelector(&mockLister{})
	m.ready = true
	m.loading = false
	m.conversations = selectorConversations()
	m.cursor = 1

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyHome})
	model := updated.(HistorySelectorModel)
	if model.cursor != 0 {
		t.Errorf("Home should move to 0, got %d", model.cursor)
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnd})
	model = updated.(HistorySelectorModel)
	if model.cursor != len(model.conversations) {
		t.Errorf("End should move to %d, got %d", len(model.conversations), model.cursor)
	}
}

func TestHistorySelectorModel_View_List(t *testing.T) {
	m := newTestSelector(&mockLister{})
	m.ready = true
	m.loading = false
	m.width = 100
	m.height = 40
	m.conversations = selectorConversations()

	view := m.View()

	if !strings.Contains(view, "+ New Conversation") {
		t.Error("View should offer a new conversation entry")
	}
	if !strings.Contains(view, "First Chat") {
		t.Error("View should list conversation titles")
	}
	if !strings.Contains(view, "2 msgs") && !strings.Contains(view, "0 msgs") {
		t.Error("View should show message counts")
	}
}

func TestHistorySelectorModel_View_Empty(t *testing.T) {
	m := newTestSelector(&mockLister{})
	m.ready = true
	m.loading = false
	m.width = 100
	m.height = 40

	view := m.View()

	if !strings.Contains(view, "No saved conversations") {
		t.Error("View should state when no conversations exist")
	}
}

func TestHistorySelectorModel_View_Loading(t *testing.T) {
	m := newTestSelector(&mockLister{})
	m.ready = true
	m.width = 100
	m.height = 40

	if !strings.Contains(m.View(), "Loading conversations") {
		t.Error("View should show the loading state")
	}
}

func TestHistorySelectorModel_View_Error(t *testing.T) {
	m := newTestSelector(&mockLister{})
	m.ready = true
	m.loading = false
	m.err = errors.New("store exploded")
	m.width = 100
	m.height = 40

	if !strings.Contains(m.View(), "store exploded") {
		t.Error("View should surface load errors")
	}
}
