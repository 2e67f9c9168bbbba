// Package history provides local conversation history storage.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/lucas/huechat/internal/chat"
	"github.com/lucas/huechat/internal/config"
)

// Role values stored in conversation files.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message represents a single message in a conversation
type Message struct {
	Role      string    `json:"role"` // "user" or "model"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation represents a complete chat conversation
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// Turns converts the stored messages back into session turns.
func (c *Conversation) Turns() []chat.Turn {
	if len(c.Messages) == 0 {
		return nil
	}

	turns := make([]chat.Turn, 0, len(c.Messages))
	for _, msg := range c.Messages {
		role := chat.RoleUser
		if msg.Role == RoleModel {
			role = chat.RoleModel
		}
		turns = append(turns, chat.Turn{
			Role:      role,
			Content:   msg.Content,
			CreatedAt: msg.Timestamp,
		})
	}
	return turns
}

// Store manages conversation history persistence
type Store struct {
	baseDir string
	mu      sync.RWMutex
}

// NewStore creates a history store rooted at the given directory
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	return &Store{
		baseDir: dir,
	}, nil
}

// DefaultStore creates a store using the default location
func DefaultStore() (*Store, error) {
	dir, err := config.GetHistoryDir()
	if err != nil {
		return nil, err
	}
	return NewStore(dir)
}

// CreateConversation creates a new conversation
func (s *Store) CreateConversation(model string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	conv := &Conversation{
		ID:        generateConvID(),
		Title:     fmt.Sprintf("Chat %s", now.Format("2006-01-02 15:04")),
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
	}

	if err := s.saveConversation(conv); err != nil {
		return nil, err
	}

	return conv, nil
}

// SaveTranscript creates a conversation from a full session transcript.
// The title comes from the first user turn.
func (s *Store) SaveTranscript(model string, turns []chat.Turn) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	conv := &Conversation{
		ID:        generateConvID(),
		Title:     fmt.Sprintf("Chat %s", now.Format("2006-01-02 15:04")),
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  messagesFromTurns(turns),
	}

	if title, ok := titleFromTurns(turns); ok {
		conv.Title = title
	}

	if err := s.saveConversation(conv); err != nil {
		return nil, err
	}

	return conv, nil
}

// ReplaceTranscript overwrites a conversation's messages with a new
// transcript, keeping its ID and creation time.
func (s *Store) ReplaceTranscript(id string, turns []chat.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.loadConversation(id)
	if err != nil {
		return err
	}

	conv.Messages = messagesFromTurns(turns)
	conv.UpdatedAt = time.Now()
	if title, ok := titleFromTurns(turns); ok {
		conv.Title = title
	}

	return s.saveConversation(conv)
}

// GetConversation retrieves a conversation by ID
func (s *Store) GetConversation(id string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadConversation(id)
}

// ListConversations returns all conversations, sorted by most recent
func (s *Store) ListConversations() ([]*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var conversations []*Conversation
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		id := entry.Name()[:len(entry.Name())-5] // Remove .json
		conv, err := s.loadConversation(id)
		if err != nil {
			continue // Skip corrupted files
		}
		conversations = append(conversations, conv)
	}

	// Sort by UpdatedAt descending
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})

	return conversations, nil
}

// AddMessage appends a message to a conversation
func (s *Store) AddMessage(id, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.loadConversation(id)
	if err != nil {
		return err
	}

	msg := Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}

	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = time.Now()

	// Update title from first user message if still default
	if role == RoleUser && len(conv.Messages) == 1 {
		conv.Title = truncateTitle(content)
	}

	return s.saveConversation(conv)
}

// DeleteConversation removes a conversation
func (s *Store) DeleteConversation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.conversationPath(id)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("conversation not found: %s", id)
		}
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	return nil
}

// UpdateTitle updates the title of a conversation
func (s *Store) UpdateTitle(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.loadConversation(id)
	if err != nil {
		return err
	}

	conv.Title = title
	conv.UpdatedAt = time.Now()

	return s.saveConversation(conv)
}

// ClearAll deletes all conversations
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to read history directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		path := filepath.Join(s.baseDir, entry.Name())
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// Internal methods

func (s *Store) conversationPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *Store) loadConversation(id string) (*Conversation, error) {
	path := s.conversationPath(id)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("conversation not found: %s", id)
		}
		return nil, fmt.Errorf("failed to read conversation: %w", err)
	}

	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to parse conversation: %w", err)
	}

	return &conv, nil
}

func (s *Store) saveConversation(conv *Conversation) error {
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	path := s.conversationPath(conv.ID)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write conversation: %w", err)
	}

	return nil
}

func messagesFromTurns(turns []chat.Turn) []Message {
	msgs := make([]Message, 0, len(turns))
	for _, turn := range turns {
		ts := turn.CreatedAt
		if ts.IsZero() {
			ts = time.Now()
		}
		msgs = append(msgs, Message{
			Role:      string(turn.Role),
			Content:   turn.Content,
			Timestamp: ts,
		})
	}
	return msgs
}

func titleFromTurns(turns []chat.Turn) (string, bool) {
	for _, turn := range turns {
		if turn.Role == chat.RoleUser && turn.Content != "" {
			return truncateTitle(turn.Content), true
		}
	}
	return "", false
}

func truncateTitle(content string) string {
	runes := []rune(content)
	if len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return content
}

func generateConvID() string {
	return fmt.Sprintf("conv-%d", time.Now().UnixNano())
}
