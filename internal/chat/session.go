// Package chat holds the in-memory conversation transcript.
package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one transcript entry. Immutable once appended.
type Turn struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Session maintains the ordered transcript for one chat window.
// Turns are append-only; the only removals are RetractLastIf after a
// failed completion and Clear on a full reset.
type Session struct {
	mu    sync.RWMutex // Protects turns
	turns []Turn
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{}
}

// Append adds a turn to the end of the transcript and returns it with
// its generated ID
func (s *Session) Append(role Role, content string) Turn {
	turn := Turn{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()

	return turn
}

// RetractLastIf removes the final turn when pred accepts it and reports
// whether a turn was removed. Used to undo a user turn after a failed
// completion so the transcript never keeps an unanswered prompt.
func (s *Session) RetractLastIf(pred func(Turn) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.turns) == 0 {
		return false
	}
	last := s.turns[len(s.turns)-1]
	if !pred(last) {
		return false
	}
	s.turns = s.turns[:len(s.turns)-1]
	return true
}

// Restore replaces the transcript with a previously saved one. Turns
// missing an ID or timestamp get fresh values.
func (s *Session) Restore(turns []Turn) {
	restored := make([]Turn, 0, len(turns))
	for _, turn := range turns {
		if turn.ID == "" {
			turn.ID = uuid.New().String()
		}
		if turn.CreatedAt.IsZero() {
			turn.CreatedAt = time.Now()
		}
		restored = append(restored, turn)
	}

	s.mu.Lock()
	s.turns = restored
	s.mu.Unlock()
}

// Snapshot returns a copy of the transcript in order
func (s *Session) Snapshot() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.turns == nil {
		return nil
	}
	result := make([]Turn, len(s.turns))
	copy(result, s.turns)
	return result
}

// Last returns the final turn, if any
func (s *Session) Last() (Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.turns) == 0 {
		return Turn{}, false
	}
	return s.turns[len(s.turns)-1], true
}

// Len returns the number of turns
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Clear discards all turns
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}
