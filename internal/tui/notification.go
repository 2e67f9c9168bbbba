package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// noticeLifetime is how long a transient notification stays visible.
const noticeLifetime = 5 * time.Second

// Notification is the single banner slot below the status bar. At most
// one is visible; showing a new one replaces the old.
type Notification struct {
	Text    string
	IsError bool

	// Persistent notifications have no expiry. They are cleared only
	// when the condition that raised them is resolved.
	Persistent bool
}

// noticeExpireMsg asks to clear the notification that carried this
// text. A stale timer whose text no longer matches the visible
// notification does nothing.
type noticeExpireMsg struct {
	text string
}

// expireNotice schedules the expiry for a transient notification.
func expireNotice(text string) tea.Cmd {
	return tea.Tick(noticeLifetime, func(time.Time) tea.Msg {
		return noticeExpireMsg{text: text}
	})
}
