package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lucas/huechat/internal/api"
	"github.com/lucas/huechat/internal/chat"
	"github.com/lucas/huechat/internal/config"
	"github.com/lucas/huechat/internal/dispatch"
	apierrors "github.com/lucas/huechat/internal/errors"
	"github.com/lucas/huechat/internal/history"
	"github.com/lucas/huechat/internal/render"
)

// Animation tick message
type animationTickMsg time.Time

// completionMsg carries a finished completion back into the update loop
type completionMsg struct {
	result *dispatch.Result
}

// HistoryStore defines the persistence operations the chat window needs
type HistoryStore interface {
	SaveTranscript(model string, turns []chat.Turn) (*history.Conversation, error)
	ReplaceTranscript(id string, turns []chat.Turn) error
}

// Model represents the chat TUI state
type Model struct {
	client     api.ClientInterface
	cfg        config.Config
	session    *chat.Session
	dispatcher *dispatch.Dispatcher
	store      HistoryStore
	modelName  string

	// conversationID is set once the transcript has been saved, so
	// later saves update the same conversation.
	conversationID string

	// UI components
	palette  render.Palette
	styles   Styles
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// settings is non-nil while the settings overlay is open
	settings *ConfigModel

	// notice is the single notification slot
	notice *Notification

	// State
	loading        bool
	ready          bool
	animationFrame int // Frame counter for loading animation
	lastPrompt     string

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model. A nil client disables
// sending; conv, when non-nil, seeds the session with its transcript.
func NewChatModel(client api.ClientInterface, cfg config.Config, store HistoryStore, conv *history.Conversation) Model {
	palette := render.PaletteFromConfig(cfg)
	styles := NewStyles(palette)

	// Create textarea for input
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	// Style the textarea
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(palette.Text)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(styles.TextDim)
	ta.BlurredStyle = ta.FocusedStyle

	// Create spinner
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = styles.Loading

	session := chat.NewSession()
	modelName := cfg.DefaultModel
	conversationID := ""
	if conv != nil {
		session.Restore(conv.Turns())
		conversationID = conv.ID
		if conv.Model != "" {
			modelName = conv.Model
		}
	}
	if client != nil && modelName != "" {
		client.SetModel(modelName)
	}

	m := Model{
		client:         client,
		cfg:            cfg,
		session:        session,
		dispatcher:     dispatch.New(client),
		store:          store,
		modelName:      modelName,
		conversationID: conversationID,
		palette:        palette,
		styles:         styles,
		textarea:       ta,
		spinner:        s,
	}

	// Surface configuration problems immediately and keep them visible
	// until a settings change resolves them.
	switch {
	case client == nil:
		m.notice = &Notification{
			Text:       apierrors.UserMessage(apierrors.ErrClientMissing),
			IsError:    true,
			Persistent: true,
		}
	case cfg.APIKey == "":
		m.notice = &Notification{
			Text:       apierrors.UserMessage(apierrors.ErrNoAPIKey),
			IsError:    true,
			Persistent: true,
		}
	}

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// awaitCompletion returns a command that waits for the dispatcher to
// deliver the outcome of an in-flight completion
func awaitCompletion(ch <-chan *dispatch.Result) tea.Cmd {
	return func() tea.Msg {
		return completionMsg{result: <-ch}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	// While the settings overlay is open it owns the input; the chat
	// window only tracks resizes underneath it.
	if m.settings != nil {
		return m.updateSettings(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if !m.loading {
				return m, tea.Quit
			}

		case "ctrl+o":
			if !m.loading {
				settings := newEmbeddedConfigModel(m.cfg, m.styles, m.width, m.height)
				m.settings = &settings
				return m, m.settings.Init()
			}

		case "ctrl+l":
			if !m.loading {
				m.session.Clear()
				m.conversationID = ""
				m.updateViewport()
				return m, m.showNotice("Chat cleared", false, false)
			}

		case "ctrl+y":
			return m, m.copyLastReply()

		case "ctrl+s":
			if !m.loading {
				return m, m.saveConversation()
			}

		case "enter":
			if !m.loading && strings.TrimSpace(m.textarea.Value()) != "" {
				return m.submitPrompt()
			}
		}

	case completionMsg:
		return m.handleCompletion(msg.result)

	case noticeExpireMsg:
		if m.notice != nil && !m.notice.Persistent && m.notice.Text == msg.text {
			m.notice = nil
		}

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Update child components - only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// resize recomputes component dimensions from the window size
func (m *Model) resize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	// Calculate component heights
	headerHeight := 4 // Header panel with border
	inputHeight := 6  // Input panel with border
	statusHeight := 1 // Status bar
	padding := 2      // Extra spacing

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := m.width - 4

	// Initialize viewport on first size message
	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.textarea.SetWidth(contentWidth - 4)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
		m.textarea.SetWidth(contentWidth - 4)
	}
	m.updateViewport()
}

// updateSettings routes messages to the settings overlay and applies
// the outcome when it closes
func (m Model) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.resize(size)
	}

	updated, cmd := m.settings.Update(msg)
	cm, ok := updated.(ConfigModel)
	if !ok {
		return m, cmd
	}
	m.settings = &cm

	if cm.Done() {
		saved, ok := cm.Saved()
		m.settings = nil
		if ok {
			return m.applySettings(saved)
		}
	}
	return m, cmd
}

// applySettings puts a freshly saved config into effect: new palette,
// new model, and a fresh session.
func (m Model) applySettings(cfg config.Config) (tea.Model, tea.Cmd) {
	m.cfg = cfg
	m.palette = render.PaletteFromConfig(cfg)
	m.styles = NewStyles(m.palette)

	m.textarea.FocusedStyle.Base = lipgloss.NewStyle().Foreground(m.palette.Text)
	m.textarea.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(m.styles.TextDim)
	m.textarea.BlurredStyle = m.textarea.FocusedStyle
	m.spinner.Style = m.styles.Loading

	m.modelName = cfg.DefaultModel
	if m.client != nil {
		m.client.SetModel(cfg.DefaultModel)
	}

	// Settings changes reset the transcript.
	m.session.Clear()
	m.conversationID = ""
	m.updateViewport()

	switch {
	case m.client == nil:
		return m, m.showNotice(apierrors.UserMessage(apierrors.ErrClientMissing), true, true)
	case cfg.APIKey == "":
		return m, m.showNotice(apierrors.UserMessage(apierrors.ErrNoAPIKey), true, true)
	}
	return m, m.showNotice("Settings saved", false, false)
}

// submitPrompt appends the typed prompt to the session and hands it to
// the dispatcher. On a rejected submission the prompt is retracted and
// restored to the input so nothing typed is lost.
func (m Model) submitPrompt() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())

	// Check for exit commands
	if input == "exit" || input == "quit" || input == "/exit" || input == "/quit" {
		return m, tea.Quit
	}

	// Snapshot before appending: the API call receives the history
	// leading up to this prompt, with the prompt sent separately.
	previous := m.session.Snapshot()
	m.session.Append(chat.RoleUser, input)
	m.lastPrompt = input
	m.textarea.Reset()
	m.updateViewport()
	m.viewport.GotoBottom()

	ch, err := m.dispatcher.Submit(context.Background(), dispatch.Request{
		APIKey:  m.cfg.APIKey,
		Prompt:  input,
		History: previous,
	})
	if err != nil {
		m.retractPrompt(input)
		return m, m.noticeForError(err)
	}

	m.loading = true
	m.animationFrame = 0

	return m, tea.Batch(
		awaitCompletion(ch),
		m.spinner.Tick,
		animationTick(),
	)
}

// handleCompletion folds a finished completion back into the session
func (m Model) handleCompletion(res *dispatch.Result) (tea.Model, tea.Cmd) {
	m.loading = false
	if res == nil {
		return m, nil
	}

	if res.Err != nil {
		m.retractPrompt(m.lastPrompt)
		return m, m.noticeForError(res.Err)
	}

	m.session.Append(chat.RoleModel, res.Text)
	m.updateViewport()
	m.viewport.GotoBottom()

	if m.cfg.CopyToClipboard {
		_ = clipboard.WriteAll(res.Text)
	}
	return m, nil
}

// retractPrompt removes the just-appended user turn after a failed
// completion and puts the text back into the input
func (m *Model) retractPrompt(prompt string) {
	m.session.RetractLastIf(func(t chat.Turn) bool {
		return t.Role == chat.RoleUser && t.Content == prompt
	})
	if strings.TrimSpace(m.textarea.Value()) == "" {
		m.textarea.SetValue(prompt)
	}
	m.updateViewport()
}

// copyLastReply copies the most recent model reply to the clipboard
func (m *Model) copyLastReply() tea.Cmd {
	turns := m.session.Snapshot()
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role != chat.RoleModel {
			continue
		}
		if err := clipboard.WriteAll(turns[i].Content); err != nil {
			return m.showNotice("Could not copy to clipboard", true, false)
		}
		return m.showNotice("Reply copied to clipboard", false, false)
	}
	return m.showNotice("No reply to copy", true, false)
}

// saveConversation persists the transcript, creating a conversation on
// first save and updating it afterwards
func (m *Model) saveConversation() tea.Cmd {
	turns := m.session.Snapshot()
	if len(turns) == 0 {
		return m.showNotice("Nothing to save yet", false, false)
	}
	if m.store == nil {
		return m.showNotice("History storage unavailable", true, false)
	}

	if m.conversationID == "" {
		conv, err := m.store.SaveTranscript(m.modelName, turns)
		if err != nil {
			return m.showNotice(fmt.Sprintf("Save failed: %v", err), true, false)
		}
		m.conversationID = conv.ID
		return m.showNotice(fmt.Sprintf("Saved conversation %s", conv.ID), false, false)
	}

	if err := m.store.ReplaceTranscript(m.conversationID, turns); err != nil {
		return m.showNotice(fmt.Sprintf("Save failed: %v", err), true, false)
	}
	return m.showNotice("Conversation updated", false, false)
}

// showNotice fills the notification slot. Transient notices schedule
// their own expiry; persistent ones stay until replaced.
func (m *Model) showNotice(text string, isError, persistent bool) tea.Cmd {
	m.notice = &Notification{
		Text:       text,
		IsError:    isError,
		Persistent: persistent,
	}
	if persistent {
		return nil
	}
	return expireNotice(text)
}

// noticeForError maps an error to its notification
func (m *Model) noticeForError(err error) tea.Cmd {
	if errors.Is(err, dispatch.ErrBusy) {
		return m.showNotice("A request is already in progress. Please wait.", true, false)
	}

	code := apierrors.GetErrorCode(err)
	persistent := code == apierrors.ErrCodeUnconfigured || code == apierrors.ErrCodeClientMissing
	return m.showNotice(apierrors.UserMessage(err), true, persistent)
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return m.styles.Loading.Render("  Initializing...")
	}

	if m.settings != nil {
		return m.settings.View()
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerParts := []string{
		m.styles.Title.Render("✦ HueChat"),
		m.styles.Hint.Render("  •  "),
		m.styles.Subtitle.Render(m.modelName),
		m.styles.Hint.Render("  •  "),
		m.styles.Subtitle.Render(m.cfg.Theme),
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	header := m.styles.Header.Width(contentWidth).Render(headerContent)
	sections = append(sections, header)

	// Messages area
	var messagesContent string
	if m.session.Len() == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}

	messagesPanel := m.styles.MessagesArea.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)
	sections = append(sections, messagesPanel)

	// Input area
	var inputContent string
	if m.loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			m.styles.InputLabel.Render("You"),
			m.textarea.View(),
		)
	}

	inputPanel := m.styles.InputPanel.Width(contentWidth).Render(inputContent)
	sections = append(sections, inputPanel)

	// Status bar
	statusBar := m.renderStatusBar(contentWidth)
	sections = append(sections, statusBar)

	// Notification slot
	if m.notice != nil {
		if m.notice.IsError {
			sections = append(sections, m.styles.ErrorNotice.Render("⚠ "+m.notice.Text))
		} else {
			sections = append(sections, m.styles.InfoNotice.Render(m.notice.Text))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := m.styles.WelcomeIcon.Width(width).Render("✦")
	title := m.styles.WelcomeTitle.Width(width).Render("Welcome to HueChat")
	subtitle := m.styles.Welcome.Width(width).Render("Start a conversation by typing a message below")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		icon,
		"",
		title,
		"",
		subtitle,
		"",
	)

	// Center vertically
	contentHeight := lipgloss.Height(content)
	topPadding := (height - contentHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders a colorful animated loading indicator
func (m Model) renderLoadingAnimation() string {
	// Animation characters
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	// Get current animation frame
	frame := m.animationFrame

	// Render spinning character with color
	spinIdx := frame % len(chars)
	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	// Render animated bar with gradient
	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		// Calculate which color to use based on position and frame
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)

		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	// Animated dots
	dots := ""
	numDots := (frame / 3) % 4
	for i := 0; i < numDots; i++ {
		dotColor := gradientColors[(frame+i)%len(gradientColors)]
		dots += lipgloss.NewStyle().Foreground(dotColor).Render("◉")
	}
	for i := numDots; i < 3; i++ {
		dots += lipgloss.NewStyle().Foreground(m.styles.TextMute).Render("○")
	}

	// Combine elements
	text := lipgloss.NewStyle().Foreground(m.palette.Text).Render(" Gemini is thinking ")

	return fmt.Sprintf("%s %s %s %s", spin, bar.String(), text, dots)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+O", "Settings"},
		{"Ctrl+S", "Save"},
		{"Ctrl+Y", "Copy"},
		{"Ctrl+L", "Clear"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		item := lipgloss.JoinHorizontal(
			lipgloss.Center,
			m.styles.StatusKey.Render(s.key),
			m.styles.StatusDesc.Render(" "+s.desc),
		)
		items = append(items, item)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(items, "  │  "))
	return m.styles.StatusBar.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	for i, turn := range m.session.Snapshot() {
		if i > 0 {
			content.WriteString("\n")
		}

		if turn.Role == chat.RoleUser {
			// User message, right-aligned with a filled bubble that
			// hugs short prompts
			label := m.styles.UserLabel.Render("⬤ You")
			w := lipgloss.Width(turn.Content) + 2
			if w > bubbleWidth {
				w = bubbleWidth
			}
			bubble := m.styles.UserBubble.Width(w).Render(turn.Content)
			content.WriteString(lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, label))
			content.WriteString("\n")
			content.WriteString(lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, bubble))
		} else {
			// Model message
			label := m.styles.ModelLabel.Render("✦ Gemini")

			// Render markdown content
			rendered, err := render.MarkdownWithTheme(turn.Content, m.cfg.Theme, bubbleWidth-4)
			if err != nil {
				rendered = turn.Content
			}
			// Trim trailing newlines from glamour
			rendered = strings.TrimRight(rendered, "\n")

			bubble := m.styles.ModelBubble.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI
func RunChat(client api.ClientInterface, cfg config.Config, store HistoryStore, conv *history.Conversation) error {
	m := NewChatModel(client, cfg, store, conv)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
