package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lucas/huechat/internal/config"
	"github.com/lucas/huechat/internal/render"
)

// configView represents the current view in the settings menu
type configView int

const (
	viewMain configView = iota
	viewAPIKey
	viewThemeSelect
	viewAccentSelect
	viewAccentInput
	viewModelSelect
)

// Menu item indices for the main view
const (
	menuAPIKey = iota
	menuTheme
	menuAccent
	menuDefaultModel
	menuVerbose
	menuCopyToClipboard
	menuSave
	menuCancel
	menuItemCount
)

// menuLabelWidth aligns the value column of the main menu.
const menuLabelWidth = 20

// accentPresets are the accent colors offered before the custom entry.
var accentPresets = []struct {
	Name string
	Hex  string
}{
	{"Blue", "#3498db"},
	{"Purple", "#9b59b6"},
	{"Red", "#e74c3c"},
	{"Orange", "#e67e22"},
	{"Yellow", "#f1c40f"},
	{"Green", "#2ecc71"},
	{"Teal", "#1abc9c"},
}

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel is the settings UI. Edits are buffered: nothing touches
// disk or the running chat until Save is selected. It runs standalone
// via RunConfig and embedded as the chat window's settings overlay.
type ConfigModel struct {
	styles     Styles
	config     config.Config
	configPath string
	historyDir string

	// Navigation
	view         configView
	cursor       int
	themeCursor  int
	accentCursor int
	modelCursor  int

	// Text entry
	apiKeyInput textinput.Model
	accentInput textinput.Model

	// Lifecycle
	embedded bool
	done     bool
	saved    bool

	// Feedback
	feedback        string
	feedbackTimeout time.Duration

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewConfigModel creates the standalone settings model, loading the
// current config from disk.
func NewConfigModel() ConfigModel {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return newConfigModel(cfg, NewStyles(render.PaletteFromConfig(cfg)), false)
}

// newEmbeddedConfigModel creates the settings overlay for the chat
// window. The parent applies the saved config after it closes.
func newEmbeddedConfigModel(cfg config.Config, styles Styles, width, height int) ConfigModel {
	m := newConfigModel(cfg, styles, true)
	m.width = width
	m.height = height
	m.ready = true
	return m
}

func newConfigModel(cfg config.Config, styles Styles, embedded bool) ConfigModel {
	configPath, _ := config.GetConfigPath()
	historyDir, _ := config.GetHistoryDir()

	keyInput := textinput.New()
	keyInput.Placeholder = "Paste your Google AI API key..."
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.EchoCharacter = '•'
	keyInput.CharLimit = 200
	keyInput.Width = 48

	accentInput := textinput.New()
	accentInput.Placeholder = "#3498db"
	accentInput.CharLimit = 7
	accentInput.Width = 12

	return ConfigModel{
		styles:          styles,
		config:          cfg,
		configPath:      configPath,
		historyDir:      historyDir,
		view:            viewMain,
		themeCursor:     themeIndex(cfg.Theme),
		accentCursor:    accentIndex(cfg.AccentColor),
		modelCursor:     modelIndex(cfg.DefaultModel),
		apiKeyInput:     keyInput,
		accentInput:     accentInput,
		embedded:        embedded,
		feedbackTimeout: 2 * time.Second,
	}
}

func themeIndex(theme string) int {
	if theme == config.ThemeDark {
		return 1
	}
	return 0
}

func accentIndex(hex string) int {
	for i, p := range accentPresets {
		if p.Hex == hex {
			return i
		}
	}
	return len(accentPresets) // Custom entry
}

func modelIndex(model string) int {
	for i, m := range config.AvailableModels() {
		if m == model {
			return i
		}
	}
	return 0
}

// Done reports whether the settings UI has closed.
func (m ConfigModel) Done() bool {
	return m.done
}

// Saved returns the saved config when the UI closed via Save.
func (m ConfigModel) Saved() (config.Config, bool) {
	return m.config, m.saved
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch m.view {
		case viewAPIKey:
			return m.updateAPIKeyEntry(msg)
		case viewAccentInput:
			return m.updateAccentEntry(msg)
		}

		switch msg.String() {
		case "ctrl+c":
			return m.close(false)

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
				return m, nil
			}
			return m.close(false)

		case "up", "k":
			m.moveCursor(-1)

		case "down", "j":
			m.moveCursor(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// updateAPIKeyEntry handles keys while the API key field is focused
func (m ConfigModel) updateAPIKeyEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.close(false)

	case "esc":
		m.apiKeyInput.Blur()
		m.view = viewMain
		return m, nil

	case "enter":
		m.config.APIKey = strings.TrimSpace(m.apiKeyInput.Value())
		m.apiKeyInput.Blur()
		m.view = viewMain
		if m.config.APIKey == "" {
			m.feedback = "API key cleared"
		} else {
			m.feedback = "API key updated"
		}
		return m, clearFeedback(m.feedbackTimeout)
	}

	var cmd tea.Cmd
	m.apiKeyInput, cmd = m.apiKeyInput.Update(msg)
	return m, cmd
}

// updateAccentEntry handles keys while the custom hex field is focused
func (m ConfigModel) updateAccentEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.close(false)

	case "esc":
		m.accentInput.Blur()
		m.view = viewAccentSelect
		return m, nil

	case "enter":
		hex, ok := config.NormalizeAccentColor(m.accentInput.Value())
		if !ok {
			m.feedback = fmt.Sprintf("Invalid hex color: %s", m.accentInput.Value())
			return m, clearFeedback(m.feedbackTimeout)
		}
		m.config.AccentColor = hex
		m.accentCursor = accentIndex(hex)
		m.accentInput.Blur()
		m.view = viewMain
		m.feedback = fmt.Sprintf("Accent color set to %s", hex)
		return m, clearFeedback(m.feedbackTimeout)
	}

	var cmd tea.Cmd
	m.accentInput, cmd = m.accentInput.Update(msg)
	return m, cmd
}

// moveCursor moves the active cursor by delta with wrap-around
func (m *ConfigModel) moveCursor(delta int) {
	wrap := func(cursor, count int) int {
		cursor += delta
		if cursor < 0 {
			return count - 1
		}
		if cursor >= count {
			return 0
		}
		return cursor
	}

	switch m.view {
	case viewMain:
		m.cursor = wrap(m.cursor, menuItemCount)
	case viewThemeSelect:
		m.themeCursor = wrap(m.themeCursor, 2)
	case viewAccentSelect:
		m.accentCursor = wrap(m.accentCursor, len(accentPresets)+1)
	case viewModelSelect:
		m.modelCursor = wrap(m.modelCursor, len(config.AvailableModels()))
	}
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMain:
		switch m.cursor {
		case menuAPIKey:
			m.view = viewAPIKey
			m.apiKeyInput.SetValue("")
			m.apiKeyInput.Focus()
			return m, textinput.Blink

		case menuTheme:
			m.view = viewThemeSelect
			m.themeCursor = themeIndex(m.config.Theme)
			return m, nil

		case menuAccent:
			m.view = viewAccentSelect
			m.accentCursor = accentIndex(m.config.AccentColor)
			return m, nil

		case menuDefaultModel:
			m.view = viewModelSelect
			m.modelCursor = modelIndex(m.config.DefaultModel)
			return m, nil

		case menuVerbose:
			m.config.Verbose = !m.config.Verbose
			return m, nil

		case menuCopyToClipboard:
			m.config.CopyToClipboard = !m.config.CopyToClipboard
			return m, nil

		case menuSave:
			if err := config.SaveConfig(m.config); err != nil {
				m.feedback = fmt.Sprintf("Error: %v", err)
				return m, clearFeedback(m.feedbackTimeout)
			}
			return m.close(true)

		case menuCancel:
			return m.close(false)
		}

	case viewThemeSelect:
		if m.themeCursor == 1 {
			m.config.Theme = config.ThemeDark
		} else {
			m.config.Theme = config.ThemeLight
		}
		m.view = viewMain
		return m, nil

	case viewAccentSelect:
		if m.accentCursor < len(accentPresets) {
			m.config.AccentColor = accentPresets[m.accentCursor].Hex
			m.view = viewMain
			return m, nil
		}
		// Custom entry
		m.view = viewAccentInput
		m.accentInput.SetValue(m.config.AccentColor)
		m.accentInput.Focus()
		return m, textinput.Blink

	case viewModelSelect:
		m.config.DefaultModel = config.AvailableModels()[m.modelCursor]
		m.view = viewMain
		return m, nil
	}

	return m, nil
}

// close ends the settings UI. Standalone mode quits the program;
// embedded mode flags itself done for the chat window to dismiss.
func (m ConfigModel) close(saved bool) (tea.Model, tea.Cmd) {
	m.done = true
	m.saved = saved
	if m.embedded {
		return m, nil
	}
	return m, tea.Quit
}

// View renders the settings UI
func (m ConfigModel) View() string {
	if !m.ready {
		return m.styles.Loading.Render("  Initializing...")
	}

	s := m.styles
	var sections []string
	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	header := s.ConfigHeader.Width(contentWidth).Render(s.ConfigTitle.Render("✦ Settings"))
	sections = append(sections, header)

	// Paths panel
	pathsTitle := s.ConfigSectionTitle.Render("📁 Paths")
	var keyStatus string
	if m.config.APIKey != "" {
		keyStatus = s.ConfigEnabled.Render("✓ configured")
	} else {
		keyStatus = s.ConfigDisabled.Render("✗ not set")
	}
	pathsContent := lipgloss.JoinVertical(lipgloss.Left,
		pathsTitle,
		fmt.Sprintf("   Config:   %s", s.ConfigPath.Render(m.configPath)),
		fmt.Sprintf("   History:  %s", s.ConfigPath.Render(m.historyDir)),
		fmt.Sprintf("   API Key:  %s", keyStatus),
	)
	sections = append(sections, s.ConfigPanel.Width(contentWidth).Render(pathsContent))

	// Active view panel
	var body string
	switch m.view {
	case viewMain:
		body = m.renderMainMenu()
	case viewAPIKey:
		body = m.renderAPIKeyEntry()
	case viewThemeSelect:
		body = m.renderThemeSelect()
	case viewAccentSelect:
		body = m.renderAccentSelect()
	case viewAccentInput:
		body = m.renderAccentEntry()
	case viewModelSelect:
		body = m.renderModelSelect()
	}
	sections = append(sections, s.ConfigPanel.Width(contentWidth).Render(body))

	if m.feedback != "" {
		sections = append(sections, s.ConfigFeedback.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderConfigStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderMenuItem renders one main-menu row with an aligned value column
func (m ConfigModel) renderMenuItem(index int, label, value string) string {
	s := m.styles
	cursor := "  "
	style := s.ConfigMenuItem
	if m.cursor == index {
		cursor = s.ConfigCursor.Render("▸ ")
		style = s.ConfigMenuSelected
	}

	pad := menuLabelWidth - len(label)
	if pad < 1 {
		pad = 1
	}
	if value == "" {
		return cursor + style.Render(label)
	}
	return cursor + style.Render(label) + strings.Repeat(" ", pad) + value
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	s := m.styles
	title := s.ConfigSectionTitle.Render("⚙ Settings")

	accentValue := m.config.AccentColor
	for _, p := range accentPresets {
		if p.Hex == m.config.AccentColor {
			accentValue = fmt.Sprintf("%s (%s)", p.Hex, p.Name)
			break
		}
	}
	// Swatch rendered in the accent color itself
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(m.config.AccentColor)).Render("⬤ ")

	items := []string{
		m.renderMenuItem(menuAPIKey, "API Key", s.ConfigValue.Render(maskAPIKey(m.config.APIKey))),
		m.renderMenuItem(menuTheme, "Theme", s.ConfigValue.Render(m.config.Theme)),
		m.renderMenuItem(menuAccent, "Accent Color", swatch+s.ConfigValue.Render(accentValue)),
		m.renderMenuItem(menuDefaultModel, "Default Model", s.ConfigValue.Render(m.config.DefaultModel)),
		m.renderMenuItem(menuVerbose, "Verbose Logging", m.renderBoolValue(m.config.Verbose)),
		m.renderMenuItem(menuCopyToClipboard, "Copy to Clipboard", m.renderBoolValue(m.config.CopyToClipboard)),
		"",
		m.renderMenuItem(menuSave, "Save", ""),
		m.renderMenuItem(menuCancel, "Cancel", ""),
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title, ""}, items...)...,
	)
}

// renderAPIKeyEntry renders the API key input view
func (m ConfigModel) renderAPIKeyEntry() string {
	s := m.styles
	title := s.ConfigSectionTitle.Render("🔑 API Key")
	hint := s.Hint.Render("Enter saves, Esc cancels. Submitting an empty field clears the key.")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		"   "+m.apiKeyInput.View(),
		"",
		hint,
	)
}

// renderThemeSelect renders the light/dark choice
func (m ConfigModel) renderThemeSelect() string {
	s := m.styles
	title := s.ConfigSectionTitle.Render("🎨 Select Theme")

	themes := []struct {
		name string
		desc string
	}{
		{config.ThemeLight, "Bright background, dark text"},
		{config.ThemeDark, "Dark background, light text"},
	}

	var items []string
	for i, theme := range themes {
		cursor := "  "
		style := s.ConfigMenuItem
		if m.themeCursor == i {
			cursor = s.ConfigCursor.Render("▸ ")
			style = s.ConfigMenuSelected
		}

		current := ""
		if theme.name == m.config.Theme {
			current = s.ConfigEnabled.Render(" (current)")
		}

		items = append(items, cursor+style.Render(fmt.Sprintf("%s - %s", theme.name, theme.desc))+current)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title, ""}, items...)...,
	)
}

// renderAccentSelect renders the accent preset list
func (m ConfigModel) renderAccentSelect() string {
	s := m.styles
	title := s.ConfigSectionTitle.Render("🎨 Select Accent Color")

	var items []string
	for i, preset := range accentPresets {
		cursor := "  "
		style := s.ConfigMenuItem
		if m.accentCursor == i {
			cursor = s.ConfigCursor.Render("▸ ")
			style = s.ConfigMenuSelected
		}

		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(preset.Hex)).Render("⬤ ")
		current := ""
		if preset.Hex == m.config.AccentColor {
			current = s.ConfigEnabled.Render(" (current)")
		}

		items = append(items, cursor+swatch+style.Render(fmt.Sprintf("%s (%s)", preset.Name, preset.Hex))+current)
	}

	// Custom entry
	cursor := "  "
	style := s.ConfigMenuItem
	if m.accentCursor == len(accentPresets) {
		cursor = s.ConfigCursor.Render("▸ ")
		style = s.ConfigMenuSelected
	}
	items = append(items, cursor+style.Render("Custom hex..."))

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title, ""}, items...)...,
	)
}

// renderAccentEntry renders the custom hex input view
func (m ConfigModel) renderAccentEntry() string {
	s := m.styles
	title := s.ConfigSectionTitle.Render("🎨 Custom Accent Color")
	hint := s.Hint.Render("Hex color like #3498db or #fc6. Enter saves, Esc goes back.")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		"   "+m.accentInput.View(),
		"",
		hint,
	)
}

// renderModelSelect renders the model selection sub-menu
func (m ConfigModel) renderModelSelect() string {
	s := m.styles
	title := s.ConfigSectionTitle.Render("🤖 Select Model")

	var items []string
	for i, model := range config.AvailableModels() {
		cursor := "  "
		style := s.ConfigMenuItem
		if m.modelCursor == i {
			cursor = s.ConfigCursor.Render("▸ ")
			style = s.ConfigMenuSelected
		}

		current := ""
		if model == m.config.DefaultModel {
			current = s.ConfigEnabled.Render(" (current)")
		}

		items = append(items, cursor+style.Render(model)+current)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title, ""}, items...)...,
	)
}

// renderBoolValue renders a boolean value with appropriate styling
func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return m.styles.ConfigEnabled.Render("enabled")
	}
	return m.styles.ConfigDisabled.Render("disabled")
}

// renderConfigStatusBar renders the bottom status bar
func (m ConfigModel) renderConfigStatusBar(width int) string {
	s := m.styles

	escDesc := "Cancel"
	if m.view != viewMain {
		escDesc = "Back"
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", escDesc},
	}

	var items []string
	for _, sc := range shortcuts {
		item := lipgloss.JoinHorizontal(
			lipgloss.Center,
			s.StatusKey.Render(sc.key),
			s.StatusDesc.Render(" "+sc.desc),
		)
		items = append(items, item)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(items, "  │  "))
	return s.ConfigStatusBar.Width(width).Align(lipgloss.Center).Render(bar)
}

// maskAPIKey hides all but a short tail of the key for display
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("•", len(key))
	}
	return strings.Repeat("•", 8) + key[len(key)-4:]
}

// RunConfig starts the standalone settings TUI
func RunConfig() error {
	m := NewConfigModel()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
