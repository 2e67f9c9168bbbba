// Package tui provides the terminal user interface for huechat.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lucas/huechat/internal/config"
	"github.com/lucas/huechat/internal/errors"
	"github.com/lucas/huechat/internal/render"
)

// Secondary text colors per theme. The palette carries the primary
// text color; these fill in the dim/muted steps terminal chrome needs.
var (
	darkTextDim   = lipgloss.Color("#95a5a6")
	darkTextMute  = lipgloss.Color("#7f8c8d")
	lightTextDim  = lipgloss.Color("#7f8c8d")
	lightTextMute = lipgloss.Color("#95a5a6")

	colorErrorText = lipgloss.Color("#e74c3c")
	colorWhite     = lipgloss.Color("#ffffff")
)

// Gradient colors for the animated loading indicator (fixed colors)
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#5f27cd"), // Purple
	lipgloss.Color("#00d2d3"), // Teal
	lipgloss.Color("#1dd1a1"), // Green
}

// Styles holds every lipgloss style the interface renders with. All of
// them derive from one Palette, so swapping the accent or theme means
// building a new Styles and nothing else.
type Styles struct {
	Palette render.Palette

	TextDim  lipgloss.Color
	TextMute lipgloss.Color

	// Header panel
	Header   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Hint     lipgloss.Style

	// Messages area
	MessagesArea lipgloss.Style
	UserLabel    lipgloss.Style
	UserBubble   lipgloss.Style
	ModelLabel   lipgloss.Style
	ModelBubble  lipgloss.Style

	// Input area
	InputPanel lipgloss.Style
	InputLabel lipgloss.Style
	Loading    lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusDesc lipgloss.Style

	// Notification banners
	ErrorNotice lipgloss.Style
	InfoNotice  lipgloss.Style

	// Plain error text with muted detail lines
	ErrorText lipgloss.Style
	Muted     lipgloss.Style

	// Welcome screen
	Welcome      lipgloss.Style
	WelcomeTitle lipgloss.Style
	WelcomeIcon  lipgloss.Style

	// Settings menu
	ConfigHeader       lipgloss.Style
	ConfigTitle        lipgloss.Style
	ConfigPanel        lipgloss.Style
	ConfigSectionTitle lipgloss.Style
	ConfigMenuItem     lipgloss.Style
	ConfigMenuSelected lipgloss.Style
	ConfigCursor       lipgloss.Style
	ConfigValue        lipgloss.Style
	ConfigEnabled      lipgloss.Style
	ConfigDisabled     lipgloss.Style
	ConfigPath         lipgloss.Style
	ConfigFeedback     lipgloss.Style
	ConfigStatusBar    lipgloss.Style
}

// NewStyles builds the full style set from a palette.
func NewStyles(p render.Palette) Styles {
	s := Styles{Palette: p}

	if p.Theme == config.ThemeDark {
		s.TextDim = darkTextDim
		s.TextMute = darkTextMute
	} else {
		s.TextDim = lightTextDim
		s.TextMute = lightTextMute
	}

	s.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 2).
		MarginBottom(1)

	s.Title = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	s.Subtitle = lipgloss.NewStyle().
		Foreground(s.TextDim)

	s.Hint = lipgloss.NewStyle().
		Foreground(s.TextMute).
		Italic(true)

	s.MessagesArea = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(1)

	s.UserLabel = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	s.UserBubble = lipgloss.NewStyle().
		Background(p.Accent).
		Foreground(p.UserText).
		Padding(0, 1)

	s.ModelLabel = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	s.ModelBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Foreground(p.Text).
		Padding(0, 1).
		MarginRight(4)

	s.InputPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1).
		MarginTop(1)

	s.InputLabel = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true).
		MarginRight(1)

	s.Loading = lipgloss.NewStyle().
		Foreground(p.Link).
		Bold(true)

	s.StatusBar = lipgloss.NewStyle().
		Background(p.Surface).
		Foreground(s.TextMute).
		MarginTop(1)

	s.StatusKey = lipgloss.NewStyle().
		Background(p.Surface).
		Foreground(p.Link).
		Bold(true)

	s.StatusDesc = lipgloss.NewStyle().
		Background(p.Surface).
		Foreground(s.TextMute)

	s.ErrorNotice = lipgloss.NewStyle().
		Background(p.ErrorBadge).
		Foreground(colorWhite).
		Bold(true).
		Padding(0, 1)

	s.InfoNotice = lipgloss.NewStyle().
		Background(p.NoticeBadge).
		Foreground(colorWhite).
		Bold(true).
		Padding(0, 1)

	s.ErrorText = lipgloss.NewStyle().
		Foreground(colorErrorText).
		Bold(true)

	s.Muted = lipgloss.NewStyle().
		Foreground(s.TextDim)

	s.Welcome = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(1, 2).
		MarginBottom(1).
		Align(lipgloss.Center)

	s.WelcomeTitle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true).
		MarginBottom(1)

	s.WelcomeIcon = lipgloss.NewStyle().
		Foreground(p.Link).
		MarginBottom(1)

	s.ConfigHeader = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true).
		MarginBottom(1).
		Align(lipgloss.Center)

	s.ConfigTitle = lipgloss.NewStyle().
		Foreground(p.Text).
		Bold(true).
		MarginBottom(1).
		PaddingLeft(1)

	s.ConfigPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(1, 2)

	s.ConfigSectionTitle = lipgloss.NewStyle().
		Foreground(p.Link).
		Bold(true).
		MarginTop(1)

	s.ConfigMenuItem = lipgloss.NewStyle().
		Foreground(p.Text).
		PaddingLeft(2)

	s.ConfigMenuSelected = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	s.ConfigCursor = lipgloss.NewStyle().
		Foreground(p.Accent)

	s.ConfigValue = lipgloss.NewStyle().
		Foreground(s.TextDim)

	s.ConfigEnabled = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9ece6a")) // Green

	s.ConfigDisabled = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f7768e")) // Red

	s.ConfigPath = lipgloss.NewStyle().
		Foreground(s.TextMute).
		Italic(true)

	s.ConfigFeedback = lipgloss.NewStyle().
		Foreground(s.TextDim).
		Italic(true).
		MarginTop(1)

	s.ConfigStatusBar = lipgloss.NewStyle().
		Foreground(s.TextMute).
		MarginTop(1).
		Align(lipgloss.Center)

	return s
}

// DefaultStyles builds styles from the default palette, for output
// rendered before any config is loaded.
func DefaultStyles() Styles {
	return NewStyles(render.DefaultPalette())
}

// FormatError returns a styled error message with additional context.
// It extracts details from the structured error types when available.
func (s Styles) FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(s.ErrorText.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(s.Muted.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if code := errors.GetErrorCode(err); code != errors.ErrCodeUnknown {
		sb.WriteString(s.Muted.Render(fmt.Sprintf("\n  Error Code: %d (%s)", code, code.String())))
	}

	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(s.Muted.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	// Show the response body if available, otherwise a hint per class
	if body := errors.GetResponseBody(err); body != "" {
		sb.WriteString(s.Muted.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
	} else {
		switch {
		case errors.IsAuthError(err):
			sb.WriteString(s.Muted.Render("\n  Hint: Check your API key with 'huechat config'"))
		case errors.IsRateLimitError(err):
			sb.WriteString(s.Muted.Render("\n  Hint: You've hit the usage limit. Try again later or use a different model"))
		case errors.IsNetworkError(err):
			sb.WriteString(s.Muted.Render("\n  Hint: Check your internet connection and try again"))
		case errors.IsTimeoutError(err):
			sb.WriteString(s.Muted.Render("\n  Hint: Request timed out. Try again or check your connection"))
		}
	}

	return sb.String()
}

// PrintError prints a styled error message to stderr.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, DefaultStyles().FormatError(err))
}
