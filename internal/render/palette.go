package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/lucas/huechat/internal/config"
)

// Lightness targets for the derived backgrounds. Dark themes build up
// from near-black and light themes down from near-white, so the model
// bubble always sits between the page background and the accent.
const (
	darkBackgroundLightness  = 0.15
	darkSurfaceLightness     = 0.20
	darkModelBubbleLightness = 0.23

	lightBackgroundLightness  = 0.97
	lightSurfaceLightness     = 0.92
	lightModelBubbleLightness = 0.90

	// minSaturation keeps a near-gray accent from collapsing the derived
	// backgrounds into pure gray.
	minSaturation = 0.1
)

// Colors that do not derive from the accent.
var (
	darkThemeText  = lipgloss.Color("#ffffff")
	lightThemeText = lipgloss.Color("#2c3e50")

	darkThemeBorder  = lipgloss.Color("#4a627a")
	lightThemeBorder = lipgloss.Color("#bdc3c7")

	darkThemeLink  = lipgloss.Color("#5dade2")
	lightThemeLink = lipgloss.Color("#2980b9")

	lightThemeErrorBadge = lipgloss.Color("#e74c3c")
)

// Palette is the set of colors the chat interface draws with. All
// derived colors share the accent's hue; only saturation and lightness
// change with the theme.
type Palette struct {
	// Theme is the palette base, "light" or "dark".
	Theme string

	// Accent is the seed color. It paints the user bubble, the focused
	// input border and other highlights.
	Accent lipgloss.Color

	// Background is the page background.
	Background lipgloss.Color

	// Surface backs the input area, the header and overlay panels.
	Surface lipgloss.Color

	// ModelBubble backs model replies.
	ModelBubble lipgloss.Color

	// Text is the foreground on Background, Surface and ModelBubble.
	Text lipgloss.Color

	// UserText is the foreground on the accent-colored user bubble.
	UserText lipgloss.Color

	Border lipgloss.Color
	Link   lipgloss.Color

	// ErrorBadge and NoticeBadge back transient notifications.
	ErrorBadge  lipgloss.Color
	NoticeBadge lipgloss.Color
}

// DerivePalette builds the interface palette from an accent color and a
// theme name. An unparseable accent falls back to the default accent and
// an unknown theme to the default theme, so the result is always usable.
func DerivePalette(accentHex, theme string) Palette {
	accent, err := colorful.Hex(strings.TrimSpace(accentHex))
	if err != nil {
		accent, _ = colorful.Hex(config.DefaultAccentColor)
	}
	if !config.ValidTheme(theme) {
		theme = config.DefaultTheme
	}

	hue, sat, lightness := accent.Hsl()
	sat = math.Max(minSaturation, sat)

	p := Palette{
		Theme:  theme,
		Accent: lipgloss.Color(accent.Hex()),
	}

	if theme == config.ThemeDark {
		p.Background = hslColor(hue, sat, darkBackgroundLightness)
		p.Surface = hslColor(hue, sat, darkSurfaceLightness)
		p.ModelBubble = hslColor(hue, sat, darkModelBubbleLightness)
		p.Text = darkThemeText
		p.Border = darkThemeBorder
		p.Link = darkThemeLink
		// On dark backgrounds the badges are dimmed versions of the accent.
		p.ErrorBadge = scaleValue(accent, 1.0/1.5)
		p.NoticeBadge = scaleValue(accent, 1.0/1.2)
	} else {
		p.Background = hslColor(hue, sat, lightBackgroundLightness)
		p.Surface = hslColor(hue, sat, lightSurfaceLightness)
		p.ModelBubble = hslColor(hue, sat, lightModelBubbleLightness)
		p.Text = lightThemeText
		p.Border = lightThemeBorder
		p.Link = lightThemeLink
		p.ErrorBadge = lightThemeErrorBadge
		p.NoticeBadge = scaleValue(accent, 1.2)
	}

	// Pick the user bubble foreground for contrast against the accent.
	if lightness < 0.5 {
		p.UserText = lipgloss.Color("#ffffff")
	} else {
		p.UserText = lipgloss.Color("#000000")
	}

	return p
}

// DefaultPalette returns the palette for the default configuration.
func DefaultPalette() Palette {
	return DerivePalette(config.DefaultAccentColor, config.DefaultTheme)
}

// PaletteFromConfig derives the palette from the user configuration.
func PaletteFromConfig(cfg config.Config) Palette {
	return DerivePalette(cfg.AccentColor, cfg.Theme)
}

func hslColor(h, s, l float64) lipgloss.Color {
	return lipgloss.Color(colorful.Hsl(h, s, l).Hex())
}

// scaleValue brightens (factor > 1) or dims (factor < 1) a color by
// scaling its HSV value channel.
func scaleValue(c colorful.Color, factor float64) lipgloss.Color {
	h, s, v := c.Hsv()
	v = math.Min(1, v*factor)
	return lipgloss.Color(colorful.Hsv(h, s, v).Hex())
}
