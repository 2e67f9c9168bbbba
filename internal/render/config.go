package render

import (
	"os"

	"github.com/lucas/huechat/internal/config"
)

// StyleForTheme maps an interface theme to the matching glamour style.
func StyleForTheme(theme string) string {
	if theme == config.ThemeLight {
		return "light"
	}
	return "dark"
}

// OptionsFromConfig derives renderer options from the user configuration.
// The GLAMOUR_STYLE environment variable takes precedence over the theme.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()
	opts.Style = StyleForTheme(cfg.Theme)

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}

	return opts
}

// LoadOptionsFromConfig loads the configuration from disk and derives
// renderer options from it. Load failures fall back to defaults.
func LoadOptionsFromConfig() Options {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return OptionsFromConfig(cfg)
}

// LoadOptionsFromConfigWithWidth loads options from config with a specific width.
func LoadOptionsFromConfigWithWidth(width int) Options {
	opts := LoadOptionsFromConfig()
	opts.Width = width
	return opts
}
