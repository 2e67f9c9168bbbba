package render

import (
	"testing"

	"github.com/lucas/huechat/internal/config"
)

func TestStyleForTheme(t *testing.T) {
	if got := StyleForTheme(config.ThemeLight); got != "light" {
		t.Errorf("expected 'light', got %q", got)
	}
	if got := StyleForTheme(config.ThemeDark); got != "dark" {
		t.Errorf("expected 'dark', got %q", got)
	}
	// Anything unrecognized renders dark, the safer choice on most terminals.
	if got := StyleForTheme(""); got != "dark" {
		t.Errorf("expected 'dark' for empty theme, got %q", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	cfg := config.DefaultConfig()
	cfg.Theme = config.ThemeDark

	opts := OptionsFromConfig(cfg)
	if opts.Style != "dark" {
		t.Errorf("expected Style='dark', got %s", opts.Style)
	}
	if opts.Width != 80 {
		t.Errorf("expected default width 80, got %d", opts.Width)
	}

	cfg.Theme = config.ThemeLight
	opts = OptionsFromConfig(cfg)
	if opts.Style != "light" {
		t.Errorf("expected Style='light', got %s", opts.Style)
	}
}

func TestOptionsFromConfig_EnvOverride(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "notty")

	opts := OptionsFromConfig(config.DefaultConfig())
	if opts.Style != "notty" {
		t.Errorf("expected Style='notty' from env, got %s", opts.Style)
	}
}

func TestLoadOptionsFromConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GLAMOUR_STYLE", "")

	opts := LoadOptionsFromConfig()

	// No config file on disk, so the default theme decides the style.
	if opts.Style != StyleForTheme(config.DefaultTheme) {
		t.Errorf("expected default theme style, got %s", opts.Style)
	}
	if opts.Width != 80 {
		t.Errorf("expected default width 80, got %d", opts.Width)
	}
}

func TestLoadOptionsFromConfigWithWidth(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GLAMOUR_STYLE", "")

	opts := LoadOptionsFromConfigWithWidth(120)
	if opts.Width != 120 {
		t.Errorf("expected width 120, got %d", opts.Width)
	}
}

func TestLoadOptionsFromConfig_ValidOptions(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GLAMOUR_STYLE", "")

	opts := LoadOptionsFromConfig()

	// The loaded options must produce a working renderer.
	output, err := Markdown("# Test", opts)
	if err != nil {
		t.Fatalf("Markdown render failed with loaded options: %v", err)
	}
	if output == "" {
		t.Error("expected non-empty output")
	}
}
