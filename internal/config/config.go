// Package config handles persistent configuration for huechat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme names understood by the interface.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Defaults applied when the config file is missing or a field is invalid.
const (
	DefaultTheme       = ThemeLight
	DefaultAccentColor = "#3498db"
	DefaultModelName   = "gemini-2.5-flash"
)

// Config represents the user configuration
type Config struct {
	// APIKey authenticates against the Gemini API. Empty means unconfigured;
	// the chat window shows a persistent notification until it is set.
	APIKey string `json:"api_key"`
	// Theme selects the palette base, "light" or "dark".
	Theme string `json:"theme"`
	// AccentColor is the hex seed color the rest of the palette derives from.
	AccentColor string `json:"accent_color"`
	// DefaultModel is used when no --model flag is given.
	DefaultModel    string `json:"default_model"`
	Verbose         bool   `json:"verbose"`
	CopyToClipboard bool   `json:"copy_to_clipboard"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		APIKey:          "",
		Theme:           DefaultTheme,
		AccentColor:     DefaultAccentColor,
		DefaultModel:    DefaultModelName,
		Verbose:         false,
		CopyToClipboard: false,
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".huechat")
	return configDir, nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// Use 0o700 for sensitive directories (contains the API key)
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetHistoryDir returns the directory where saved conversations live
func GetHistoryDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "history"), nil
}

// ValidTheme reports whether the value names a known theme.
func ValidTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark
}

// NormalizeAccentColor validates a hex color string and returns its
// canonical lowercase #rrggbb form. Both #rgb and #rrggbb inputs are
// accepted.
func NormalizeAccentColor(value string) (string, bool) {
	c, err := colorful.Hex(strings.TrimSpace(value))
	if err != nil {
		return "", false
	}
	return c.Hex(), true
}

// LoadConfig loads the configuration from disk. Missing files yield
// defaults; a malformed file yields defaults plus an error the caller
// may surface as a warning. An invalid theme or accent color reverts
// only that field.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if !ValidTheme(cfg.Theme) {
		fmt.Fprintf(os.Stderr, "Warning: invalid theme %q in config, reverting to default\n", cfg.Theme)
		cfg.Theme = DefaultTheme
	}
	if normalized, ok := NormalizeAccentColor(cfg.AccentColor); ok {
		cfg.AccentColor = normalized
	} else {
		fmt.Fprintf(os.Stderr, "Warning: invalid accent color %q in config, reverting to default\n", cfg.AccentColor)
		cfg.AccentColor = DefaultAccentColor
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultModelName
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Use 0o600 for sensitive files (config contains the API key)
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// AvailableModels returns a list of available model names
func AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-2.5-pro",
		"gemini-2.0-flash",
	}
}
