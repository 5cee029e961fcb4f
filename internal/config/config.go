// Package config handles the XDG configuration directory and settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

const (
	// AppName is the application directory name.
	AppName = "todoctl"

	// SettingsFile is the optional settings filename inside the config dir.
	SettingsFile = "config.toml"

	// DefaultBaseURL is the public demo task service.
	DefaultBaseURL = "https://jsonplaceholder.typicode.com"

	// BaseURLEnv overrides the base URL from the settings file.
	BaseURLEnv = "TODOCTL_BASE_URL"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the root URL of the remote task service.
	BaseURL string

	// UserAgent is sent with every request. Empty uses the client default.
	UserAgent string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Log is the command logger. Disabled unless Debug is set.
	Log zerolog.Logger
}

// settings mirrors config.toml.
type settings struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
}

// New creates a Config with the default or specified config directory and
// loads config.toml from it when present.
// If configDir is empty, uses XDG_CONFIG_HOME/todoctl or $HOME/.config/todoctl.
// The base URL is resolved as: TODOCTL_BASE_URL, then config.toml, then the
// public demo service.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:     dir,
		BaseURL: DefaultBaseURL,
		Log:     zerolog.Nop(),
	}

	s, err := readSettings(cfg.SettingsPath())
	if err != nil {
		return nil, err
	}
	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}
	cfg.UserAgent = s.UserAgent

	if env := strings.TrimSpace(os.Getenv(BaseURLEnv)); env != "" {
		cfg.BaseURL = env
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to config.toml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// SetBaseURL overrides the base URL (from the --base-url flag).
// Trailing slashes are dropped.
func (c *Config) SetBaseURL(u string) {
	if u = strings.TrimSpace(u); u != "" {
		c.BaseURL = u
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
}

// readSettings loads config.toml. A missing file yields zero settings.
func readSettings(path string) (settings, error) {
	var s settings
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("invalid %s: %w", SettingsFile, err)
	}
	return s, nil
}
