// Package config handles configuration loading and validation for refix.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// AuthMode selects how the API key is attached to requests.
type AuthMode string

const (
	// AuthHeader sends the key as "X-API-KEY: <key>".
	AuthHeader AuthMode = "header"
	// AuthBearer sends the key as "Authorization: Bearer <key>".
	AuthBearer AuthMode = "bearer"
)

// IsValid reports whether m is a supported auth mode.
func (m AuthMode) IsValid() bool {
	switch m {
	case AuthHeader, AuthBearer:
		return true
	default:
		return false
	}
}

// Config holds the application configuration. Credentials are not part of
// the file; they live in the settings store.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Review   ReviewConfig   `yaml:"review"`
	TUI      TUIConfig      `yaml:"tui"`
	Database DatabaseConfig `yaml:"database"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// APIConfig configures the review API client.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Auth    AuthMode      `yaml:"auth"`
	Timeout time.Duration `yaml:"timeout"` // 0 disables the client-side timeout
}

// ReviewConfig configures review generation and the panel.
type ReviewConfig struct {
	// Models lists the display names of the reviewing models, used as the
	// initial set of view tabs before any result arrives.
	Models []string `yaml:"models"`
	// BundleDir is the local resource root handed to external webviews.
	BundleDir string `yaml:"bundle_dir"`
	// Mode is the default generate-review mode.
	Mode string `yaml:"mode"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DatabaseConfig tunes the SQLite connection pool.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultBaseURL is the API root used when none is configured.
const DefaultBaseURL = "http://127.0.0.1:8000/api/v1"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Auth:    AuthHeader,
		},
		Review: ReviewConfig{
			Models: []string{
				"Gemini (Balanced)",
				"Claude (Fast Check)",
				"GPT-4o (Strict Audit)",
			},
			BundleDir: "dist",
			Mode:      "balanced",
		},
		TUI: TUIConfig{
			Theme: "tokyo-night",
		},
		Database: DatabaseConfig{
			MaxOpenConns: 2,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.Auth == "" {
		c.API.Auth = defaults.API.Auth
	}
	if len(c.Review.Models) == 0 {
		c.Review.Models = defaults.Review.Models
	}
	if c.Review.BundleDir == "" {
		c.Review.BundleDir = defaults.Review.BundleDir
	}
	if c.Review.Mode == "" {
		c.Review.Mode = defaults.Review.Mode
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// BundlePath returns the absolute bundle directory. Relative paths resolve
// against the data directory.
func (c *Config) BundlePath() string {
	if filepath.IsAbs(c.Review.BundleDir) {
		return c.Review.BundleDir
	}
	return filepath.Join(c.DataDir, c.Review.BundleDir)
}

// LogFile returns the default log file location.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "refix.log")
}
