package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/refixai/refix/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("api.base_url", c.API.BaseURL, validBaseURL),
		criterio.Run("api.auth", c.API.Auth, validAuthMode),
		criterio.Run("api.timeout", c.API.Timeout, nonNegative),
		criterio.Run("data_dir", c.DataDir, required),
		criterio.Run("review.models", c.Review.Models, uniqueNonEmpty),
		criterio.Run("database.max_open_conns", c.Database.MaxOpenConns, atLeastOne),
		criterio.Run("database.busy_timeout", c.Database.BusyTimeout, atLeastOne),
	)
}

// ValidateDeep runs Validate and then the checks that touch the filesystem
// or depend on other packages (themes).
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("tui.theme", c.TUI.Theme, knownTheme),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if u, err := url.Parse(c.API.BaseURL); err == nil && u.Scheme == "http" && !isLoopback(u.Hostname()) {
		warnings = append(warnings, ValidationWarning{
			Category: "API",
			Item:     "base_url",
			Message:  "API key will be sent over plain http",
		})
	}

	if _, err := os.Stat(c.BundlePath()); os.IsNotExist(err) {
		warnings = append(warnings, ValidationWarning{
			Category: "Review",
			Item:     "bundle_dir",
			Message:  fmt.Sprintf("%s does not exist; external webviews cannot load resources", c.BundlePath()),
		})
	}

	return warnings
}

func isLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func validBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func validAuthMode(m AuthMode) error {
	if !m.IsValid() {
		return fmt.Errorf("must be %q or %q, got %q", AuthHeader, AuthBearer, m)
	}
	return nil
}

func nonNegative(v time.Duration) error {
	if v < 0 {
		return fmt.Errorf("cannot be negative")
	}
	return nil
}

func atLeastOne(v int) error {
	if v < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}

func required(s string) error {
	if s == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

func uniqueNonEmpty(models []string) error {
	for i, m := range models {
		if m == "" {
			return fmt.Errorf("entry %d is empty", i)
		}
		if slices.Index(models, m) != i {
			return fmt.Errorf("duplicate entry %q", m)
		}
	}
	return nil
}

func knownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
