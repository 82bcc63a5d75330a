package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, AuthHeader, cfg.API.Auth)
	assert.Zero(t, cfg.API.Timeout)
	assert.Equal(t, []string{"Gemini (Balanced)", "Claude (Fast Check)", "GPT-4o (Strict Audit)"}, cfg.Review.Models)
	assert.Equal(t, dataDir, cfg.DataDir)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "tokyo-night", cfg.TUI.Theme)
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://review.example.com/api/v1
  auth: bearer
  timeout: 30s
tui:
  theme: gruvbox
`)
	dataDir := t.TempDir()

	cfg, err := Load(path, dataDir)
	require.NoError(t, err)

	assert.Equal(t, "https://review.example.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, AuthBearer, cfg.API.Auth)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
	assert.Equal(t, dataDir, cfg.DataDir, "data dir survives unmarshal")

	// untouched sections fall back to defaults
	assert.Len(t, cfg.Review.Models, 3)
	assert.Equal(t, 5000, cfg.Database.BusyTimeout)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "api: [unterminated")

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidAuthMode(t *testing.T) {
	path := writeConfig(t, "api:\n  auth: basic\n")

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.auth")
}

func TestBundlePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data/refix"
	assert.Equal(t, "/data/refix/dist", cfg.BundlePath())

	cfg.Review.BundleDir = "/opt/refix/webview"
	assert.Equal(t, "/opt/refix/webview", cfg.BundlePath())
}

func TestAuthMode_IsValid(t *testing.T) {
	assert.True(t, AuthHeader.IsValid())
	assert.True(t, AuthBearer.IsValid())
	assert.False(t, AuthMode("").IsValid())
	assert.False(t, AuthMode("basic").IsValid())
}
