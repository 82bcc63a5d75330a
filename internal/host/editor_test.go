package host

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func TestFileEditor_ReplaceAll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o600))

	ed := NewFileEditor(path)
	require.NoError(t, ed.ReplaceAll(context.Background(), "new\n"))

	text, err := ed.Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new\n", text)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file cleaned up")
}

func TestFileEditor_ReplaceAllCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ed := NewFileEditor(path)
	require.ErrorIs(t, ed.ReplaceAll(ctx, "gone"), context.Canceled)

	text, err := ed.Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "keep", text)
}
