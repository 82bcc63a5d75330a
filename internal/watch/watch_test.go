package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	other := filepath.Join(dir, "other.go")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	w, err := NewFileWatcher(path, 20*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("c"), 0o644))

	select {
	case got := <-w.Changes():
		want, err := filepath.Abs(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestFileWatcher_RunStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	w, err := NewFileWatcher(path, 0, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	_, ok := <-w.Changes()
	assert.False(t, ok)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestFileWatcher_LogsWithComponentKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	out := &lockedBuffer{}
	w, err := NewFileWatcher(path, 10*time.Millisecond, zerolog.New(out))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))

	select {
	case <-w.Changes():
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
	assert.Contains(t, out.String(), `"cmp":"file-watcher"`)
	assert.NotContains(t, out.String(), `"component"`)
}
