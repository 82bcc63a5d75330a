package host

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Editor is a text buffer the host can replace.
type Editor interface {
	Name() string
	Text(ctx context.Context) (string, error)
	// ReplaceAll swaps the whole buffer for text as a single edit.
	ReplaceAll(ctx context.Context, text string) error
}

// Workspace tracks the active editor. The zero value has none.
type Workspace struct {
	mu     sync.RWMutex
	active Editor
}

// SetActive makes e the active editor. nil clears it.
func (w *Workspace) SetActive(e Editor) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = e
}

// Active returns the active editor, or nil.
func (w *Workspace) Active() Editor {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.active
}

// FileEditor edits a file on disk.
type FileEditor struct {
	path string
}

// NewFileEditor returns an editor for path.
func NewFileEditor(path string) *FileEditor {
	return &FileEditor{path: path}
}

// Name returns the file path.
func (f *FileEditor) Name() string { return f.path }

// Text returns the file contents.
func (f *FileEditor) Text(_ context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.path, err)
	}
	return string(data), nil
}

// ReplaceAll writes text to a temp file in the same directory and renames it
// over the original, so readers never observe a partial write. The original
// file mode is kept.
func (f *FileEditor) ReplaceAll(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(f.path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", f.path, err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".refix-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
