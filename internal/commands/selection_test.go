package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionSource_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x.py")
	require.NoError(t, os.WriteFile(p, []byte("print(1)\n"), 0o644))

	src := newSelectionSource(p)
	text, err := src.Read()
	require.NoError(t, err)
	assert.Equal(t, "print(1)\n", text)
	assert.Equal(t, p, src.Name())
}

func TestSelectionSource_Stdin(t *testing.T) {
	src := &selectionSource{stdin: strings.NewReader("piped"), isTTY: func() bool { return false }}

	text, err := src.Read()
	require.NoError(t, err)
	assert.Equal(t, "piped", text)
	assert.Equal(t, "stdin", src.Name())
}

func TestSelectionSource_TerminalWithoutFile(t *testing.T) {
	src := &selectionSource{stdin: strings.NewReader("ignored"), isTTY: func() bool { return true }}

	_, err := src.Read()
	require.ErrorIs(t, err, ErrNoSelection)
}

func TestSelectionSource_MissingFile(t *testing.T) {
	_, err := newSelectionSource(filepath.Join(t.TempDir(), "nope")).Read()
	require.Error(t, err)
}
