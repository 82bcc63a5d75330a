package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrNoSelection is returned when neither a file nor piped input is given.
var ErrNoSelection = errors.New("no code to review: pass a file or pipe code on stdin")

// selectionSource reads the code under review from a file or stdin.
type selectionSource struct {
	path  string
	stdin io.Reader
	isTTY func() bool
}

func newSelectionSource(path string) *selectionSource {
	return &selectionSource{
		path:  path,
		stdin: os.Stdin,
		isTTY: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

// Read returns the selected text.
func (s *selectionSource) Read() (string, error) {
	if s.path != "" {
		data, err := os.ReadFile(s.path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", s.path, err)
		}
		return string(data), nil
	}

	if s.isTTY() {
		return "", ErrNoSelection
	}
	data, err := io.ReadAll(s.stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// Name labels the selection in headers and diffs.
func (s *selectionSource) Name() string {
	if s.path == "" {
		return "stdin"
	}
	return s.path
}
