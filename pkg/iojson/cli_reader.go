package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoInput is returned when no file is given and stdin is a terminal.
var ErrNoInput = errors.New("no input provided (stdin is a terminal); use --file or pipe JSON input")

// FileReader decodes a T from the file named by its flag, or from stdin.
type FileReader[T any] struct {
	path  string
	stdin io.Reader
	isTTY func() bool
}

// Flag returns the --file flag bound to the reader.
func (fr *FileReader[T]) Flag(usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       usage,
		Destination: &fr.path,
	}
}

// Set overrides the file path.
func (fr *FileReader[T]) Set(path string) {
	fr.path = path
}

// Read decodes the input.
func (fr *FileReader[T]) Read() (T, error) {
	var input T

	var r io.Reader
	if fr.path != "" && fr.path != "-" {
		f, err := os.Open(fr.path)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	} else {
		if fr.stdinIsTerminal() {
			return input, ErrNoInput
		}
		r = fr.stdinReader()
	}

	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}
	return input, nil
}

func (fr *FileReader[T]) stdinReader() io.Reader {
	if fr.stdin != nil {
		return fr.stdin
	}
	return os.Stdin
}

func (fr *FileReader[T]) stdinIsTerminal() bool {
	if fr.isTTY != nil {
		return fr.isTTY()
	}
	if fr.stdin != nil {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}
