// Package iojson reads and writes JSON for commands run with --json.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Error is the shape of errors written in JSON mode.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// fallbackError is written when an Error itself cannot be marshaled.
func fallbackError(msg string, err error) string {
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(err.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// MarshalError renders an Error as indented JSON.
func MarshalError(msg string, data map[string]any) string {
	bits, err := json.MarshalIndent(Error{Message: msg, Data: data}, "", "  ")
	if err != nil {
		return fallbackError(msg, err)
	}
	return string(bits)
}

// WriteErrorTo writes an Error to w.
func WriteErrorTo(w io.Writer, msg string, data map[string]any) error {
	_, err := fmt.Fprintln(w, MarshalError(msg, data))
	return err
}

// WriteError writes an Error to stderr.
func WriteError(msg string, data map[string]any) error {
	return WriteErrorTo(os.Stderr, msg, data)
}

// WriteWith writes obj as indented JSON to w. Marshal failures are reported
// on ew.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return WriteErrorTo(ew, "marshal output", map[string]any{"json_error": err.Error()})
	}
	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write writes obj to stdout.
func Write(obj any) error {
	return WriteWith(os.Stdout, os.Stderr, obj)
}
