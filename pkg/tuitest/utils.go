// Package tuitest provides helpers for testing bubbletea models.
package tuitest

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes escape codes and trailing spaces so rendered views can
// be compared as plain text.
func StripANSI(s string) string {
	lines := strings.Split(ansi.Strip(s), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// KeyPress creates a key press message for a single rune.
func KeyPress(key rune) tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: key, Text: string(key)})
}

// Key creates a key press message for a special key such as tea.KeyEnter.
func Key(code rune) tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: code})
}

// ShiftTab creates a shift+tab key press message.
func ShiftTab() tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: tea.KeyTab, Mod: tea.ModShift})
}

// WindowSize creates a window size message.
func WindowSize(w, h int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: w, Height: h}
}

// Drain runs cmd and every command it produces, feeding messages to update.
// Batches are flattened. It stops after limit messages so ticking commands
// cannot loop forever.
func Drain(cmd tea.Cmd, update func(tea.Msg) tea.Cmd, limit int) {
	queue := []tea.Cmd{cmd}
	for n := 0; len(queue) > 0 && n < limit; {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg == nil {
			continue
		}
		n++
		queue = append(queue, update(msg))
	}
}
