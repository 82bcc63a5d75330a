// Package diff renders a single-file diff as a scrollable pane.
package diff

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/refixai/refix/internal/core/styles"
)

// headerHeight is the file info line plus its separator.
const headerHeight = 2

// Viewer displays one diff with a line-number gutter.
type Viewer struct {
	file   *gitdiff.File
	lines  []Line
	offset int
	width  int
	height int
}

// NewViewer returns an empty viewer.
func NewViewer() Viewer {
	return Viewer{}
}

// SetFile replaces the diff and scrolls to the top.
func (v *Viewer) SetFile(f *gitdiff.File) {
	v.file = f
	v.lines = Lines(f)
	v.offset = 0
}

// SetSize updates the pane dimensions.
func (v *Viewer) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Offset is the index of the first visible row.
func (v Viewer) Offset() int {
	return v.offset
}

func (v Viewer) contentHeight() int {
	return max(v.height-headerHeight, 1)
}

func (v Viewer) maxOffset() int {
	return max(len(v.lines)-v.contentHeight(), 0)
}

// Update scrolls on j/k, d/u (half page) and g/G.
func (v Viewer) Update(msg tea.Msg) (Viewer, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return v, nil
	}

	half := max(v.contentHeight()/2, 1)
	switch keyMsg.String() {
	case "j", "down":
		v.offset = min(v.offset+1, v.maxOffset())
	case "k", "up":
		v.offset = max(v.offset-1, 0)
	case "d", "ctrl+d":
		v.offset = min(v.offset+half, v.maxOffset())
	case "u", "ctrl+u":
		v.offset = max(v.offset-half, 0)
	case "g":
		v.offset = 0
	case "G":
		v.offset = v.maxOffset()
	}
	return v, nil
}

// View renders the header and the visible rows.
func (v Viewer) View() string {
	if v.file == nil {
		return styles.EmptyStyle.Render("No suggestion selected")
	}
	if len(v.lines) == 0 {
		return v.header() + "\n" + styles.EmptyStyle.Render("Suggestion matches the current code")
	}

	end := min(v.offset+v.contentHeight(), len(v.lines))
	rows := make([]string, 0, end-v.offset)
	for _, l := range v.lines[v.offset:end] {
		rows = append(rows, v.renderLine(l))
	}
	return v.header() + "\n" + strings.Join(rows, "\n")
}

func (v Viewer) header() string {
	added, removed := 0, 0
	for _, l := range v.lines {
		switch l.Type {
		case LineTypeAdd:
			added++
		case LineTypeDelete:
			removed++
		}
	}

	name := v.file.NewName
	if name == "" {
		name = v.file.OldName
	}
	info := styles.TitleStyle.Render(name) + " " +
		styles.HelpStyle.Render(fmt.Sprintf("(-%d, +%d)", removed, added))
	sep := styles.DividerStyle.Render(strings.Repeat("─", max(v.width, 1)))
	return info + "\n" + sep
}

func (v Viewer) renderLine(l Line) string {
	if l.Type == LineTypeHunk {
		return styles.DiffHunkStyle.Render(l.Content)
	}

	gutter := styles.LineNumberStyle.Render(num(l.OldLineNum) + " " + num(l.NewLineNum) + " │")
	var body string
	switch l.Type {
	case LineTypeAdd:
		body = styles.DiffAddedStyle.Render("+" + l.Content)
	case LineTypeDelete:
		body = styles.DiffRemovedStyle.Render("-" + l.Content)
	default:
		body = styles.DiffContextStyle.Render(" " + l.Content)
	}
	row := gutter + body
	if v.width > 0 && lipgloss.Width(row) > v.width {
		row = lipgloss.NewStyle().MaxWidth(v.width).Render(row)
	}
	return row
}

func num(n int) string {
	if n == 0 {
		return "    "
	}
	return fmt.Sprintf("%4s", strconv.Itoa(n))
}
