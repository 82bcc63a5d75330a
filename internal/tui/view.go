package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/refixai/refix/internal/core/review"
	"github.com/refixai/refix/internal/core/styles"
	"github.com/refixai/refix/internal/webview"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	// paneChrome is the border plus horizontal padding of a pane.
	paneChrome = 4
	// detailHeaderLines precede the diff in the detail view.
	detailHeaderLines = 3
)

// View implements tea.Model.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	w, h := m.size()
	editorW, resultsW, bodyH := layout(w, h)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.PaneStyle.Width(editorW).Height(bodyH).Render(m.renderEditor(editorW-paneChrome, bodyH-2)),
		styles.PaneFocusedStyle.Width(resultsW).Height(bodyH).Render(m.renderResults(resultsW-paneChrome, bodyH-2)),
	)
	content := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(w), body, m.renderFooter(w))

	if m.toasts.HasToasts() {
		content = overlayToasts(m.toasts, content, w, h)
	}
	return content
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w == 0 {
		w = defaultWidth
	}
	if h == 0 {
		h = defaultHeight
	}
	return w, h
}

// layout splits the screen into the editor and results panes. Header and
// footer take one line each.
func layout(w, h int) (editorW, resultsW, bodyH int) {
	editorW = w * 2 / 5
	resultsW = w - editorW
	bodyH = max(h-2, 4)
	return editorW, resultsW, bodyH
}

func (m *Model) resizeDiff() {
	w, h := m.size()
	_, resultsW, bodyH := layout(w, h)
	m.diff.SetSize(resultsW-paneChrome, bodyH-2-detailHeaderLines)
}

func (m Model) renderHeader(width int) string {
	parts := []string{
		styles.TitleStyle.Render(styles.IconRobot + " Refix"),
		styles.ValueStyle.Render(m.title),
		styles.LabelStyle.Render(m.state.Language),
	}
	if m.state.Inspecting {
		parts = append(parts, m.spinner.View()+" "+styles.LabelStyle.Render("inspecting"))
	}
	return ansi.Truncate(strings.Join(parts, "  "), width, "…")
}

func (m Model) renderFooter(width int) string {
	if m.state.LastError != "" {
		return ansi.Truncate(styles.SeverityHighStyle.Render(m.state.LastError), width, "…")
	}

	bindings := m.keys.listHelp()
	if m.state.Mode() == webview.ModeDetail {
		bindings = m.keys.detailHelp()
	}
	return ansi.Truncate(styles.HelpStyle.Render(helpLine(bindings)), width, "…")
}

// renderEditor shows the code with line numbers, scrolled so the
// highlighted line is visible.
func (m Model) renderEditor(width, height int) string {
	if strings.TrimSpace(m.state.Code) == "" {
		return styles.EmptyStyle.Render("Select code in the editor to start a review")
	}

	lines := strings.Split(m.state.Code, "\n")
	offset := 0
	if hl := m.state.HighlightLine; hl > height {
		offset = min(hl-height/2, max(len(lines)-height, 0))
	}
	end := min(offset+height, len(lines))

	out := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		gutter := styles.LineNumberStyle.Render(fmt.Sprintf("%4d ", i+1))
		text := ansi.Truncate(strings.ReplaceAll(lines[i], "\t", "    "), max(width-5, 1), "…")
		if i+1 == m.state.HighlightLine {
			text = styles.HighlightLine.Width(max(width-5, 1)).Render(text)
		}
		out = append(out, gutter+text)
	}
	return strings.Join(out, "\n")
}

func (m Model) renderResults(width, height int) string {
	if m.state.Mode() == webview.ModeDetail {
		return m.renderDetail(width)
	}

	head := []string{m.renderTabs(width), m.renderFilters(width), ""}
	return strings.Join(append(head, m.renderList(width, height-len(head))), "\n")
}

func (m Model) renderTabs(width int) string {
	tabs := m.state.Tabs()
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		style := styles.TabInactiveStyle
		if t == m.state.ActiveTab {
			style = styles.TabActiveStyle
		}
		parts = append(parts, style.Render(t))
	}
	return ansi.Truncate(strings.Join(parts, styles.DividerStyle.Render(" │ ")), width, "…")
}

func (m Model) renderFilters(width int) string {
	counts := m.state.Counts()
	parts := make([]string, 0, len(webview.Filters))
	for _, f := range webview.Filters {
		style := styles.TabInactiveStyle
		if f == m.state.ActiveFilter {
			style = styles.TabActiveStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s %d", f.Label(), counts[f])))
	}
	return ansi.Truncate(strings.Join(parts, "  "), width, "…")
}

func (m Model) renderList(width, height int) string {
	rows := m.rows()
	if len(rows) == 0 {
		switch {
		case m.state.Inspecting:
			return m.spinner.View() + " " + styles.LabelStyle.Render("Waiting for the models...")
		case m.state.Code == "":
			return ""
		default:
			return styles.EmptyStyle.Render("No suggestions. Press i to inspect.")
		}
	}

	height = max(height, 1)
	offset := 0
	if m.cursor >= height {
		offset = m.cursor - height + 1
	}
	end := min(offset+height, len(rows))

	out := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		line := ansi.Truncate(m.renderRow(rows[i]), max(width-2, 1), "…")
		if i == m.cursor {
			out = append(out, styles.ListSelectedStyle.Render("> "+line))
			continue
		}
		out = append(out, styles.ListNormalStyle.Render("  "+line))
	}
	return strings.Join(out, "\n")
}

func (m Model) renderRow(r row) string {
	if r.issue != nil {
		marker := "▸"
		if r.issue.IssueID == m.state.ExpandedIssue {
			marker = "▾"
		}
		return fmt.Sprintf("%s L%d %s %s", marker, r.issue.LineNumber, r.issue.Title,
			styles.ModelTagStyle.Render(strings.Join(r.issue.ParticipatingAIs, ", ")))
	}

	s := r.suggestion
	line := fmt.Sprintf("L%d %s %s", s.LineNumber, styles.CategoryStyle.Render("["+s.Category+"]"), s.Description)
	if m.state.ActiveTab == webview.ConsolidatedTab {
		line = "  " + styles.ModelTagStyle.Render(s.ModelName) + " " + line
	}
	return line
}

func (m Model) renderDetail(width int) string {
	s := m.state.Selected
	meta := strings.Join([]string{
		styles.CategoryStyle.Render(s.Category),
		styles.ModelTagStyle.Render(s.ModelName),
		styles.LabelStyle.Render(fmt.Sprintf("line %d", s.LineNumber)),
	}, "  ")

	return strings.Join([]string{
		meta,
		ansi.Truncate(describe(*s), width, "…"),
		"",
		m.diff.View(),
	}, "\n")
}

func describe(s review.Suggestion) string {
	if s.Description == "" {
		return styles.EmptyStyle.Render("No description")
	}
	return styles.ValueStyle.Render(s.Description)
}

// helpLine renders bindings for the short help.
func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
