// Package tui is the terminal rendition of the review panel. It holds the
// panel state and speaks the webview side of the panel protocol.
package tui

import (
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/refixai/refix/internal/core/protocol"
	"github.com/refixai/refix/internal/core/review"
	"github.com/refixai/refix/internal/core/styles"
	"github.com/refixai/refix/internal/tui/diff"
	"github.com/refixai/refix/internal/tui/notify"
	"github.com/refixai/refix/internal/webview"
)

// Conn is the webview end of a panel connection.
type Conn interface {
	Post(msg protocol.HostMessage) error
	Messages() <-chan protocol.WebviewMessage
}

// Options configures a Model.
type Options struct {
	Conn Conn
	// Bus delivers host notifications as toasts. Optional.
	Bus *notify.Bus
	// Models seeds the view tabs before the first result arrives.
	Models []string
	// Title names the document under review.
	Title  string
	Logger zerolog.Logger
}

type (
	webviewMsg    struct{ msg protocol.WebviewMessage }
	connClosedMsg struct{}
	postFailedMsg struct{ err error }
)

// Model is the review panel UI.
type Model struct {
	conn    Conn
	bus     *notify.Bus
	state   *webview.State
	toasts  *ToastController
	spinner spinner.Model
	diff    diff.Viewer
	keys    keyMap
	title   string
	log     zerolog.Logger

	cursor   int
	width    int
	height   int
	quitting bool
}

// New returns a model bound to opts.Conn.
func New(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.TitleStyle

	title := opts.Title
	if title == "" {
		title = "selection"
	}

	return Model{
		conn:    opts.Conn,
		bus:     opts.Bus,
		state:   webview.NewState(opts.Models, opts.Logger),
		toasts:  NewToastController(),
		spinner: s,
		diff:    diff.NewViewer(),
		keys:    defaultKeyMap(),
		title:   title,
		log:     opts.Logger,
	}
}

// Init announces readiness and starts listening for host messages.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.post(protocol.Ready{}), listen(m.conn)}
	if m.bus != nil {
		cmds = append(cmds, m.bus.Listen())
	}
	return tea.Batch(cmds...)
}

func listen(conn Conn) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-conn.Messages()
		if !ok {
			return connClosedMsg{}
		}
		return webviewMsg{msg: msg}
	}
}

func (m Model) post(msg protocol.HostMessage) tea.Cmd {
	conn := m.conn
	return func() tea.Msg {
		if err := conn.Post(msg); err != nil {
			return postFailedMsg{err: err}
		}
		return nil
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeDiff()
		return m, nil
	case webviewMsg:
		return m.handleWebviewMsg(msg.msg)
	case connClosedMsg:
		m.quitting = true
		return m, tea.Quit
	case postFailedMsg:
		m.log.Error().Err(msg.err).Msg("post to host failed")
		return m, nil
	case notify.Msg:
		cmds := []tea.Cmd{m.bus.Listen()}
		m.toasts.Push(msg.Notification)
		if !m.toasts.Ticking() {
			m.toasts.SetTicking(true)
			cmds = append(cmds, scheduleToastTick())
		}
		return m, tea.Batch(cmds...)
	case toastTickMsg:
		m.toasts.Tick(toastTickInterval)
		if m.toasts.HasToasts() {
			return m, scheduleToastTick()
		}
		m.toasts.SetTicking(false)
		return m, nil
	case spinner.TickMsg:
		if !m.state.Inspecting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleWebviewMsg(msg protocol.WebviewMessage) (tea.Model, tea.Cmd) {
	m.state.Apply(msg)
	switch msg.(type) {
	case protocol.CodeSelected:
		m.cursor = 0
		m.diff.SetFile(nil)
	case protocol.ReviewResult:
		m.clampCursor()
	}
	return m, listen(m.conn)
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.Dismiss()
		return m, nil
	case key.Matches(msg, m.keys.Inspect):
		req, ok := m.state.BeginInspect()
		if !ok {
			return m, nil
		}
		return m, tea.Batch(m.post(req), m.spinner.Tick)
	}

	if m.state.Mode() == webview.ModeDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleDetailKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.state.BackToList()
		m.diff.SetFile(nil)
		return m, nil
	case key.Matches(msg, m.keys.Apply):
		req, ok := m.state.ApplySelected()
		if !ok {
			return m, nil
		}
		return m, m.post(req)
	}

	var cmd tea.Cmd
	m.diff, cmd = m.diff.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.state.CycleTab(1)
		m.cursor = 0
	case key.Matches(msg, m.keys.PrevTab):
		m.state.CycleTab(-1)
		m.cursor = 0
	case key.Matches(msg, m.keys.Filter):
		m.state.CycleFilter()
		m.cursor = 0
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampCursor()
	case key.Matches(msg, m.keys.Open):
		m.openRow()
	case key.Matches(msg, m.keys.Clear):
		m.state.Clear()
		m.cursor = 0
		m.diff.SetFile(nil)
	}
	return m, nil
}

func (m *Model) openRow() {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return
	}

	r := rows[m.cursor]
	if r.issue != nil {
		m.state.ToggleIssue(r.issue.IssueID)
		m.clampCursor()
		return
	}
	m.selectSuggestion(r.suggestion)
}

func (m *Model) selectSuggestion(sug review.Suggestion) {
	m.state.Select(sug)

	f, err := webview.SuggestionDiff(m.title, m.state.Code, sug.Suggestion)
	if err != nil {
		m.log.Warn().Err(err).Str("suggestion_id", sug.ID).Msg("build suggestion diff")
		f = nil
	}
	m.diff.SetFile(f)
	m.resizeDiff()
}

// row is one selectable line of the results list. On the consolidated tab
// issues are rows and the suggestions of the expanded issue follow it.
type row struct {
	issue      *review.ConsolidatedIssue
	suggestion review.Suggestion
}

func (m Model) rows() []row {
	if m.state.ActiveTab != webview.ConsolidatedTab {
		filtered := m.state.Filtered()
		out := make([]row, 0, len(filtered))
		for _, s := range filtered {
			out = append(out, row{suggestion: s})
		}
		return out
	}

	var out []row
	for i := range m.state.Consolidated {
		issue := &m.state.Consolidated[i]
		out = append(out, row{issue: issue})
		if issue.IssueID != m.state.ExpandedIssue {
			continue
		}
		for _, s := range issue.Suggestions {
			out = append(out, row{suggestion: s})
		}
	}
	return out
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	m.cursor = min(m.cursor, n-1)
	m.cursor = max(m.cursor, 0)
}
