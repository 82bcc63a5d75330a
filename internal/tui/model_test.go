package tui

import (
	"errors"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenotify "github.com/refixai/refix/internal/core/notify"
	"github.com/refixai/refix/internal/core/protocol"
	"github.com/refixai/refix/internal/core/review"
	"github.com/refixai/refix/internal/tui/notify"
	"github.com/refixai/refix/internal/webview"
	"github.com/refixai/refix/pkg/tuitest"
)

type fakeConn struct {
	mu     sync.Mutex
	posted []protocol.HostMessage
	in     chan protocol.WebviewMessage
	err    error
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan protocol.WebviewMessage, 4)}
}

func (c *fakeConn) Post(msg protocol.HostMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.posted = append(c.posted, msg)
	return nil
}

func (c *fakeConn) Messages() <-chan protocol.WebviewMessage { return c.in }

func (c *fakeConn) Posted() []protocol.HostMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]protocol.HostMessage(nil), c.posted...)
}

const sampleCode = "func main() {\n\tfmt.Println(\"hi\")\n\treturn\n}"

func newTestModel(conn *fakeConn) Model {
	m := New(Options{
		Conn:   conn,
		Bus:    notify.NewBus(4),
		Models: []string{"Gemini", "Claude"},
		Title:  "main.go",
		Logger: zerolog.Nop(),
	})
	m, _ = update(m, tuitest.WindowSize(120, 30))
	return m
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// run executes cmd and any batched commands without feeding results back.
func run(cmd tea.Cmd) {
	tuitest.Drain(cmd, func(tea.Msg) tea.Cmd { return nil }, 10)
}

func samplePayload() *protocol.InspectionPayload {
	return &protocol.InspectionPayload{
		RawResults: []review.InspectionResult{{
			ModelName: "Gemini",
			Review: &review.ModelReview{Details: []review.Detail{
				{Category: "Bug", LineNumber: 2, Description: "print is noisy", Suggestion: "func main() {\n\treturn\n}"},
				{Category: "Performance", LineNumber: 3, Description: "redundant return", Suggestion: "func main() {}"},
			}},
		}},
		ConsolidatedIssues: []review.ConsolidatedIssue{{
			IssueID:          "issue-1",
			LineNumber:       2,
			Title:            "Debug output left in",
			ParticipatingAIs: []string{"Gemini"},
			Suggestions: []review.Suggestion{{
				ID: "Gemini-0", ModelName: "Gemini", Category: "Bug", LineNumber: 2,
				Description: "print is noisy", Suggestion: "func main() {\n\treturn\n}",
			}},
		}},
	}
}

func withResults(t *testing.T, conn *fakeConn) Model {
	t.Helper()
	m := newTestModel(conn)
	m, _ = update(m, webviewMsg{msg: protocol.CodeSelected{Text: sampleCode}})
	m, _ = update(m, webviewMsg{msg: protocol.ReviewResult{Results: samplePayload()}})
	require.Len(t, m.state.AllSuggestions(), 2)
	return m
}

func TestModel_InitPostsReady(t *testing.T) {
	conn := newFakeConn()
	m := newTestModel(conn)

	batch, ok := m.Init()().(tea.BatchMsg)
	require.True(t, ok)
	require.NotEmpty(t, batch)

	// The first command posts; the others block on channels.
	assert.Nil(t, batch[0]())
	assert.Equal(t, []protocol.HostMessage{protocol.Ready{}}, conn.Posted())
}

func TestModel_CodeSelected(t *testing.T) {
	conn := newFakeConn()
	m := newTestModel(conn)

	m, cmd := update(m, webviewMsg{msg: protocol.CodeSelected{Text: sampleCode}})
	assert.NotNil(t, cmd, "keeps listening")
	assert.Equal(t, sampleCode, m.state.Code)

	out := tuitest.StripANSI(m.render())
	assert.Contains(t, out, "main.go")
	assert.Contains(t, out, "1 func main() {")
	assert.Contains(t, out, "4 }")
}

func TestModel_InspectPostsOnce(t *testing.T) {
	conn := newFakeConn()
	m := newTestModel(conn)

	m, cmd := update(m, tuitest.KeyPress('i'))
	assert.Nil(t, cmd, "nothing to inspect")

	m, _ = update(m, webviewMsg{msg: protocol.CodeSelected{Text: sampleCode}})
	m, cmd = update(m, tuitest.KeyPress('i'))
	require.NotNil(t, cmd)
	run(cmd)

	require.Len(t, conn.Posted(), 1)
	req, ok := conn.Posted()[0].(protocol.InspectCode)
	require.True(t, ok)
	assert.Equal(t, sampleCode, req.Code)
	assert.True(t, m.state.Inspecting)
	assert.Contains(t, tuitest.StripANSI(m.render()), "inspecting")

	_, cmd = update(m, tuitest.KeyPress('i'))
	assert.Nil(t, cmd, "already inspecting")
}

func TestModel_ReviewResultError(t *testing.T) {
	m := newTestModel(newFakeConn())
	m, _ = update(m, webviewMsg{msg: protocol.ReviewResult{Error: "code is required"}})

	assert.Contains(t, tuitest.StripANSI(m.render()), "code is required")
}

func TestModel_ConsolidatedRows(t *testing.T) {
	m := withResults(t, newFakeConn())
	assert.Equal(t, webview.ConsolidatedTab, m.state.ActiveTab)

	rows := m.rows()
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].issue)

	m, _ = update(m, tuitest.Key(tea.KeyEnter))
	assert.Equal(t, "issue-1", m.state.ExpandedIssue)
	require.Len(t, m.rows(), 2)

	out := tuitest.StripANSI(m.render())
	assert.Contains(t, out, "Debug output left in")
	assert.Contains(t, out, "Gemini L2 [Bug] print is noisy")

	m, _ = update(m, tuitest.KeyPress('j'))
	m, _ = update(m, tuitest.Key(tea.KeyEnter))
	require.Equal(t, webview.ModeDetail, m.state.Mode())
	assert.Equal(t, 2, m.state.HighlightLine)
}

func TestModel_TabsAndFilters(t *testing.T) {
	m := withResults(t, newFakeConn())

	m, _ = update(m, tuitest.Key(tea.KeyTab))
	assert.Equal(t, "Gemini", m.state.ActiveTab)
	assert.Len(t, m.rows(), 2)

	m, _ = update(m, tuitest.KeyPress('f'))
	assert.Equal(t, webview.FilterRepair, m.state.ActiveFilter)
	require.Len(t, m.rows(), 1)
	assert.Equal(t, "Bug", m.rows()[0].suggestion.Category)

	m, _ = update(m, tuitest.ShiftTab())
	assert.Equal(t, webview.ConsolidatedTab, m.state.ActiveTab)
}

func TestModel_DetailAndApply(t *testing.T) {
	conn := newFakeConn()
	m := withResults(t, conn)

	m, _ = update(m, tuitest.Key(tea.KeyTab))
	m, _ = update(m, tuitest.Key(tea.KeyEnter))
	require.Equal(t, webview.ModeDetail, m.state.Mode())

	out := tuitest.StripANSI(m.render())
	assert.Contains(t, out, "print is noisy")
	assert.Contains(t, out, "main.go (-")

	m, cmd := update(m, tuitest.KeyPress('a'))
	require.NotNil(t, cmd)
	run(cmd)
	assert.Equal(t, []protocol.HostMessage{protocol.ApplySuggestion{Text: "func main() {\n\treturn\n}"}}, conn.Posted())

	m, _ = update(m, tuitest.Key(tea.KeyEscape))
	assert.Equal(t, webview.ModeList, m.state.Mode())
	assert.Zero(t, m.state.HighlightLine)
}

func TestModel_CursorClamps(t *testing.T) {
	m := withResults(t, newFakeConn())
	m, _ = update(m, tuitest.Key(tea.KeyTab))

	for range 5 {
		m, _ = update(m, tuitest.KeyPress('j'))
	}
	assert.Equal(t, 1, m.cursor)

	for range 5 {
		m, _ = update(m, tuitest.KeyPress('k'))
	}
	assert.Equal(t, 0, m.cursor)
}

func TestModel_Clear(t *testing.T) {
	m := withResults(t, newFakeConn())
	m, _ = update(m, tuitest.KeyPress('c'))

	assert.Empty(t, m.state.Code)
	assert.Empty(t, m.state.AllSuggestions())
	assert.Contains(t, tuitest.StripANSI(m.render()), "Select code in the editor")
}

func TestModel_ConnClosedQuits(t *testing.T) {
	m := newTestModel(newFakeConn())
	m, cmd := update(m, connClosedMsg{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
}

func TestModel_PostFailureIsReported(t *testing.T) {
	conn := newFakeConn()
	conn.err = errors.New("closed")
	m := newTestModel(conn)

	m, _ = update(m, webviewMsg{msg: protocol.CodeSelected{Text: sampleCode}})
	_, cmd := update(m, tuitest.KeyPress('i'))

	var got []tea.Msg
	tuitest.Drain(cmd, func(msg tea.Msg) tea.Cmd {
		got = append(got, msg)
		return nil
	}, 10)
	assert.Contains(t, got, tea.Msg(postFailedMsg{err: conn.err}))
}

func TestModel_NotificationsBecomeToasts(t *testing.T) {
	m := newTestModel(newFakeConn())

	m, cmd := update(m, notify.Msg{Notification: corenotify.Info("Project ID saved")})
	assert.NotNil(t, cmd)
	assert.True(t, m.toasts.HasToasts())
	assert.True(t, m.toasts.Ticking())
	assert.Contains(t, tuitest.StripANSI(m.render()), "Project ID saved")

	m, _ = update(m, tuitest.KeyPress('x'))
	assert.False(t, m.toasts.HasToasts())

	_, cmd = update(m, toastTickMsg{})
	assert.Nil(t, cmd)
}
