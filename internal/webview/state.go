package webview

import (
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/refixai/refix/internal/core/protocol"
	"github.com/refixai/refix/internal/core/review"
)

// Mode is what the results pane is showing.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
)

// State is the review panel's local UI state. It is not safe for concurrent
// use; the owning UI loop serialises access.
type State struct {
	Code     string
	Language string

	RawResults   []review.InspectionResult
	Consolidated []review.ConsolidatedIssue
	all          []review.Suggestion

	ActiveTab    string
	ActiveFilter Filter
	Selected     *review.Suggestion
	// HighlightLine is the 1-based line highlighted in the editor pane, 0 for
	// none.
	HighlightLine int
	// ExpandedIssue is the issue id open in the consolidated view.
	ExpandedIssue string
	Inspecting    bool
	LastError     string

	models []string
	log    zerolog.Logger
}

// NewState returns an empty state. models seeds the view tabs before any
// result arrives.
func NewState(models []string, log zerolog.Logger) *State {
	return &State{
		Language:     DefaultLanguage,
		ActiveTab:    ConsolidatedTab,
		ActiveFilter: FilterAll,
		models:       slices.Clone(models),
		log:          log,
	}
}

// Apply folds a host message into the state.
func (s *State) Apply(msg protocol.WebviewMessage) {
	switch m := msg.(type) {
	case protocol.CodeSelected:
		s.SetCode(m.Text)
	case protocol.ReviewResult:
		s.Inspecting = false
		if m.Error != "" {
			s.LastError = m.Error
			s.log.Error().Str("error", m.Error).Msg("review result error")
			return
		}
		s.LastError = ""
		s.install(m.Results)
	default:
		s.log.Warn().Str("command", string(msg.Command())).Msg("unhandled webview message")
	}
}

// SetCode replaces the editor content, re-detects its language and drops
// every result derived from the previous code.
func (s *State) SetCode(code string) {
	s.Code = code
	if lang := DetectLanguage(code); lang != "" {
		s.Language = lang
	}
	s.resetResults()
}

// Clear empties the workspace.
func (s *State) Clear() {
	s.Code = ""
	s.LastError = ""
	s.resetResults()
}

func (s *State) resetResults() {
	s.RawResults = nil
	s.Consolidated = nil
	s.all = nil
	s.Selected = nil
	s.HighlightLine = 0
	s.ExpandedIssue = ""
}

func (s *State) install(p *protocol.InspectionPayload) {
	s.resetResults()
	if p != nil {
		s.RawResults = p.RawResults
		s.Consolidated = p.ConsolidatedIssues
	}
	s.all = AllSuggestions(s.RawResults)
	s.ActiveTab = ConsolidatedTab
}

// BeginInspect marks an inspection in flight and returns the request to post.
// It returns false when there is no code or one is already running.
func (s *State) BeginInspect() (protocol.InspectCode, bool) {
	if s.Inspecting || strings.TrimSpace(s.Code) == "" {
		return protocol.InspectCode{}, false
	}
	s.Inspecting = true
	s.LastError = ""
	return protocol.InspectCode{Code: s.Code, Language: s.Language}, true
}

// AllSuggestions returns the flattened suggestions of the current results.
func (s *State) AllSuggestions() []review.Suggestion {
	return s.all
}

// Filtered returns the suggestions visible under the active tab and filter.
func (s *State) Filtered() []review.Suggestion {
	return FilterSuggestions(s.all, s.ActiveTab, s.ActiveFilter)
}

// Counts returns the per-filter badge counts for the active tab.
func (s *State) Counts() map[Filter]int {
	return FilterCounts(s.all, s.ActiveTab)
}

// Tabs returns the available view tabs.
func (s *State) Tabs() []string {
	return Tabs(s.models, s.RawResults)
}

// Mode reports whether a suggestion is open.
func (s *State) Mode() Mode {
	if s.Selected != nil {
		return ModeDetail
	}
	return ModeList
}

// SetTab switches view and returns to the list.
func (s *State) SetTab(tab string) {
	s.ActiveTab = tab
	s.BackToList()
}

// CycleTab moves to the next (delta 1) or previous (delta -1) tab.
func (s *State) CycleTab(delta int) {
	tabs := s.Tabs()
	i := slices.Index(tabs, s.ActiveTab)
	s.SetTab(tabs[wrap(i+delta, len(tabs))])
}

// SetFilter changes the category filter.
func (s *State) SetFilter(f Filter) {
	s.ActiveFilter = f
}

// CycleFilter moves to the next filter.
func (s *State) CycleFilter() {
	i := slices.Index(Filters, s.ActiveFilter)
	s.ActiveFilter = Filters[wrap(i+1, len(Filters))]
}

// Select opens the detail view for sug and highlights its line.
func (s *State) Select(sug review.Suggestion) {
	s.Selected = &sug
	s.HighlightLine = sug.LineNumber
}

// BackToList closes the detail view and clears the highlight.
func (s *State) BackToList() {
	s.Selected = nil
	s.HighlightLine = 0
}

// ToggleIssue expands the issue, or collapses it if already open. At most
// one issue is open.
func (s *State) ToggleIssue(issueID string) {
	if s.ExpandedIssue == issueID {
		s.ExpandedIssue = ""
		return
	}
	s.ExpandedIssue = issueID
}

// ApplySelected returns the request replacing the editor buffer with the
// selected suggestion. It returns false when nothing is selected or the
// suggestion carries no code.
func (s *State) ApplySelected() (protocol.ApplySuggestion, bool) {
	if s.Selected == nil || s.Selected.Suggestion == "" {
		return protocol.ApplySuggestion{}, false
	}
	return protocol.ApplySuggestion{Text: s.Selected.Suggestion}, true
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}
