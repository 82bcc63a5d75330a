package webview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refixai/refix/internal/core/review"
)

func details(cats ...string) *review.ModelReview {
	r := &review.ModelReview{}
	for i, c := range cats {
		r.Details = append(r.Details, review.Detail{Category: c, LineNumber: i + 1, Description: c})
	}
	return r
}

func sampleResults() []review.InspectionResult {
	return []review.InspectionResult{
		{ModelName: "Gemini", Review: details("Bug", "Style", "Performance")},
		{ModelName: "Claude", Error: "quota exceeded"},
		{ModelName: "GPT-4o", Review: details("Security", "Naming")},
		{ModelName: "Legacy", Review: &review.ModelReview{Panels: []review.Detail{{Category: "Design"}}}},
	}
}

func TestAllSuggestions(t *testing.T) {
	all := AllSuggestions(sampleResults())

	require.Len(t, all, 6)

	ids := make([]string, 0, len(all))
	for _, s := range all {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"Gemini-0", "Gemini-1", "Gemini-2", "GPT-4o-0", "GPT-4o-1", "Legacy-0"}, ids)
	assert.Equal(t, "Gemini", all[0].ModelName)
	assert.Equal(t, "Bug", all[0].Category)
	assert.Equal(t, 1, all[0].LineNumber)
}

func TestAllSuggestions_Empty(t *testing.T) {
	assert.Empty(t, AllSuggestions(nil))
	assert.Empty(t, AllSuggestions([]review.InspectionResult{{ModelName: "A"}}))
}

func TestFilterSuggestions(t *testing.T) {
	all := AllSuggestions(sampleResults())

	tests := []struct {
		name   string
		tab    string
		filter Filter
		want   []string
	}{
		{name: "all", tab: "Gemini", filter: FilterAll, want: []string{"Gemini-0", "Gemini-1", "Gemini-2"}},
		{name: "repair", tab: "Gemini", filter: FilterRepair, want: []string{"Gemini-0"}},
		{name: "performance", tab: "Gemini", filter: FilterPerformance, want: []string{"Gemini-2"}},
		{name: "advance", tab: "Gemini", filter: FilterAdvance, want: []string{"Gemini-1"}},
		{name: "unbinned category only under all", tab: "GPT-4o", filter: FilterAll, want: []string{"GPT-4o-0", "GPT-4o-1"}},
		{name: "unbinned category excluded", tab: "GPT-4o", filter: FilterAdvance, want: nil},
		{name: "consolidated is empty", tab: ConsolidatedTab, filter: FilterAll, want: nil},
		{name: "consolidated ignores filter", tab: ConsolidatedTab, filter: FilterRepair, want: nil},
		{name: "unknown tab", tab: "Nobody", filter: FilterAll, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterSuggestions(all, tt.tab, tt.filter)
			var ids []string
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)

			again := FilterSuggestions(all, tt.tab, tt.filter)
			assert.Equal(t, got, again)
		})
	}
}

func TestFilterMatches_Disjoint(t *testing.T) {
	bins := []Filter{FilterRepair, FilterPerformance, FilterAdvance}
	for _, cat := range []string{"Security", "Bug", "Bug Risk", "Performance", "Quality", "Readability", "Best Practice", "Design", "Style"} {
		n := 0
		for _, f := range bins {
			if f.Matches(cat) {
				n++
			}
		}
		assert.Equal(t, 1, n, cat)
		assert.True(t, FilterAll.Matches(cat))
	}

	assert.True(t, FilterRepair.Matches("Bug"))
	assert.False(t, FilterPerformance.Matches("Bug"))
	assert.False(t, FilterAdvance.Matches("Bug"))
}

func TestFilterCounts(t *testing.T) {
	all := AllSuggestions(sampleResults())

	gemini := FilterCounts(all, "Gemini")
	assert.Equal(t, map[Filter]int{FilterAll: 3, FilterRepair: 1, FilterPerformance: 1, FilterAdvance: 1}, gemini)

	consolidated := FilterCounts(all, ConsolidatedTab)
	assert.Equal(t, map[Filter]int{FilterAll: 6, FilterRepair: 2, FilterPerformance: 1, FilterAdvance: 2}, consolidated)
}

func TestTabs(t *testing.T) {
	tabs := Tabs([]string{"Gemini", "Claude"}, sampleResults())
	assert.Equal(t, []string{"Gemini", "Claude", "GPT-4o", "Legacy", ConsolidatedTab}, tabs)

	assert.Equal(t, []string{ConsolidatedTab}, Tabs(nil, nil))
}
