// Package webview holds the review panel's client-side state and the pure
// derivations it renders from.
package webview

import (
	"slices"
	"strconv"

	"github.com/refixai/refix/internal/core/review"
)

// ConsolidatedTab is the view that renders consolidated issues instead of
// per-model suggestions.
const ConsolidatedTab = "AI集約表示"

// Filter bins suggestions by category.
type Filter string

const (
	FilterAll         Filter = "All"
	FilterRepair      Filter = "Repair"
	FilterPerformance Filter = "Performance"
	FilterAdvance     Filter = "Advance"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterRepair, FilterPerformance, FilterAdvance}

var filterCategories = map[Filter][]string{
	FilterRepair:      {"Security", "Bug", "Bug Risk"},
	FilterPerformance: {"Performance"},
	FilterAdvance:     {"Quality", "Readability", "Best Practice", "Design", "Style"},
}

// Label is the sidebar caption.
func (f Filter) Label() string {
	switch f {
	case FilterRepair:
		return "Repair (バグ修正)"
	case FilterPerformance:
		return "Performance (改善)"
	case FilterAdvance:
		return "Advance (品質向上)"
	default:
		return string(f)
	}
}

// Matches reports whether a suggestion of category belongs in the filter.
// FilterAll matches everything; a category outside every bin matches only
// FilterAll.
func (f Filter) Matches(category string) bool {
	if f == FilterAll {
		return true
	}
	return slices.Contains(filterCategories[f], category)
}

// AllSuggestions flattens the details of every result into one list. Ids are
// "<model_name>-<index>" where index counts within that model's list. Order
// follows result order, then detail order.
func AllSuggestions(results []review.InspectionResult) []review.Suggestion {
	var out []review.Suggestion
	for _, r := range results {
		for i, d := range r.Review.Items() {
			out = append(out, review.Suggestion{
				ID:          r.ModelName + "-" + strconv.Itoa(i),
				ModelName:   r.ModelName,
				Category:    d.Category,
				Description: d.Description,
				LineNumber:  d.LineNumber,
				Suggestion:  d.Suggestion,
			})
		}
	}
	return out
}

// FilterSuggestions returns the suggestions shown for activeTab and filter.
// The consolidated tab always yields nothing.
func FilterSuggestions(all []review.Suggestion, activeTab string, filter Filter) []review.Suggestion {
	if activeTab == ConsolidatedTab {
		return nil
	}
	var out []review.Suggestion
	for _, s := range all {
		if s.ModelName == activeTab && filter.Matches(s.Category) {
			out = append(out, s)
		}
	}
	return out
}

// FilterCounts returns the badge count for every filter. On the consolidated
// tab the counts span all models.
func FilterCounts(all []review.Suggestion, activeTab string) map[Filter]int {
	counts := make(map[Filter]int, len(Filters))
	for _, f := range Filters {
		counts[f] = 0
	}
	for _, s := range all {
		if activeTab != ConsolidatedTab && s.ModelName != activeTab {
			continue
		}
		for _, f := range Filters {
			if f.Matches(s.Category) {
				counts[f]++
			}
		}
	}
	return counts
}

// Tabs returns the view tabs: the configured models, then any model seen in
// results that was not configured, then the consolidated tab.
func Tabs(models []string, results []review.InspectionResult) []string {
	tabs := make([]string, 0, len(models)+len(results)+1)
	for _, m := range models {
		if m != "" && !slices.Contains(tabs, m) {
			tabs = append(tabs, m)
		}
	}
	for _, r := range results {
		if r.ModelName != "" && !slices.Contains(tabs, r.ModelName) {
			tabs = append(tabs, r.ModelName)
		}
	}
	return append(tabs, ConsolidatedTab)
}
