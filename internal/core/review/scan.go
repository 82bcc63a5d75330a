package review

import (
	"cmp"
	"slices"
	"strings"
)

// Severity of a dependency vulnerability.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// rank orders severities from most to least severe; unknown values sort last.
func (s Severity) rank() int {
	switch Severity(strings.ToLower(string(s))) {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// Vulnerability is one finding from a dependency scan. From is the chain of
// packages through which the vulnerable dependency is pulled in.
type Vulnerability struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	From        []string `json:"from"`
}

// ScanResult is the outcome of scanning one manifest.
type ScanResult struct {
	OK              bool            `json:"ok"`
	DependencyCount int             `json:"dependencyCount"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
}

// SortBySeverity orders vulnerabilities critical first, keeping the input
// order within a severity.
func (r *ScanResult) SortBySeverity() {
	slices.SortStableFunc(r.Vulnerabilities, func(a, b Vulnerability) int {
		return cmp.Compare(a.Severity.rank(), b.Severity.rank())
	})
}

// CountBySeverity tallies vulnerabilities per severity.
func (r ScanResult) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int, 4)
	for _, v := range r.Vulnerabilities {
		counts[Severity(strings.ToLower(string(v.Severity)))]++
	}
	return counts
}
