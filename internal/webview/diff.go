package webview

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/pmezard/go-difflib/difflib"
)

// diffContext is the number of unchanged lines kept around each change.
const diffContext = 3

// SuggestionDiff compares the current code with a suggested replacement and
// returns the result as a parsed diff for the detail view. Identical inputs
// yield a file with no fragments.
func SuggestionDiff(name, current, suggested string) (*gitdiff.File, error) {
	if name == "" {
		name = "selection"
	}

	file := &gitdiff.File{OldName: name, NewName: name}
	text := unifiedDiff(name, splitLines(current), splitLines(suggested))
	if text == "" {
		return file, nil
	}

	files, _, err := gitdiff.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse suggestion diff: %w", err)
	}
	if len(files) == 0 {
		return file, nil
	}

	file.TextFragments = files[0].TextFragments
	return file, nil
}

// splitLines keeps each line's terminator. A final line without one is kept
// as is so a missing trailing newline is a real difference.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// unifiedDiff renders a and b as a unified diff, or "" when they are equal.
func unifiedDiff(name string, a, b []string) string {
	groups := difflib.NewMatcher(a, b).GetGroupedOpCodes(diffContext)
	if len(groups) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", name, name)
	for _, g := range groups {
		first, last := g[0], g[len(g)-1]
		fmt.Fprintf(&sb, "@@ -%s +%s @@\n", hunkRange(first.I1, last.I2), hunkRange(first.J1, last.J2))
		for _, op := range g {
			if op.Tag == 'e' {
				writeDiffLines(&sb, ' ', a[op.I1:op.I2])
				continue
			}
			if op.Tag == 'r' || op.Tag == 'd' {
				writeDiffLines(&sb, '-', a[op.I1:op.I2])
			}
			if op.Tag == 'r' || op.Tag == 'i' {
				writeDiffLines(&sb, '+', b[op.J1:op.J2])
			}
		}
	}
	return sb.String()
}

func hunkRange(start, stop int) string {
	n := stop - start
	switch n {
	case 0:
		return fmt.Sprintf("%d,0", start)
	case 1:
		return fmt.Sprintf("%d", start+1)
	}
	return fmt.Sprintf("%d,%d", start+1, n)
}

func writeDiffLines(sb *strings.Builder, prefix byte, lines []string) {
	for _, l := range lines {
		sb.WriteByte(prefix)
		sb.WriteString(l)
		if !strings.HasSuffix(l, "\n") {
			sb.WriteString("\n\\ No newline at end of file\n")
		}
	}
}

// DiffStats counts added and removed lines in f.
func DiffStats(f *gitdiff.File) (added, removed int) {
	if f == nil {
		return 0, 0
	}
	for _, frag := range f.TextFragments {
		added += int(frag.LinesAdded)
		removed += int(frag.LinesDeleted)
	}
	return added, removed
}
