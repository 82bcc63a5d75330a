package diff

import (
	"strconv"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// LineType classifies a rendered diff row.
type LineType int

const (
	LineTypeContext LineType = iota
	LineTypeAdd
	LineTypeDelete
	LineTypeHunk
)

// Line is one row of a rendered diff with its position on each side. Line
// numbers are 0 where the row has no counterpart.
type Line struct {
	Type       LineType
	Content    string
	OldLineNum int
	NewLineNum int
}

// Lines flattens the fragments of f into rows, one hunk header per fragment.
func Lines(f *gitdiff.File) []Line {
	if f == nil {
		return nil
	}

	var out []Line
	for _, frag := range f.TextFragments {
		out = append(out, Line{Type: LineTypeHunk, Content: hunkHeader(frag)})

		oldNum, newNum := int(frag.OldPosition), int(frag.NewPosition)
		for _, l := range frag.Lines {
			content := strings.TrimSuffix(l.Line, "\n")
			switch l.Op {
			case gitdiff.OpAdd:
				out = append(out, Line{Type: LineTypeAdd, Content: content, NewLineNum: newNum})
				newNum++
			case gitdiff.OpDelete:
				out = append(out, Line{Type: LineTypeDelete, Content: content, OldLineNum: oldNum})
				oldNum++
			default:
				out = append(out, Line{Type: LineTypeContext, Content: content, OldLineNum: oldNum, NewLineNum: newNum})
				oldNum++
				newNum++
			}
		}
	}
	return out
}

func hunkHeader(frag *gitdiff.TextFragment) string {
	h := "@@ -" + formatRange(frag.OldPosition, frag.OldLines) +
		" +" + formatRange(frag.NewPosition, frag.NewLines) + " @@"
	if frag.Comment != "" {
		h += " " + frag.Comment
	}
	return h
}

// formatRange formats a hunk range (position, length) for unified diff format.
func formatRange(pos, length int64) string {
	if length == 1 {
		return strconv.FormatInt(pos, 10)
	}
	return strconv.FormatInt(pos, 10) + "," + strconv.FormatInt(length, 10)
}
