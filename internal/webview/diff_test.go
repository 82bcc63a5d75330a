package webview

import (
	"testing"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionDiff(t *testing.T) {
	current := "a := 1\nb := 2\nc := 3\n"
	suggested := "a := 1\nb := 20\nc := 3\n"

	file, err := SuggestionDiff("main.go", current, suggested)
	require.NoError(t, err)
	assert.Equal(t, "main.go", file.NewName)
	require.Len(t, file.TextFragments, 1)

	var ops []gitdiff.LineOp
	var lines []string
	for _, l := range file.TextFragments[0].Lines {
		ops = append(ops, l.Op)
		lines = append(lines, l.Line)
	}
	assert.Equal(t, []gitdiff.LineOp{gitdiff.OpContext, gitdiff.OpDelete, gitdiff.OpAdd, gitdiff.OpContext}, ops)
	assert.Equal(t, []string{"a := 1\n", "b := 2\n", "b := 20\n", "c := 3\n"}, lines)

	added, removed := DiffStats(file)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, removed)
}

func TestSuggestionDiff_Identical(t *testing.T) {
	file, err := SuggestionDiff("", "same\n", "same\n")
	require.NoError(t, err)
	assert.Equal(t, "selection", file.OldName)
	assert.Empty(t, file.TextFragments)
}

func TestSuggestionDiff_NoTrailingNewline(t *testing.T) {
	file, err := SuggestionDiff("x", "old", "new")
	require.NoError(t, err)
	added, removed := DiffStats(file)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, removed)

	require.Len(t, file.TextFragments, 1)
	assert.Equal(t, []gitdiff.Line{
		{Op: gitdiff.OpDelete, Line: "old"},
		{Op: gitdiff.OpAdd, Line: "new"},
	}, file.TextFragments[0].Lines)
}

func TestSuggestionDiff_NoBlankLineAppended(t *testing.T) {
	file, err := SuggestionDiff("x", "a\nb\n", "a\nc\n")
	require.NoError(t, err)
	require.Len(t, file.TextFragments, 1)
	assert.Equal(t, []gitdiff.Line{
		{Op: gitdiff.OpContext, Line: "a\n"},
		{Op: gitdiff.OpDelete, Line: "b\n"},
		{Op: gitdiff.OpAdd, Line: "c\n"},
	}, file.TextFragments[0].Lines)
}

func TestSuggestionDiff_TrailingNewlineRemoved(t *testing.T) {
	file, err := SuggestionDiff("x", "x\n", "x")
	require.NoError(t, err)
	require.Len(t, file.TextFragments, 1)
	assert.Equal(t, []gitdiff.Line{
		{Op: gitdiff.OpDelete, Line: "x\n"},
		{Op: gitdiff.OpAdd, Line: "x"},
	}, file.TextFragments[0].Lines)
}

func TestSuggestionDiff_FromEmpty(t *testing.T) {
	file, err := SuggestionDiff("x", "", "one\ntwo\n")
	require.NoError(t, err)
	added, removed := DiffStats(file)
	assert.Equal(t, 2, added)
	assert.Equal(t, 0, removed)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a\n", "b"}, splitLines("a\nb"))
	assert.Equal(t, []string{"a\n", "\n"}, splitLines("a\n\n"))
}
