package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ScoreBand classifies an overall score for display.
type ScoreBand string

const (
	ScoreGood ScoreBand = "good"
	ScoreFair ScoreBand = "fair"
	ScorePoor ScoreBand = "poor"
)

// BandFor returns the band for score: >=80 good, >=60 fair, otherwise poor.
func BandFor(score int) ScoreBand {
	switch {
	case score >= 80:
		return ScoreGood
	case score >= 60:
		return ScoreFair
	default:
		return ScorePoor
	}
}

// Structured is a review_content payload that decoded against the schema.
type Structured struct {
	OverallScore int     `json:"overall_score"`
	Panels       []Panel `json:"panels"`
}

// Content is the decoded form of Review.ReviewContent. Exactly one of
// Structured or Legacy is meaningful; IsLegacy tells which.
type Content struct {
	Structured *Structured
	Legacy     string
}

// IsLegacy reports whether the content is unstructured free text.
func (c Content) IsLegacy() bool {
	return c.Structured == nil
}

// errNotStructured is internal; any decode failure maps to the legacy variant.
var errNotStructured = errors.New("not a structured review")

// structuredWire uses pointers so that missing required fields can be told
// apart from zero values.
type structuredWire struct {
	OverallScore *float64 `json:"overall_score"`
	Panels       *[]Panel `json:"panels"`
}

// ParseContent decodes raw review_content. Content that is not a JSON object
// with a numeric overall_score and a panels array is returned verbatim as
// legacy text; a partially populated Structured value is never returned.
func ParseContent(raw string) Content {
	s, err := decodeStructured(raw)
	if err != nil {
		return Content{Legacy: raw}
	}
	return Content{Structured: s}
}

func decodeStructured(raw string) (*Structured, error) {
	dec := json.NewDecoder(strings.NewReader(raw))

	var w structuredWire
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %w", errNotStructured, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", errNotStructured)
	}
	if w.OverallScore == nil || w.Panels == nil {
		return nil, errNotStructured
	}

	return &Structured{
		OverallScore: int(*w.OverallScore),
		Panels:       *w.Panels,
	}, nil
}

// Parse decodes the review's content. See ParseContent.
func (r Review) Parse() Content {
	return ParseContent(r.ReviewContent)
}
