package review

import (
	"context"
	"time"
)

// ScoreEntry is one recorded overall score for a generated review.
type ScoreEntry struct {
	ReviewID  ID
	ProjectID string
	Mode      string
	Score     int
	CreatedAt time.Time
}

// ScoreHistory persists review scores so the dashboard can show a trend.
type ScoreHistory interface {
	Record(ctx context.Context, e ScoreEntry) error
	// Recent returns up to limit entries for projectID, oldest first.
	Recent(ctx context.Context, projectID string, limit int) ([]ScoreEntry, error)
}

// Trend returns the change between the last two scores, and false when
// fewer than two entries exist.
func Trend(entries []ScoreEntry) (int, bool) {
	if len(entries) < 2 {
		return 0, false
	}
	n := len(entries)
	return entries[n-1].Score - entries[n-2].Score, true
}
