package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/refixai/refix/internal/core/review"
	"github.com/refixai/refix/internal/data/db"
)

// ScoreStore implements review.ScoreHistory using SQLite.
type ScoreStore struct {
	db *db.DB
}

var _ review.ScoreHistory = (*ScoreStore)(nil)

// NewScoreStore creates a new SQLite-backed score history.
func NewScoreStore(db *db.DB) *ScoreStore {
	return &ScoreStore{db: db}
}

// Record appends a score entry. A zero CreatedAt is stamped with now.
func (s *ScoreStore) Record(ctx context.Context, e review.ScoreEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := s.db.Queries().InsertReviewScore(ctx, db.InsertReviewScoreParams{
		ReviewID:  e.ReviewID.String(),
		ProjectID: e.ProjectID,
		Mode:      e.Mode,
		Score:     int64(e.Score),
		CreatedAt: e.CreatedAt.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("record review score: %w", err)
	}
	return nil
}

// Recent returns up to limit entries for projectID, oldest first.
func (s *ScoreStore) Recent(ctx context.Context, projectID string, limit int) ([]review.ScoreEntry, error) {
	rows, err := s.db.Queries().ListReviewScores(ctx, projectID, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list review scores: %w", err)
	}

	out := make([]review.ScoreEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, review.ScoreEntry{
			ReviewID:  review.ID(row.ReviewID),
			ProjectID: row.ProjectID,
			Mode:      row.Mode,
			Score:     int(row.Score),
			CreatedAt: time.Unix(0, row.CreatedAt),
		})
	}
	return out, nil
}
