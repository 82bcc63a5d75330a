package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refixai/refix/internal/core/review"
	"github.com/refixai/refix/internal/data/db"
)

func newTestScoreStore(t *testing.T) *ScoreStore {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewScoreStore(database)
}

func TestScoreStore_RecordAndRecent(t *testing.T) {
	ctx := context.Background()
	store := newTestScoreStore(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, score := range []int{55, 72, 88} {
		require.NoError(t, store.Record(ctx, review.ScoreEntry{
			ReviewID:  review.ID(string(rune('a' + i))),
			ProjectID: "12",
			Mode:      "balanced",
			Score:     score,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	entries, err := store.Recent(ctx, "12", 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 55, entries[0].Score)
	assert.Equal(t, review.ID("c"), entries[2].ReviewID)
	assert.True(t, entries[2].CreatedAt.Equal(base.Add(2*time.Hour)))

	delta, ok := review.Trend(entries)
	assert.True(t, ok)
	assert.Equal(t, 16, delta)

	other, err := store.Recent(ctx, "99", 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestScoreStore_RecordStampsTime(t *testing.T) {
	ctx := context.Background()
	store := newTestScoreStore(t)

	require.NoError(t, store.Record(ctx, review.ScoreEntry{ReviewID: "1", ProjectID: "p", Score: 10}))

	entries, err := store.Recent(ctx, "p", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].CreatedAt.IsZero())

	_, ok := review.Trend(entries)
	assert.False(t, ok)
}
