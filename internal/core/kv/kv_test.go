package kv_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refixai/refix/internal/core/kv"
	"github.com/refixai/refix/internal/core/review"
	"github.com/refixai/refix/internal/data/db"
	"github.com/refixai/refix/internal/data/stores"
)

func newTestKV(t *testing.T) kv.KV {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return stores.NewKVStore(database)
}

func TestTypedKV_SetAndGet(t *testing.T) {
	ctx := context.Background()
	typed := kv.Scoped[review.Review](newTestKV(t), "reviews")

	in := review.Review{ID: "42", ReviewContent: `{"overall_score":85,"panels":[]}`}
	require.NoError(t, typed.Set(ctx, "42", in))

	got, err := typed.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, in.ID, got.ID)
	assert.Equal(t, in.ReviewContent, got.ReviewContent)
}

func TestTypedKV_ScopedPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)

	alpha := kv.Scoped[int](store, "alpha")
	beta := kv.Scoped[int](store, "beta")

	require.NoError(t, alpha.Set(ctx, "count", 10))
	require.NoError(t, beta.Set(ctx, "count", 20))

	a, err := alpha.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 10, a)

	b, err := beta.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 20, b)

	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha:count", "beta:count"}, keys)
}

func TestTypedKV_Keys(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)
	typed := kv.Scoped[string](store, "reviews")

	require.NoError(t, typed.Set(ctx, "7", "a"))
	require.NoError(t, typed.Set(ctx, "latest", "b"))
	require.NoError(t, store.Set(ctx, "reviewsX:1", "not ours"))

	keys, err := typed.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"7", "latest"}, keys)
}

func TestTypedKV_DeleteAndHas(t *testing.T) {
	ctx := context.Background()
	typed := kv.Scoped[string](newTestKV(t), "ns")

	has, err := typed.Has(ctx, "key")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, typed.Set(ctx, "key", "val"))
	has, err = typed.Has(ctx, "key")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, typed.Delete(ctx, "key"))
	_, err = typed.Get(ctx, "key")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTypedKV_TTL(t *testing.T) {
	ctx := context.Background()
	typed := kv.Scoped[string](newTestKV(t), "ttl")

	require.NoError(t, typed.SetTTL(ctx, "temp", "gone", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := typed.Get(ctx, "temp")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestIsNotFound(t *testing.T) {
	ctx := context.Background()
	typed := kv.Scoped[string](newTestKV(t), "settings")

	_, err := typed.Get(ctx, "missing")
	assert.True(t, kv.IsNotFound(err))
	assert.True(t, kv.IsNotFound(sql.ErrNoRows))
	assert.False(t, kv.IsNotFound(nil))
	assert.False(t, kv.IsNotFound(context.Canceled))
}
