package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/refixai/refix/internal/core/kv"
	"github.com/refixai/refix/internal/core/review"
)

const (
	reviewNamespace = "reviews"
	latestReviewKey = "latest"
	reviewCacheTTL  = 24 * time.Hour
)

// ErrNoCachedReview is returned when a review was never generated here or
// its cache entry expired.
var ErrNoCachedReview = errors.New("no cached review (run `refix generate` first)")

// reviewCache keeps recently generated reviews so chat can refer back to
// them. Entries expire after reviewCacheTTL.
type reviewCache struct {
	reviews *kv.TypedKV[review.Review]
}

func newReviewCache(store kv.KV) *reviewCache {
	return &reviewCache{reviews: kv.Scoped[review.Review](store, reviewNamespace)}
}

// Save stores r under its id and as the latest review.
func (c *reviewCache) Save(ctx context.Context, r review.Review) error {
	if r.ID == "" {
		return errors.New("review has no id")
	}
	if err := c.reviews.SetTTL(ctx, r.ID.String(), r, reviewCacheTTL); err != nil {
		return fmt.Errorf("cache review %s: %w", r.ID, err)
	}
	if err := c.reviews.SetTTL(ctx, latestReviewKey, r, reviewCacheTTL); err != nil {
		return fmt.Errorf("cache latest review: %w", err)
	}
	return nil
}

// Get returns the review with id, or the latest when id is empty.
func (c *reviewCache) Get(ctx context.Context, id string) (review.Review, error) {
	key := id
	if key == "" {
		key = latestReviewKey
	}

	r, err := c.reviews.Get(ctx, key)
	if kv.IsNotFound(err) {
		return review.Review{}, ErrNoCachedReview
	}
	if err != nil {
		return review.Review{}, fmt.Errorf("load cached review: %w", err)
	}
	return r, nil
}

// Update replaces a cached review, keeping latest in sync when it points at
// the same review.
func (c *reviewCache) Update(ctx context.Context, r review.Review) error {
	if err := c.reviews.SetTTL(ctx, r.ID.String(), r, reviewCacheTTL); err != nil {
		return fmt.Errorf("cache review %s: %w", r.ID, err)
	}

	latest, err := c.reviews.Get(ctx, latestReviewKey)
	if err != nil || latest.ID != r.ID {
		return nil
	}
	return c.reviews.SetTTL(ctx, latestReviewKey, r, reviewCacheTTL)
}

// IDs lists the cached review ids, sorted.
func (c *reviewCache) IDs(ctx context.Context) ([]string, error) {
	keys, err := c.reviews.Keys(ctx)
	if err != nil {
		return nil, err
	}
	keys = slices.DeleteFunc(keys, func(k string) bool { return k == latestReviewKey })
	slices.Sort(keys)
	return keys, nil
}
