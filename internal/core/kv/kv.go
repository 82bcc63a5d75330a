// Package kv defines the persistent key-value store used for settings and
// cached reviews.
package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Entry represents a raw KV entry with metadata.
type Entry struct {
	Key       string
	Value     json.RawMessage
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// KV is a persistent key-value store with optional per-key TTL.
// Values are JSON-serializable. Get on a missing or expired key returns an
// error wrapping sql.ErrNoRows.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	SetTTL(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	ListKeys(ctx context.Context) ([]string, error)
	ListPrefix(ctx context.Context, prefix string) ([]string, error)
	GetRaw(ctx context.Context, key string) (Entry, error)
}

// IsNotFound reports whether err means the key is missing or expired.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Sweeper is implemented by stores that can purge expired entries in bulk.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}
