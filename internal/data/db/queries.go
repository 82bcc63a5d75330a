package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries holds the statements used by the stores.
type Queries struct {
	db DBTX
}

// New binds a query set to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a copy bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// KvStore is a kv_store row. Timestamps are unix nanoseconds.
type KvStore struct {
	Key       string
	Value     []byte
	ExpiresAt sql.NullInt64
	CreatedAt int64
	UpdatedAt int64
}

// KVSetParams are the arguments to KVSet.
type KVSetParams struct {
	Key       string
	Value     []byte
	ExpiresAt sql.NullInt64
	CreatedAt int64
	UpdatedAt int64
}

const kvGet = `SELECT key, value, expires_at, created_at, updated_at FROM kv_store WHERE key = ?`

// KVGet returns the row for key or sql.ErrNoRows.
func (q *Queries) KVGet(ctx context.Context, key string) (KvStore, error) {
	var row KvStore
	err := q.db.QueryRowContext(ctx, kvGet, key).Scan(
		&row.Key,
		&row.Value,
		&row.ExpiresAt,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	return row, err
}

const kvSet = `
INSERT INTO kv_store (key, value, expires_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (key) DO UPDATE SET
    value      = excluded.value,
    expires_at = excluded.expires_at,
    updated_at = excluded.updated_at`

// KVSet upserts a row, preserving created_at on update.
func (q *Queries) KVSet(ctx context.Context, arg KVSetParams) error {
	_, err := q.db.ExecContext(ctx, kvSet, arg.Key, arg.Value, arg.ExpiresAt, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const kvDelete = `DELETE FROM kv_store WHERE key = ?`

// KVDelete removes key. Missing keys are not an error.
func (q *Queries) KVDelete(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, kvDelete, key)
	return err
}

const kvListKeys = `
SELECT key FROM kv_store
WHERE expires_at IS NULL OR expires_at > ?
ORDER BY key`

// KVListKeys returns keys that have not expired at now.
func (q *Queries) KVListKeys(ctx context.Context, now sql.NullInt64) ([]string, error) {
	return q.listKeys(ctx, kvListKeys, now)
}

const kvListKeysPrefix = `
SELECT key FROM kv_store
WHERE substr(key, 1, length(?)) = ? AND (expires_at IS NULL OR expires_at > ?)
ORDER BY key`

// KVListKeysPrefix returns live keys beginning with prefix.
func (q *Queries) KVListKeysPrefix(ctx context.Context, prefix string, now sql.NullInt64) ([]string, error) {
	return q.listKeys(ctx, kvListKeysPrefix, prefix, prefix, now)
}

func (q *Queries) listKeys(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

const kvSweepExpired = `DELETE FROM kv_store WHERE expires_at IS NOT NULL AND expires_at <= ?`

// KVSweepExpired deletes rows that expired at or before now.
func (q *Queries) KVSweepExpired(ctx context.Context, now sql.NullInt64) (int64, error) {
	res, err := q.db.ExecContext(ctx, kvSweepExpired, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReviewScore is a review_scores row.
type ReviewScore struct {
	ID        int64
	ReviewID  string
	ProjectID string
	Mode      string
	Score     int64
	CreatedAt int64
}

// InsertReviewScoreParams are the arguments to InsertReviewScore.
type InsertReviewScoreParams struct {
	ReviewID  string
	ProjectID string
	Mode      string
	Score     int64
	CreatedAt int64
}

const insertReviewScore = `
INSERT INTO review_scores (review_id, project_id, mode, score, created_at)
VALUES (?, ?, ?, ?, ?)`

// InsertReviewScore appends a score and returns its row id.
func (q *Queries) InsertReviewScore(ctx context.Context, arg InsertReviewScoreParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, insertReviewScore, arg.ReviewID, arg.ProjectID, arg.Mode, arg.Score, arg.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const listReviewScores = `
SELECT id, review_id, project_id, mode, score, created_at FROM (
    SELECT * FROM review_scores
    WHERE project_id = ?
    ORDER BY created_at DESC, id DESC
    LIMIT ?
) ORDER BY created_at ASC, id ASC`

// ListReviewScores returns the newest limit scores for a project, oldest first.
func (q *Queries) ListReviewScores(ctx context.Context, projectID string, limit int64) ([]ReviewScore, error) {
	rows, err := q.db.QueryContext(ctx, listReviewScores, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []ReviewScore
	for rows.Next() {
		var r ReviewScore
		if err := rows.Scan(&r.ID, &r.ReviewID, &r.ProjectID, &r.Mode, &r.Score, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
