// ABOUTME: Database operations for serialized course snapshots.
// ABOUTME: SnapshotStore adapts the table to the local adapter's Backend.

package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/harper/coursetrack/internal/adapter"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

func GetSnapshot(ctx context.Context, db *sql.DB, key string) ([]byte, time.Time, error) {
	var data []byte
	var updatedAt time.Time
	err := db.QueryRowContext(ctx,
		`SELECT data, updated_at FROM snapshots WHERE key = ?`, key,
	).Scan(&data, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	return data, updatedAt, nil
}

func PutSnapshot(ctx context.Context, db *sql.DB, key string, data []byte) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC(),
	)
	return err
}

func DeleteSnapshot(ctx context.Context, db *sql.DB, key string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key)
	return err
}

// SnapshotStore exposes the snapshots table as a key/value backend.
type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

var _ adapter.Backend = (*SnapshotStore)(nil)

func (s *SnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, _, err := GetSnapshot(ctx, s.db, key)
	if errors.Is(err, ErrSnapshotNotFound) {
		return nil, adapter.ErrNoSnapshot
	}
	return data, err
}

func (s *SnapshotStore) Put(ctx context.Context, key string, data []byte) error {
	return PutSnapshot(ctx, s.db, key, data)
}

func (s *SnapshotStore) Delete(ctx context.Context, key string) error {
	return DeleteSnapshot(ctx, s.db, key)
}

func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
