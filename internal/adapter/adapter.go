// ABOUTME: Persistence adapter capability shared by remote and local storage.
// ABOUTME: The store composes a primary adapter with an optional fallback.

package adapter

import (
	"context"
	"errors"

	"github.com/harper/coursetrack/internal/models"
)

var (
	// ErrNoSnapshot means the backing storage has never been written.
	ErrNoSnapshot = errors.New("no snapshot stored")
	// ErrNotFound means the adapter has no record with the requested id.
	ErrNotFound = errors.New("course not found in storage")
)

// PersistenceAdapter persists a course collection.
//
// Add may assign a different id than the one supplied (remote services mint
// their own); callers must use the returned course. Save replaces the whole
// stored collection.
type PersistenceAdapter interface {
	Name() string
	Load(ctx context.Context) ([]models.Course, error)
	Save(ctx context.Context, courses []models.Course) error
	Add(ctx context.Context, course models.Course) (models.Course, error)
	Update(ctx context.Context, course models.Course) (models.Course, error)
	Remove(ctx context.Context, id string) error
}

// Backend is a byte-oriented key/value store holding serialized snapshots.
// Get returns ErrNoSnapshot for a missing key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
