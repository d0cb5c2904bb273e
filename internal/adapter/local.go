// ABOUTME: Local snapshot adapter storing the collection as one JSON array.
// ABOUTME: Works over any Backend (memory, badger, sqlite, charm KV).

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/harper/coursetrack/internal/models"
)

// DefaultSnapshotKey is the fixed key the collection is stored under.
const DefaultSnapshotKey = "courses"

// Local keeps the whole collection under a single key.
type Local struct {
	mu      sync.Mutex
	backend Backend
	key     string
}

// LocalOption configures a Local adapter.
type LocalOption func(*Local)

// WithSnapshotKey overrides the snapshot key.
func WithSnapshotKey(key string) LocalOption {
	return func(l *Local) {
		if key != "" {
			l.key = key
		}
	}
}

func NewLocal(backend Backend, opts ...LocalOption) *Local {
	l := &Local{backend: backend, key: DefaultSnapshotKey}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Local) Name() string { return "local" }

// Backend exposes the underlying backend, for closing and wiping.
func (l *Local) Backend() Backend { return l.backend }

func (l *Local) Load(ctx context.Context) ([]models.Course, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

func (l *Local) load(ctx context.Context) ([]models.Course, error) {
	data, err := l.backend.Get(ctx, l.key)
	if err != nil {
		return nil, err
	}
	var courses []models.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	for i := range courses {
		courses[i].Clamp()
	}
	return courses, nil
}

func (l *Local) Save(ctx context.Context, courses []models.Course) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.save(ctx, courses)
}

func (l *Local) save(ctx context.Context, courses []models.Course) error {
	if courses == nil {
		courses = []models.Course{}
	}
	data, err := json.Marshal(courses)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return l.backend.Put(ctx, l.key, data)
}

// Clear removes the snapshot entirely.
func (l *Local) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.backend.Delete(ctx, l.key)
	if errors.Is(err, ErrNoSnapshot) {
		return nil
	}
	return err
}

// loadOrEmpty treats a missing snapshot as an empty collection.
func (l *Local) loadOrEmpty(ctx context.Context) ([]models.Course, error) {
	courses, err := l.load(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		return []models.Course{}, nil
	}
	return courses, err
}

func (l *Local) Add(ctx context.Context, course models.Course) (models.Course, error) {
	if course.ID == "" {
		course.ID = models.NewID()
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	courses, err := l.loadOrEmpty(ctx)
	if err != nil {
		return models.Course{}, err
	}
	courses = append(courses, course)
	if err := l.save(ctx, courses); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (l *Local) Update(ctx context.Context, course models.Course) (models.Course, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	courses, err := l.loadOrEmpty(ctx)
	if err != nil {
		return models.Course{}, err
	}
	for i := range courses {
		if courses[i].ID == course.ID {
			courses[i] = course
			if err := l.save(ctx, courses); err != nil {
				return models.Course{}, err
			}
			return course, nil
		}
	}
	return models.Course{}, fmt.Errorf("%w: %s", ErrNotFound, course.ID)
}

func (l *Local) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	courses, err := l.loadOrEmpty(ctx)
	if err != nil {
		return err
	}
	for i := range courses {
		if courses[i].ID == id {
			courses = append(courses[:i], courses[i+1:]...)
			return l.save(ctx, courses)
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
