// ABOUTME: Store owns the authoritative course collection and its persistence.
// ABOUTME: Writes go to the primary adapter first and fail over to the fallback.

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/harper/coursetrack/internal/adapter"
	"github.com/harper/coursetrack/internal/models"
	coursesync "github.com/harper/coursetrack/internal/sync"
)

var (
	ErrNotFound        = errors.New("course not found")
	ErrPrefixTooShort  = errors.New("prefix must be at least 6 characters")
	ErrAmbiguousPrefix = errors.New("prefix matches multiple courses")
)

// CopySuffix is appended to the title of duplicated courses.
const CopySuffix = " (copy)"

type Store struct {
	mu      sync.RWMutex
	courses []models.Course

	primary  adapter.PersistenceAdapter
	fallback adapter.PersistenceAdapter
	seed     func() []models.Course
	logger   zerolog.Logger

	// persistMu orders snapshot writes with the in-memory commits they describe.
	persistMu sync.Mutex
	version   uint64
	records   keyedMutex
	events    emitter
}

// Option configures a Store.
type Option func(*Store)

// WithFallback sets the adapter used when the primary fails.
func WithFallback(a adapter.PersistenceAdapter) Option {
	return func(s *Store) {
		s.fallback = a
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithSeed replaces the demonstration dataset used on first run.
func WithSeed(fn func() []models.Course) Option {
	return func(s *Store) {
		s.seed = fn
	}
}

func New(primary adapter.PersistenceAdapter, opts ...Option) *Store {
	s := &Store{
		primary: primary,
		seed:    models.DemoCourses,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.events.logger = s.logger
	return s
}

// Subscribe registers fn for change events and returns its unsubscribe func.
// Listeners must not write to the store.
func (s *Store) Subscribe(fn Listener) func() {
	return s.events.subscribe(fn)
}

// Load reads the collection from the primary adapter, falling back to the
// secondary. When no snapshot exists the seed data is stored and used. One
// change event fires once loading settles. Courses the fallback holds that the
// primary has not seen yet are kept until they are pushed.
func (s *Store) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	courses, err := s.primary.Load(ctx)
	if err == nil {
		s.logger.Info().Str("adapter", s.primary.Name()).Int("count", len(courses)).Msg("loaded courses")
		s.persistMu.Lock()
		merged, ok := s.withPending(ctx, courses)
		v := s.commit(merged)
		if ok {
			s.mirror(ctx, merged)
		}
		s.persistMu.Unlock()
		s.events.emit(v, merged)
		return nil
	}

	last := s.primary
	if s.fallback != nil && !errors.Is(err, adapter.ErrNoSnapshot) {
		s.logger.Warn().Err(err).Str("adapter", s.primary.Name()).Msg("load failed, using fallback")
		last = s.fallback
		courses, err = s.fallback.Load(ctx)
	}

	switch {
	case err == nil:
		s.logger.Info().Str("adapter", last.Name()).Int("count", len(courses)).Msg("loaded courses")
	case errors.Is(err, adapter.ErrNoSnapshot):
		courses = s.seed()
		s.logger.Info().Str("adapter", last.Name()).Int("count", len(courses)).Msg("no snapshot, seeding demo courses")
		if serr := last.Save(ctx, courses); serr != nil {
			s.logger.Warn().Err(serr).Str("adapter", last.Name()).Msg("could not store seed snapshot")
		}
	default:
		s.logger.Error().Err(err).Str("adapter", last.Name()).Msg("snapshot unreadable, using demo courses")
		courses = s.seed()
	}

	s.persistMu.Lock()
	v := s.commit(courses)
	s.persistMu.Unlock()
	s.events.emit(v, courses)
	return nil
}

// Reload re-reads the collection from storage.
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// commit replaces the collection and returns the version for its change
// event. Must be called with persistMu held.
func (s *Store) commit(courses []models.Course) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses = cloneAll(courses)
	s.version++
	return s.version
}

// withPending adds the fallback's unpushed courses to a primary collection.
// It reports false when the fallback snapshot is unreadable and must not be
// overwritten. Must be called with persistMu held.
func (s *Store) withPending(ctx context.Context, courses []models.Course) ([]models.Course, bool) {
	if s.fallback == nil {
		return courses, true
	}
	snapshot, err := s.fallback.Load(ctx)
	switch {
	case errors.Is(err, adapter.ErrNoSnapshot):
		return courses, true
	case err != nil:
		s.logger.Warn().Err(err).Str("adapter", s.fallback.Name()).Msg("fallback snapshot unreadable, not mirroring")
		return courses, false
	}

	plan := coursesync.Diff(snapshot, courses)
	if plan.Len() == 0 {
		return courses, true
	}
	s.logger.Info().Int("created", len(plan.Create)).Int("updated", len(plan.Update)).Msg("keeping unpushed local changes")
	return coursesync.Merge(snapshot, courses), true
}

// mirror copies the collection into the fallback after a primary success.
// Must be called with persistMu held.
func (s *Store) mirror(ctx context.Context, courses []models.Course) {
	if s.fallback == nil {
		return
	}
	if err := s.fallback.Save(ctx, courses); err != nil {
		s.logger.Warn().Err(err).Str("adapter", s.fallback.Name()).Msg("could not mirror snapshot")
	}
}

// change is an in-memory edit applied to a copy of the collection.
type change func(courses []models.Course) []models.Course

// persist runs a write through the primary adapter and applies the change
// produced from its result. If the primary fails, the change built from the
// local value is saved through the fallback instead. Memory is only updated
// once one of the two writes succeeded.
func (s *Store) persist(ctx context.Context, op string, primary func() (change, error), local change) error {
	apply, err := primary()
	if err == nil {
		s.persistMu.Lock()
		next := apply(s.All())
		v := s.commit(next)
		s.mirror(ctx, next)
		s.persistMu.Unlock()
		s.events.emit(v, next)
		return nil
	}

	if s.fallback == nil || ctx.Err() != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Warn().Err(err).Str("op", op).Str("adapter", s.primary.Name()).Msg("write failed, using fallback")

	s.persistMu.Lock()
	next := local(s.All())
	if ferr := s.fallback.Save(ctx, next); ferr != nil {
		s.persistMu.Unlock()
		return fmt.Errorf("%s: %s: %v; %s: %w", op, s.primary.Name(), err, s.fallback.Name(), ferr)
	}
	v := s.commit(next)
	s.persistMu.Unlock()
	s.events.emit(v, next)
	return nil
}

func appendCourse(c models.Course) change {
	return func(courses []models.Course) []models.Course {
		return append(courses, c)
	}
}

func replaceCourse(c models.Course) change {
	return func(courses []models.Course) []models.Course {
		for i := range courses {
			if courses[i].ID == c.ID {
				courses[i] = c
			}
		}
		return courses
	}
}

func dropCourse(id string) change {
	return func(courses []models.Course) []models.Course {
		out := courses[:0]
		for _, c := range courses {
			if c.ID != id {
				out = append(out, c)
			}
		}
		return out
	}
}

func (s *Store) add(ctx context.Context, c models.Course) (models.Course, error) {
	var saved models.Course
	err := s.persist(ctx, "add course",
		func() (change, error) {
			created, err := s.primary.Add(ctx, c)
			if err != nil {
				return nil, err
			}
			created.Clamp()
			saved = created
			return appendCourse(created), nil
		},
		func(courses []models.Course) []models.Course {
			saved = c
			return appendCourse(c)(courses)
		},
	)
	if err != nil {
		return models.Course{}, err
	}
	return saved.Clone(), nil
}

func (s *Store) update(ctx context.Context, c models.Course) (models.Course, error) {
	saved := c
	err := s.persist(ctx, "update course",
		func() (change, error) {
			updated, err := s.primary.Update(ctx, c)
			if err != nil {
				return nil, err
			}
			updated.ID = c.ID
			updated.Clamp()
			saved = updated
			return replaceCourse(updated), nil
		},
		replaceCourse(c),
	)
	if err != nil {
		return models.Course{}, err
	}
	return saved.Clone(), nil
}

func (s *Store) remove(ctx context.Context, id string) error {
	return s.persist(ctx, "remove course",
		func() (change, error) {
			if err := s.primary.Remove(ctx, id); err != nil {
				return nil, err
			}
			return dropCourse(id), nil
		},
		dropCourse(id),
	)
}

// ReplaceAll swaps the whole collection, e.g. on import. It reports whether
// the fallback had to be used.
func (s *Store) ReplaceAll(ctx context.Context, courses []models.Course) (bool, error) {
	courses = cloneAll(courses)
	for i := range courses {
		courses[i].Clamp()
	}

	s.persistMu.Lock()
	err := s.primary.Save(ctx, courses)
	if err == nil {
		stored, lerr := s.primary.Load(ctx)
		if lerr != nil {
			s.logger.Warn().Err(lerr).Msg("could not reload after replace, keeping submitted courses")
			stored = courses
		}
		v := s.commit(stored)
		s.mirror(ctx, stored)
		s.persistMu.Unlock()
		s.events.emit(v, stored)
		return false, nil
	}

	if s.fallback == nil || ctx.Err() != nil {
		s.persistMu.Unlock()
		return false, fmt.Errorf("replace courses: %w", err)
	}
	s.logger.Warn().Err(err).Str("adapter", s.primary.Name()).Msg("replace failed, using fallback")
	if ferr := s.fallback.Save(ctx, courses); ferr != nil {
		s.persistMu.Unlock()
		return false, fmt.Errorf("replace courses: %s: %v; %s: %w", s.primary.Name(), err, s.fallback.Name(), ferr)
	}
	v := s.commit(courses)
	s.persistMu.Unlock()
	s.events.emit(v, courses)
	return true, nil
}

// Clear deletes every course.
func (s *Store) Clear(ctx context.Context) (bool, error) {
	return s.ReplaceAll(ctx, []models.Course{})
}
