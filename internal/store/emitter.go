// ABOUTME: Change emitter owned by a Store instance. Listeners run in subscription
// ABOUTME: order, panics are isolated, and stale versions are never delivered.

package store

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/harper/coursetrack/internal/models"
)

// Listener receives the full collection after every change.
type Listener func(courses []models.Course)

type subscription struct {
	id int
	fn Listener
}

type emitter struct {
	mu        sync.Mutex
	nextID    int
	listeners []subscription
	logger    zerolog.Logger

	// deliverMu serializes deliveries so listeners see versions in order.
	deliverMu sync.Mutex
	delivered uint64
}

func (e *emitter) subscribe(fn Listener) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			for i, sub := range e.listeners {
				if sub.id == id {
					e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// emit delivers the collection at version to every listener. A version at or
// below one already delivered is dropped, since a newer snapshot superseded it.
func (e *emitter) emit(version uint64, courses []models.Course) {
	e.deliverMu.Lock()
	defer e.deliverMu.Unlock()
	if version <= e.delivered {
		e.logger.Debug().Uint64("version", version).Uint64("delivered", e.delivered).Msg("dropping stale change event")
		return
	}
	e.delivered = version

	e.mu.Lock()
	listeners := append([]subscription(nil), e.listeners...)
	e.mu.Unlock()

	for _, sub := range listeners {
		e.call(sub, cloneAll(courses))
	}
}

func (e *emitter) call(sub subscription, courses []models.Course) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Int("listener", sub.id).Interface("panic", r).Msg("change listener panicked")
		}
	}()
	sub.fn(courses)
}

func cloneAll(courses []models.Course) []models.Course {
	out := make([]models.Course, len(courses))
	for i := range courses {
		out[i] = courses[i].Clone()
	}
	return out
}
