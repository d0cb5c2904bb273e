// ABOUTME: Presenter mediates between the course store and the view.
// ABOUTME: Owns filter criteria and turns user intents into store calls plus feedback.

package presenter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/harper/coursetrack/internal/models"
	"github.com/harper/coursetrack/internal/store"
)

// CourseStore is the part of the store the presenter uses.
type CourseStore interface {
	All() []models.Course
	Get(id string) (models.Course, error)
	Add(ctx context.Context, p models.CoursePatch) (models.Course, error)
	Update(ctx context.Context, id string, p models.CoursePatch) (models.Course, error)
	Remove(ctx context.Context, id string) (bool, error)
	ToggleFavorite(ctx context.Context, id string) (bool, error)
	AdjustProgress(ctx context.Context, id string, delta int) (models.Course, error)
	SetProgress(ctx context.Context, id string, target int) (models.Course, error)
	Duplicate(ctx context.Context, id string) (models.Course, error)
	Statistics() models.Stats
	ReplaceAll(ctx context.Context, courses []models.Course) (bool, error)
	Clear(ctx context.Context) (bool, error)
	Reload(ctx context.Context) error
	Subscribe(fn store.Listener) func()
}

type Presenter struct {
	store    CourseStore
	renderer Renderer
	notifier Notifier
	confirm  Confirmer
	logger   zerolog.Logger
	duration time.Duration

	mu       sync.RWMutex
	criteria Criteria

	// busy is non-zero while one of the presenter's own operations runs; store
	// events raised meanwhile are left to that operation's render policy.
	busy        atomic.Int32
	unsubscribe func()
}

type Option func(*Presenter)

func WithLogger(l zerolog.Logger) Option {
	return func(p *Presenter) {
		p.logger = l
	}
}

// WithNotifyDuration sets the default notification lifetime.
func WithNotifyDuration(d time.Duration) Option {
	return func(p *Presenter) {
		if d > 0 {
			p.duration = d
		}
	}
}

func WithCriteria(c Criteria) Option {
	return func(p *Presenter) {
		p.criteria = c
	}
}

func New(s CourseStore, r Renderer, n Notifier, c Confirmer, opts ...Option) *Presenter {
	p := &Presenter{
		store:    s,
		renderer: r,
		notifier: n,
		confirm:  c,
		logger:   zerolog.Nop(),
		duration: DefaultNotifyDuration,
		criteria: DefaultCriteria(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Attach subscribes to store changes. Changes not caused by the presenter's
// own operations trigger a full render.
func (p *Presenter) Attach() {
	if p.unsubscribe != nil {
		return
	}
	p.unsubscribe = p.store.Subscribe(p.onChange)
}

func (p *Presenter) Detach() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

func (p *Presenter) onChange(courses []models.Course) {
	if p.busy.Load() > 0 {
		return
	}
	p.render(courses)
}

// Initialize attaches, reloads the store and greets the user.
func (p *Presenter) Initialize(ctx context.Context) {
	p.Attach()
	if err := p.store.Reload(ctx); err != nil {
		p.fail("Failed to load courses", err)
		return
	}
	p.notifier.Notify(fmt.Sprintf("Loaded %d courses", len(p.store.All())), SeverityInfo, 2*time.Second)
}

func (p *Presenter) Criteria() Criteria {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.criteria
}

// ApplyFilters replaces the criteria and re-renders the list.
func (p *Presenter) ApplyFilters(c Criteria) {
	p.mu.Lock()
	p.criteria = c
	p.mu.Unlock()
	p.Refresh()
}

// Visible returns the filtered, sorted view of the store.
func (p *Presenter) Visible() []models.Course {
	return ApplyCriteria(p.store.All(), p.Criteria())
}

// Refresh redraws the list and statistics from the current store state.
func (p *Presenter) Refresh() {
	p.render(p.store.All())
}

func (p *Presenter) render(courses []models.Course) {
	p.renderer.RenderList(ApplyCriteria(courses, p.Criteria()), p)
	p.renderer.RenderStatistics(models.ComputeStats(courses))
}

// patch redraws one course in place, or drops it when it no longer matches.
func (p *Presenter) patch(c models.Course) {
	if p.Criteria().Matches(c) {
		p.renderer.UpdateOne(c)
	} else {
		p.renderer.RemoveOne(c.ID)
	}
	p.renderer.RenderStatistics(p.store.Statistics())
}

func (p *Presenter) begin() func() {
	p.busy.Add(1)
	return func() { p.busy.Add(-1) }
}

func (p *Presenter) notify(msg string, sev Severity) {
	p.notifier.Notify(msg, sev, p.duration)
}

func (p *Presenter) fail(msg string, err error) {
	p.logger.Error().Err(err).Msg(msg)
	if errors.Is(err, store.ErrNotFound) {
		msg = "Course not found"
	}
	p.notify(msg, SeverityError)
}

func (p *Presenter) AddCourse(ctx context.Context, patch models.CoursePatch) *models.Course {
	defer p.begin()()
	c, err := p.store.Add(ctx, patch)
	if err != nil {
		p.fail("Failed to add course", err)
		return nil
	}
	p.notify(fmt.Sprintf("%s added", c.Title), SeveritySuccess)
	p.Refresh()
	return &c
}

func (p *Presenter) UpdateCourse(ctx context.Context, id string, patch models.CoursePatch) *models.Course {
	defer p.begin()()
	c, err := p.store.Update(ctx, id, patch)
	if err != nil {
		p.fail("Failed to update course", err)
		return nil
	}
	p.notify(fmt.Sprintf("%s updated", c.Title), SeveritySuccess)
	p.patch(c)
	return &c
}

// DeleteCourse asks for confirmation before removing the course.
func (p *Presenter) DeleteCourse(ctx context.Context, id string) bool {
	defer p.begin()()
	c, err := p.store.Get(id)
	if err != nil {
		p.fail("Failed to delete course", err)
		return false
	}
	if !p.confirm.Confirm(fmt.Sprintf("Delete %q?", c.Title)) {
		return false
	}
	removed, err := p.store.Remove(ctx, id)
	if err != nil {
		p.fail("Failed to delete course", err)
		return false
	}
	if !removed {
		p.fail("Failed to delete course", store.ErrNotFound)
		return false
	}
	p.notify(fmt.Sprintf("%s deleted", c.Title), SeverityWarning)
	p.Refresh()
	return true
}

func (p *Presenter) ToggleFavorite(ctx context.Context, id string) *models.Course {
	defer p.begin()()
	fav, err := p.store.ToggleFavorite(ctx, id)
	if err != nil {
		p.fail("Failed to update favorites", err)
		return nil
	}
	c, err := p.store.Get(id)
	if err != nil {
		p.fail("Failed to update favorites", err)
		return nil
	}
	if fav {
		p.notify(fmt.Sprintf("%s added to favorites", c.Title), SeverityInfo)
	} else {
		p.notify(fmt.Sprintf("%s removed from favorites", c.Title), SeverityInfo)
	}
	p.patch(c)
	return &c
}

func (p *Presenter) AdjustProgress(ctx context.Context, id string, delta int) *models.Course {
	defer p.begin()()
	c, err := p.store.AdjustProgress(ctx, id, delta)
	if err != nil {
		p.fail("Failed to update progress", err)
		return nil
	}
	p.notify(progressMessage(c), SeverityInfo)
	p.patch(c)
	return &c
}

func (p *Presenter) SetProgress(ctx context.Context, id string, target int) *models.Course {
	defer p.begin()()
	c, err := p.store.SetProgress(ctx, id, target)
	if err != nil {
		p.fail("Failed to update progress", err)
		return nil
	}
	p.notify(progressMessage(c), SeveritySuccess)
	p.patch(c)
	return &c
}

func progressMessage(c models.Course) string {
	return fmt.Sprintf("%d/%d (%d%%)", c.CompletedLessons, c.TotalLessons, c.Percent())
}

// DuplicateCourse always re-renders fully so the copy lands in sort position.
func (p *Presenter) DuplicateCourse(ctx context.Context, id string) *models.Course {
	defer p.begin()()
	c, err := p.store.Duplicate(ctx, id)
	if err != nil {
		p.fail("Failed to duplicate course", err)
		return nil
	}
	p.notify(fmt.Sprintf("%s created", c.Title), SeveritySuccess)
	p.Refresh()
	return &c
}
