// ABOUTME: Tests for the Store: loading, failover persistence and operations.
// ABOUTME: Uses in-memory adapters with switchable failures.

package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/coursetrack/internal/adapter"
	"github.com/harper/coursetrack/internal/models"
	coursesync "github.com/harper/coursetrack/internal/sync"
)

var errOffline = errors.New("offline")

// flaky wraps a local adapter, mints server-style ids and can be switched off.
type flaky struct {
	*adapter.Local
	mu     sync.Mutex
	down   bool
	nextID int
	calls  int
}

func newFlaky() *flaky {
	return &flaky{Local: adapter.NewLocal(adapter.NewMemory())}
}

func (f *flaky) Name() string { return "flaky" }

func (f *flaky) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *flaky) check() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.down {
		return errOffline
	}
	return nil
}

func (f *flaky) Load(ctx context.Context) ([]models.Course, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	courses, err := f.Local.Load(ctx)
	if errors.Is(err, adapter.ErrNoSnapshot) {
		return []models.Course{}, nil
	}
	return courses, err
}

func (f *flaky) Save(ctx context.Context, courses []models.Course) error {
	if err := f.check(); err != nil {
		return err
	}
	return f.Local.Save(ctx, courses)
}

func (f *flaky) Add(ctx context.Context, c models.Course) (models.Course, error) {
	if err := f.check(); err != nil {
		return models.Course{}, err
	}
	f.mu.Lock()
	f.nextID++
	c.ID = fmt.Sprintf("srv-%d", f.nextID)
	f.mu.Unlock()
	return f.Local.Add(ctx, c)
}

func (f *flaky) Update(ctx context.Context, c models.Course) (models.Course, error) {
	if err := f.check(); err != nil {
		return models.Course{}, err
	}
	return f.Local.Update(ctx, c)
}

func (f *flaky) Remove(ctx context.Context, id string) error {
	if err := f.check(); err != nil {
		return err
	}
	return f.Local.Remove(ctx, id)
}

// failing always errors, standing in for a broken fallback.
type failing struct{}

func (failing) Name() string { return "failing" }
func (failing) Load(context.Context) ([]models.Course, error) {
	return nil, errOffline
}
func (failing) Save(context.Context, []models.Course) error { return errOffline }
func (failing) Add(context.Context, models.Course) (models.Course, error) {
	return models.Course{}, errOffline
}
func (failing) Update(context.Context, models.Course) (models.Course, error) {
	return models.Course{}, errOffline
}
func (failing) Remove(context.Context, string) error { return errOffline }

type recorder struct {
	mu     sync.Mutex
	events [][]models.Course
}

func (r *recorder) listen(courses []models.Course) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, courses)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// loadedStore returns a store over a healthy primary seeded with demo courses
// and a memory-backed local fallback.
func loadedStore(t *testing.T) (*Store, *flaky, *adapter.Local) {
	t.Helper()
	ctx := context.Background()
	primary := newFlaky()
	require.NoError(t, primary.Local.Save(ctx, models.DemoCourses()))
	local := adapter.NewLocal(adapter.NewMemory())
	s := New(primary, WithFallback(local))
	require.NoError(t, s.Load(ctx))
	return s, primary, local
}

func TestLoadFromPrimaryMirrorsToFallback(t *testing.T) {
	s, _, local := loadedStore(t)

	assert.Equal(t, 5, s.Len())
	mirrored, err := local.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, mirrored, 5)
}

func TestLoadFallsBackToLocalSnapshot(t *testing.T) {
	ctx := context.Background()
	primary := newFlaky()
	primary.setDown(true)
	local := adapter.NewLocal(adapter.NewMemory())
	require.NoError(t, local.Save(ctx, models.DemoCourses()[:2]))

	s := New(primary, WithFallback(local))
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, 2, s.Len())
}

func TestLoadSeedsAndPersistsWhenNoSnapshot(t *testing.T) {
	ctx := context.Background()
	primary := newFlaky()
	primary.setDown(true)
	local := adapter.NewLocal(adapter.NewMemory())

	s := New(primary, WithFallback(local))
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, 5, s.Len())

	stored, err := local.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 5)
}

func TestLoadLocalOnlySeeds(t *testing.T) {
	ctx := context.Background()
	local := adapter.NewLocal(adapter.NewMemory())
	s := New(local)
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, 5, s.Len())

	stored, err := local.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 5)
}

func TestLoadCorruptSnapshotSeedsWithoutOverwriting(t *testing.T) {
	ctx := context.Background()
	mem := adapter.NewMemory()
	require.NoError(t, mem.Put(ctx, adapter.DefaultSnapshotKey, []byte("garbage")))
	s := New(adapter.NewLocal(mem))

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, 5, s.Len())

	data, err := mem.Get(ctx, adapter.DefaultSnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, "garbage", string(data))
}

func TestListenersNotifiedOnlyAfterLoad(t *testing.T) {
	primary := newFlaky()
	s := New(primary, WithFallback(adapter.NewLocal(adapter.NewMemory())))
	rec := &recorder{}
	s.Subscribe(rec.listen)

	assert.Equal(t, 0, rec.count())
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 1, rec.count())
}

func TestAddUsesPrimaryID(t *testing.T) {
	s, _, local := loadedStore(t)
	ctx := context.Background()

	c, err := s.Add(ctx, models.CoursePatch{Title: models.Ptr("Go"), TotalLessons: models.Ptr(10)})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", c.ID)
	assert.Equal(t, models.StatusPlanned, c.Status)
	assert.False(t, c.LastUpdated.IsZero())

	mirrored, err := local.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, mirrored, 6)
}

func TestAddFallsBackWithLocalID(t *testing.T) {
	s, primary, local := loadedStore(t)
	ctx := context.Background()
	primary.setDown(true)

	c, err := s.Add(ctx, models.CoursePatch{Title: models.Ptr("Go"), TotalLessons: models.Ptr(4), CompletedLessons: models.Ptr(9)})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.NotContains(t, c.ID, "srv-")
	assert.Equal(t, 4, c.CompletedLessons)
	assert.Equal(t, models.StatusCompleted, c.Status)

	stored, err := local.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 6)
	_, err = s.Get(c.ID)
	assert.NoError(t, err)
}

func TestWriteFailsOnlyWhenFallbackFails(t *testing.T) {
	ctx := context.Background()
	primary := newFlaky()
	require.NoError(t, primary.Local.Save(ctx, models.DemoCourses()))
	s := New(primary, WithFallback(failing{}))
	require.NoError(t, s.Load(ctx))
	rec := &recorder{}
	s.Subscribe(rec.listen)

	primary.setDown(true)
	_, err := s.AdjustProgress(ctx, "course-1", 5)
	require.Error(t, err)

	c, err := s.Get("course-1")
	require.NoError(t, err)
	assert.Equal(t, 8, c.CompletedLessons, "memory must not change when nothing persisted")
	assert.Equal(t, 0, rec.count())
}

func TestUpdateMergesPatch(t *testing.T) {
	s, _, _ := loadedStore(t)
	before, _ := s.Get("course-3")

	got, err := s.Update(context.Background(), "course-3", models.CoursePatch{
		Title:  models.Ptr("SQL Deep Dive"),
		Status: models.Ptr(models.StatusCompleted),
	})
	require.NoError(t, err)

	assert.Equal(t, "SQL Deep Dive", got.Title)
	assert.Equal(t, before.Description, got.Description)
	assert.Equal(t, before.Tags, got.Tags)
	assert.Equal(t, models.StatusCompleted, got.Status, "direct edits may set status freely")
	assert.Equal(t, 0, got.CompletedLessons)
	assert.True(t, got.LastUpdated.After(before.LastUpdated))

	_, err = s.Update(context.Background(), "missing", models.CoursePatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdjustProgressKeepsInvariants(t *testing.T) {
	s, _, _ := loadedStore(t)
	ctx := context.Background()

	for _, delta := range []int{-100, -1, 0, 1, 3, 16, 17, 100, math.MaxInt, math.MinInt} {
		c, err := s.AdjustProgress(ctx, "course-1", delta)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, c.CompletedLessons, 0)
		assert.LessOrEqual(t, c.CompletedLessons, c.TotalLessons)
		assert.Equal(t, models.DeriveStatus(c.CompletedLessons, c.TotalLessons), c.Status, "delta %d", delta)
	}

	_, err := s.AdjustProgress(ctx, "missing", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdjustProgressSaturates(t *testing.T) {
	s, _, _ := loadedStore(t)
	ctx := context.Background()

	_, err := s.SetProgress(ctx, "course-1", 3)
	require.NoError(t, err)

	c, err := s.AdjustProgress(ctx, "course-1", math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, c.TotalLessons, c.CompletedLessons)
	assert.Equal(t, models.StatusCompleted, c.Status)

	c, err = s.AdjustProgress(ctx, "course-1", math.MinInt)
	require.NoError(t, err)
	assert.Equal(t, 0, c.CompletedLessons)
	assert.Equal(t, models.StatusPlanned, c.Status)
}

func TestSetProgressIsIdempotent(t *testing.T) {
	s, _, _ := loadedStore(t)
	ctx := context.Background()

	first, err := s.SetProgress(ctx, "course-4", 20)
	require.NoError(t, err)
	second, err := s.SetProgress(ctx, "course-4", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, first.CompletedLessons)
	assert.Equal(t, first.CompletedLessons, second.CompletedLessons)

	clamped, err := s.SetProgress(ctx, "course-4", 99)
	require.NoError(t, err)
	assert.Equal(t, 28, clamped.CompletedLessons)
	assert.Equal(t, models.StatusCompleted, clamped.Status)

	zero, err := s.SetProgress(ctx, "course-4", -5)
	require.NoError(t, err)
	assert.Equal(t, 0, zero.CompletedLessons)
	assert.Equal(t, models.StatusPlanned, zero.Status)
}

func TestToggleFavorite(t *testing.T) {
	s, _, _ := loadedStore(t)
	ctx := context.Background()

	fav, err := s.ToggleFavorite(ctx, "course-1")
	require.NoError(t, err)
	assert.False(t, fav)
	fav, err = s.ToggleFavorite(ctx, "course-1")
	require.NoError(t, err)
	assert.True(t, fav)

	fav, err = s.ToggleFavorite(ctx, "missing")
	assert.False(t, fav)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDuplicate(t *testing.T) {
	s, _, _ := loadedStore(t)
	src, _ := s.Get("course-1")

	dup, err := s.Duplicate(context.Background(), "course-1")
	require.NoError(t, err)

	assert.NotEqual(t, src.ID, dup.ID)
	assert.False(t, dup.Favorite)
	assert.Equal(t, src.Title+CopySuffix, dup.Title)
	assert.Equal(t, src.Description, dup.Description)
	assert.Equal(t, src.Tags, dup.Tags)
	assert.Equal(t, src.TotalLessons, dup.TotalLessons)
	assert.Equal(t, src.CompletedLessons, dup.CompletedLessons)
	assert.Equal(t, src.Status, dup.Status)
	assert.Equal(t, 6, s.Len())

	_, err = s.Duplicate(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveMissingLeavesCollection(t *testing.T) {
	s, primary, _ := loadedStore(t)
	rec := &recorder{}
	s.Subscribe(rec.listen)
	callsBefore := primary.calls

	ok, err := s.Remove(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, 0, rec.count())
	assert.Equal(t, callsBefore, primary.calls)
}

func TestRemoveEmitsChange(t *testing.T) {
	s, _, _ := loadedStore(t)
	rec := &recorder{}
	s.Subscribe(rec.listen)

	ok, err := s.Remove(context.Background(), "course-2")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Equal(t, 1, rec.count())
	assert.Len(t, rec.events[0], 4)
}

func TestStatistics(t *testing.T) {
	ctx := context.Background()
	empty := New(adapter.NewLocal(adapter.NewMemory()), WithSeed(func() []models.Course { return nil }))
	require.NoError(t, empty.Load(ctx))
	assert.Equal(t, models.Stats{Total: 0, AverageProgress: 0}, empty.Statistics())

	zero := New(adapter.NewLocal(adapter.NewMemory()), WithSeed(func() []models.Course {
		return []models.Course{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	}))
	require.NoError(t, zero.Load(ctx))
	assert.Equal(t, models.Stats{Total: 3, AverageProgress: 0}, zero.Statistics())

	s, _, _ := loadedStore(t)
	assert.Equal(t, 5, s.Statistics().Total)
	assert.Equal(t, 5, s.Summary().Total)
}

func TestTags(t *testing.T) {
	s, _, _ := loadedStore(t)
	_, err := s.Update(context.Background(), "course-3", models.CoursePatch{Tags: &[]string{"SQL", "Frontend"}})
	require.NoError(t, err)

	tags := s.Tags()
	assert.Contains(t, tags, "sql")
	assert.Contains(t, tags, "frontend")
	assert.NotContains(t, tags, "SQL")
	assert.IsIncreasing(t, tags)

	counts := s.TagCounts()
	require.NotEmpty(t, counts)
	assert.Equal(t, "frontend", counts[0].Name)
	assert.Equal(t, 4, counts[0].Count)
}

func TestListenerPanicIsIsolated(t *testing.T) {
	s, _, _ := loadedStore(t)
	var order []string
	s.Subscribe(func([]models.Course) { order = append(order, "first") })
	s.Subscribe(func([]models.Course) { panic("boom") })
	s.Subscribe(func([]models.Course) { order = append(order, "third") })

	_, err := s.ToggleFavorite(context.Background(), "course-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "third"}, order)
}

func TestUnsubscribe(t *testing.T) {
	s, _, _ := loadedStore(t)
	rec := &recorder{}
	unsubscribe := s.Subscribe(rec.listen)
	unsubscribe()
	unsubscribe()

	_, err := s.ToggleFavorite(context.Background(), "course-2")
	require.NoError(t, err)
	assert.Equal(t, 0, rec.count())
}

func TestListenersReceiveCopies(t *testing.T) {
	s, _, _ := loadedStore(t)
	s.Subscribe(func(courses []models.Course) {
		courses[0].Title = "mutated"
	})
	_, err := s.ToggleFavorite(context.Background(), "course-2")
	require.NoError(t, err)

	c, _ := s.Get("course-1")
	assert.Equal(t, "Modern JavaScript", c.Title)
}

func TestAllReturnsCopy(t *testing.T) {
	s, _, _ := loadedStore(t)
	all := s.All()
	all[0].Tags[0] = "mutated"

	c, _ := s.Get(all[0].ID)
	assert.NotEqual(t, "mutated", c.Tags[0])
}

func TestReplaceAll(t *testing.T) {
	s, primary, local := loadedStore(t)
	ctx := context.Background()

	fallback, err := s.ReplaceAll(ctx, models.DemoCourses()[:2])
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, 2, s.Len())

	primary.setDown(true)
	fallback, err = s.ReplaceAll(ctx, models.DemoCourses()[:3])
	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Equal(t, 3, s.Len())
	stored, err := local.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	_, err = s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestFind(t *testing.T) {
	s, _, _ := loadedStore(t)

	c, err := s.Find("course-2")
	require.NoError(t, err)
	assert.Equal(t, "course-2", c.ID)

	_, err = s.Find("cour")
	assert.ErrorIs(t, err, ErrPrefixTooShort)
	_, err = s.Find("course-")
	assert.ErrorIs(t, err, ErrAmbiguousPrefix)
	_, err = s.Find("zzzzzzzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentProgressOnSameCourse(t *testing.T) {
	s, _, _ := loadedStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AdjustProgress(ctx, "course-1", 1)
		}()
	}
	wg.Wait()

	c, err := s.Get("course-1")
	require.NoError(t, err)
	assert.Equal(t, 18, c.CompletedLessons)
}

func TestOfflineCourseSurvivesReload(t *testing.T) {
	s, primary, local := loadedStore(t)
	ctx := context.Background()

	primary.setDown(true)
	offline, err := s.Add(ctx, models.CoursePatch{Title: models.Ptr("Offline Go"), TotalLessons: models.Ptr(5)})
	require.NoError(t, err)

	primary.setDown(false)
	reloaded := New(primary, WithFallback(local))
	require.NoError(t, reloaded.Load(ctx))
	_, err = reloaded.Get(offline.ID)
	assert.NoError(t, err)

	stored, err := local.Load(ctx)
	require.NoError(t, err)
	remoteCourses, err := primary.Local.Load(ctx)
	require.NoError(t, err)
	plan := coursesync.Diff(stored, remoteCourses)
	require.Len(t, plan.Create, 1)
	assert.Equal(t, "Offline Go", plan.Create[0].Title)

	ok, err := reloaded.Remove(ctx, "course-2")
	require.NoError(t, err)
	require.True(t, ok)
	stored, err = local.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 5)
	for _, c := range stored {
		assert.NotEqual(t, "course-2", c.ID, "removed course must not come back as pending")
	}
}

func TestLoadLeavesUnreadableFallbackAlone(t *testing.T) {
	ctx := context.Background()
	primary := newFlaky()
	require.NoError(t, primary.Local.Save(ctx, models.DemoCourses()))
	mem := adapter.NewMemory()
	require.NoError(t, mem.Put(ctx, adapter.DefaultSnapshotKey, []byte("garbage")))

	s := New(primary, WithFallback(adapter.NewLocal(mem)))
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, 5, s.Len())

	data, err := mem.Get(ctx, adapter.DefaultSnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, "garbage", string(data))
}

func TestConcurrentWritersDeliverLatestSnapshotLast(t *testing.T) {
	s, _, _ := loadedStore(t)
	ctx := context.Background()
	rec := &recorder{}
	s.Subscribe(rec.listen)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.Add(ctx, models.CoursePatch{Title: models.Ptr(fmt.Sprintf("Course %d", i)), TotalLessons: models.Ptr(3)})
		}(i)
	}
	wg.Wait()

	require.Equal(t, 25, s.Len())
	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.NotEmpty(t, rec.events)
	lengths := make([]int, len(rec.events))
	for i, ev := range rec.events {
		lengths[i] = len(ev)
	}
	assert.IsIncreasing(t, lengths)
	assert.Equal(t, 25, lengths[len(lengths)-1])
}
