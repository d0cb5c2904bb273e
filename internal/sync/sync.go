// ABOUTME: Pushes changes made while offline from the local snapshot to the remote.
// ABOUTME: New local courses are created remotely; newer local edits overwrite remote ones.

package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/harper/coursetrack/internal/adapter"
	"github.com/harper/coursetrack/internal/models"
)

// Syncer reconciles the local snapshot into the remote collection.
type Syncer struct {
	remote adapter.PersistenceAdapter
	local  adapter.PersistenceAdapter
	logger zerolog.Logger
}

type Option func(*Syncer)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Syncer) {
		s.logger = l
	}
}

func NewSyncer(remote, local adapter.PersistenceAdapter, opts ...Option) *Syncer {
	s := &Syncer{remote: remote, local: local, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan lists the remote writes needed to bring the remote up to date.
type Plan struct {
	Create []models.Course
	Update []models.Course
}

func (p Plan) Len() int {
	return len(p.Create) + len(p.Update)
}

// Diff compares snapshots. Courses unknown to the remote are created; courses
// whose local copy is strictly newer are updated. Remote-only courses are left alone.
func Diff(local, remote []models.Course) Plan {
	byID := make(map[string]models.Course, len(remote))
	for _, c := range remote {
		byID[c.ID] = c
	}

	var plan Plan
	for _, c := range local {
		r, ok := byID[c.ID]
		switch {
		case !ok:
			plan.Create = append(plan.Create, c)
		case c.LastUpdated.After(r.LastUpdated):
			plan.Update = append(plan.Update, c)
		}
	}
	return plan
}

// Merge returns the remote collection with the local changes Diff would push
// applied on top: newer local copies replace remote ones and local-only
// courses are appended. Diff(Merge(local, remote), remote) equals Diff(local, remote).
func Merge(local, remote []models.Course) []models.Course {
	plan := Diff(local, remote)
	newer := make(map[string]models.Course, len(plan.Update))
	for _, c := range plan.Update {
		newer[c.ID] = c
	}

	out := make([]models.Course, 0, len(remote)+len(plan.Create))
	for _, c := range remote {
		if n, ok := newer[c.ID]; ok {
			c = n
		}
		out = append(out, c)
	}
	return append(out, plan.Create...)
}

// Pending reports what Push would write, without writing.
func (s *Syncer) Pending(ctx context.Context) (Plan, error) {
	local, err := s.local.Load(ctx)
	if errors.Is(err, adapter.ErrNoSnapshot) {
		return Plan{}, nil
	}
	if err != nil {
		return Plan{}, fmt.Errorf("load local snapshot: %w", err)
	}
	remote, err := s.remote.Load(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("load remote courses: %w", err)
	}
	return Diff(local, remote), nil
}

// Push applies Diff(local, remote) and returns how many courses were written.
// Pushed courses are written back to the local snapshot under their remote ids,
// so they are not pending again.
func (s *Syncer) Push(ctx context.Context) (int, error) {
	local, err := s.local.Load(ctx)
	if errors.Is(err, adapter.ErrNoSnapshot) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load local snapshot: %w", err)
	}

	remote, err := s.remote.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load remote courses: %w", err)
	}

	plan := Diff(local, remote)
	written := make(map[string]models.Course, plan.Len())
	err = s.write(ctx, plan, written)

	if len(written) > 0 {
		s.logger.Info().Int("pushed", len(written)).Int("planned", plan.Len()).Msg("sync pushed local changes")
		if serr := s.local.Save(ctx, replaceWritten(local, written)); serr != nil {
			s.logger.Warn().Err(serr).Msg("could not record pushed courses locally")
		}
	}
	return len(written), err
}

// write pushes the plan, recording each remote result under the local id.
func (s *Syncer) write(ctx context.Context, plan Plan, written map[string]models.Course) error {
	for _, c := range plan.Create {
		created, err := s.remote.Add(ctx, c)
		if err != nil {
			return fmt.Errorf("create %q: %w", c.Title, err)
		}
		s.logger.Debug().Str("local_id", c.ID).Str("remote_id", created.ID).Msg("pushed new course")
		written[c.ID] = created
	}
	for _, c := range plan.Update {
		updated, err := s.remote.Update(ctx, c)
		if err != nil {
			return fmt.Errorf("update %q: %w", c.Title, err)
		}
		updated.ID = c.ID
		s.logger.Debug().Str("id", c.ID).Msg("pushed course update")
		written[c.ID] = updated
	}
	return nil
}

func replaceWritten(local []models.Course, written map[string]models.Course) []models.Course {
	out := make([]models.Course, len(local))
	for i, c := range local {
		if w, ok := written[c.ID]; ok {
			c = w
		}
		out[i] = c
	}
	return out
}
