// ABOUTME: Helper for pushing offline changes from CLI commands
// ABOUTME: Provides silent-fail pattern for optional sync integration

package sync

import (
	"context"
)

// TryPush pushes pending local changes if a syncer is configured. Failures are
// logged and swallowed so commands keep working offline.
func TryPush(ctx context.Context, s *Syncer) int {
	if s == nil {
		return 0
	}
	n, err := s.Push(ctx)
	if err != nil {
		s.logger.Debug().Err(err).Msg("background push skipped")
	}
	return n
}
