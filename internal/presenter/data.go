// ABOUTME: Whole-collection operations: export, import, clear and sync.
// ABOUTME: Import validates everything before the collection is replaced.

package presenter

import (
	"context"
	"fmt"
	"io"

	"github.com/harper/coursetrack/internal/models"
	"github.com/harper/coursetrack/internal/transfer"
)

// Pusher uploads local-only courses to the remote service.
type Pusher interface {
	Push(ctx context.Context) (int, error)
}

// Export writes every course, unfiltered, as an export file.
func (p *Presenter) Export(w io.Writer) bool {
	courses := p.store.All()
	if err := transfer.WriteJSON(w, courses); err != nil {
		p.fail("Export failed", err)
		return false
	}
	p.notify(fmt.Sprintf("Exported %d courses", len(courses)), SeveritySuccess)
	return true
}

// Import reads an export file and, once confirmed, replaces the collection.
func (p *Presenter) Import(ctx context.Context, r io.Reader) bool {
	courses, err := transfer.ReadJSON(r)
	if err != nil {
		p.fail("Import failed: invalid file format", err)
		return false
	}
	return p.ImportCourses(ctx, courses)
}

// ImportCourses replaces the collection with already decoded courses.
func (p *Presenter) ImportCourses(ctx context.Context, courses []models.Course) bool {
	defer p.begin()()
	prompt := fmt.Sprintf("Replace %d existing courses with %d imported courses?", len(p.store.All()), len(courses))
	if !p.confirm.Confirm(prompt) {
		return false
	}
	local, err := p.store.ReplaceAll(ctx, courses)
	if err != nil {
		p.fail("Import failed", err)
		return false
	}
	if local {
		p.notify(fmt.Sprintf("Imported %d courses locally", len(courses)), SeverityWarning)
	} else {
		p.notify(fmt.Sprintf("Imported %d courses", len(courses)), SeveritySuccess)
	}
	p.Refresh()
	return true
}

// ClearAll deletes every course after two confirmations.
func (p *Presenter) ClearAll(ctx context.Context) bool {
	defer p.begin()()
	if !p.confirm.Confirm("Delete ALL courses?") {
		return false
	}
	if !p.confirm.Confirm("This cannot be undone. Are you sure?") {
		return false
	}
	if _, err := p.store.Clear(ctx); err != nil {
		p.fail("Failed to delete data", err)
		return false
	}
	p.notify("All data deleted", SeverityWarning)
	p.Refresh()
	return true
}

// Sync pushes local-only courses and reloads from storage.
func (p *Presenter) Sync(ctx context.Context, pusher Pusher) bool {
	defer p.begin()()
	n, err := pusher.Push(ctx)
	if err != nil {
		p.fail("Sync failed", err)
		return false
	}
	if err := p.store.Reload(ctx); err != nil {
		p.fail("Sync failed", err)
		return false
	}
	p.notify(fmt.Sprintf("Synced %d courses", n), SeveritySuccess)
	p.Refresh()
	return true
}
