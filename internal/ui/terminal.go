// ABOUTME: Terminal view for the presenter: renders lists, notifications and prompts.
// ABOUTME: Writes to any io.Writer and reads confirmations from any io.Reader.

package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/harper/coursetrack/internal/models"
	"github.com/harper/coursetrack/internal/presenter"
)

type Terminal struct {
	mu        sync.Mutex
	out       io.Writer
	in        *bufio.Reader
	assumeYes bool
	showStats bool
}

type TerminalOption func(*Terminal)

// WithAssumeYes answers every confirmation with yes, for --force.
func WithAssumeYes(yes bool) TerminalOption {
	return func(t *Terminal) {
		t.assumeYes = yes
	}
}

// WithStats toggles the statistics line after renders.
func WithStats(show bool) TerminalOption {
	return func(t *Terminal) {
		t.showStats = show
	}
}

func NewTerminal(out io.Writer, in io.Reader, opts ...TerminalOption) *Terminal {
	t := &Terminal{out: out, in: bufio.NewReader(in), showStats: true}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var (
	_ presenter.Renderer  = (*Terminal)(nil)
	_ presenter.Notifier  = (*Terminal)(nil)
	_ presenter.Confirmer = (*Terminal)(nil)
)

func (t *Terminal) RenderList(courses []models.Course, p *presenter.Presenter) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(courses) == 0 {
		fmt.Fprintln(t.out, faint("No courses found."))
		return
	}
	if p != nil {
		if cr := p.Criteria(); cr.Search != "" || len(cr.Statuses) > 0 || cr.OnlyFavorites {
			fmt.Fprintln(t.out, faint(fmt.Sprintf("%d matching courses", len(courses))))
		}
	}
	for _, c := range courses {
		fmt.Fprint(t.out, FormatCourseListItem(c))
	}
}

func (t *Terminal) UpdateOne(c models.Course) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.out, FormatCourseListItem(c))
}

func (t *Terminal) RemoveOne(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, faint(fmt.Sprintf("  %s no longer matches the current filter", ShortID(id))))
}

func (t *Terminal) RenderStatistics(s models.Stats) {
	if !t.showStats {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.out, Separator()+FormatStats(s))
}

// Notify prints the message immediately; the duration has no meaning on a
// scrolling terminal.
func (t *Terminal) Notify(msg string, sev presenter.Severity, _ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch sev {
	case presenter.SeveritySuccess:
		msg = Success(msg)
	case presenter.SeverityWarning:
		msg = Warning(msg)
	case presenter.SeverityError:
		msg = Error(msg)
	default:
		msg = Info(msg)
	}
	fmt.Fprintln(t.out, msg)
}

func (t *Terminal) Confirm(prompt string) bool {
	if t.assumeYes {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "%s [y/N] ", prompt)
	response, err := t.in.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
