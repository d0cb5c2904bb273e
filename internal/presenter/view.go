// ABOUTME: Contracts the presenter drives: rendering, notifications, confirmation.
// ABOUTME: Terminal and test implementations live outside this package.

package presenter

import (
	"time"

	"github.com/harper/coursetrack/internal/models"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DefaultNotifyDuration is how long a notification stays visible.
const DefaultNotifyDuration = 3 * time.Second

// Renderer draws the course list and statistics.
type Renderer interface {
	RenderList(courses []models.Course, p *Presenter)
	UpdateOne(course models.Course)
	RemoveOne(id string)
	RenderStatistics(stats models.Stats)
}

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(message string, severity Severity, duration time.Duration)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}
