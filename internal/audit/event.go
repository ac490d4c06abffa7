// Package audit records one structured event per CLI operation.
package audit

import (
	"time"
)

// Category represents the type of operation being audited.
type Category string

const (
	CategoryView   Category = "view"
	CategoryServe  Category = "serve"
	CategoryScrape Category = "scrape"
	CategoryCheck  Category = "check"
	CategoryDoctor Category = "doctor"
)

// Status represents the outcome of an operation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusWarning Status = "warning"
)

// AuditEvent represents a single auditable operation.
type AuditEvent struct {
	EventID   string   `json:"event_id"`
	Category  Category `json:"category"`
	Operation string   `json:"operation"`

	Status       Status         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Details      map[string]any `json:"details,omitempty"`

	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at,omitempty"`
	DurationMs  int64         `json:"duration_ms,omitempty"`
	Duration    time.Duration `json:"-"`
}

// Complete marks the event as finished.
func (e *AuditEvent) Complete(status Status, err error) {
	e.CompletedAt = time.Now()
	e.Duration = e.CompletedAt.Sub(e.StartedAt)
	e.DurationMs = e.Duration.Milliseconds()
	e.Status = status

	if err != nil {
		e.ErrorMessage = err.Error()
		if status == "" {
			e.Status = StatusError
		}
	}
}

// Set attaches a detail to the event.
func (e *AuditEvent) Set(key string, value any) *AuditEvent {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}
