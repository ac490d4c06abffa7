package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joss/pricelist/internal/logging"
)

// Logger provides audit logging capabilities.
type Logger struct {
	mu  sync.Mutex
	log *logging.Logger
}

// NewLogger creates a new audit logger.
func NewLogger() *Logger {
	return &Logger{log: logging.New("audit")}
}

// Start begins tracking an operation.
func (l *Logger) Start(category Category, operation string) *AuditEvent {
	return &AuditEvent{
		EventID:   uuid.New().String(),
		Category:  category,
		Operation: operation,
		StartedAt: time.Now(),
	}
}

// Log writes a completed event.
func (l *Logger) Log(event *AuditEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.CompletedAt.IsZero() {
		event.Complete(StatusSuccess, nil)
	}

	fields := map[string]any{
		"event_id":    event.EventID,
		"category":    string(event.Category),
		"status":      string(event.Status),
		"duration_ms": event.DurationMs,
	}
	if len(event.Details) > 0 {
		fields["details"] = event.Details
	}

	switch event.Status {
	case StatusError:
		l.log.Error(event.Operation, fields, errorOf(event))
	case StatusWarning:
		l.log.Warn(event.Operation, fields, errorOf(event))
	default:
		l.log.Info(event.Operation, fields)
	}
}

// LogSuccess logs a successful operation.
func (l *Logger) LogSuccess(event *AuditEvent) {
	event.Complete(StatusSuccess, nil)
	l.Log(event)
}

// LogError logs a failed operation.
func (l *Logger) LogError(event *AuditEvent, err error) {
	event.Complete(StatusError, err)
	l.Log(event)
}

// LogWarning logs an operation that finished with problems.
func (l *Logger) LogWarning(event *AuditEvent, msg string) {
	event.Complete(StatusWarning, nil)
	event.ErrorMessage = msg
	l.Log(event)
}

type auditError string

func (e auditError) Error() string { return string(e) }

func errorOf(e *AuditEvent) error {
	if e.ErrorMessage == "" {
		return nil
	}
	return auditError(e.ErrorMessage)
}

var (
	globalLogger *Logger
	globalOnce   sync.Once
)

// Global returns the global logger instance.
func Global() *Logger {
	globalOnce.Do(func() {
		globalLogger = NewLogger()
	})
	return globalLogger
}
