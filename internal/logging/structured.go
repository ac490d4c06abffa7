// Package logging provides structured JSON logging for pricelist components.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var (
	baseMu sync.RWMutex
	base   = newBase(LevelInfo, os.Stderr)
)

// Init replaces the process logger with one emitting at the given level on stderr.
func Init(level string) {
	InitTo(level, os.Stderr)
}

// InitTo is Init with an explicit destination.
func InitTo(level string, w io.Writer) {
	SetBase(newBase(Level(level), w))
}

// SetBase installs an existing zap logger as the process logger.
func SetBase(z *zap.Logger) {
	baseMu.Lock()
	defer baseMu.Unlock()
	base = z
}

// Sync flushes buffered entries.
func Sync() {
	baseMu.RLock()
	defer baseMu.RUnlock()
	_ = base.Sync()
}

func newBase(level Level, w io.Writer) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.MessageKey = "event"
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(zapLevel(level)),
	)
	return zap.New(core)
}

func zapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zap.DebugLevel
	case LevelWarn:
		return zap.WarnLevel
	case LevelError:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// Logger provides component-scoped structured logging
type Logger struct {
	component string
	fields    []zap.Field
}

// New creates a new logger for a component
func New(component string) *Logger {
	return &Logger{component: component}
}

// With returns a logger that adds key to every event
func (l *Logger) With(key string, value any) *Logger {
	fields := make([]zap.Field, len(l.fields), len(l.fields)+1)
	copy(fields, l.fields)
	return &Logger{
		component: l.component,
		fields:    append(fields, zap.Any(key, value)),
	}
}

// log emits a structured log event
func (l *Logger) log(level Level, event string, extra map[string]any, err error) {
	baseMu.RLock()
	z := base
	baseMu.RUnlock()

	fields := make([]zap.Field, 0, len(l.fields)+len(extra)+2)
	fields = append(fields, zap.String("component", l.component))
	fields = append(fields, l.fields...)
	for k, v := range extra {
		fields = append(fields, zap.Any(k, v))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	switch level {
	case LevelDebug:
		z.Debug(event, fields...)
	case LevelWarn:
		z.Warn(event, fields...)
	case LevelError:
		z.Error(event, fields...)
	default:
		z.Info(event, fields...)
	}
}

// Debug logs a debug event
func (l *Logger) Debug(event string, extra map[string]any) {
	l.log(LevelDebug, event, extra, nil)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]any) {
	l.log(LevelInfo, event, extra, nil)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]any, err error) {
	l.log(LevelWarn, event, extra, err)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]any, err error) {
	l.log(LevelError, event, extra, err)
}

// TimedEvent logs an event with duration
func (l *Logger) TimedEvent(event string, start time.Time, extra map[string]any) {
	merged := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		merged[k] = v
	}
	merged["duration_ms"] = time.Since(start).Milliseconds()
	l.log(LevelInfo, event, merged, nil)
}
