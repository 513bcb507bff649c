package testsupport

import (
	"context"
	"sync"

	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

// LogEntry is one captured log call.
type LogEntry struct {
	Level   string
	Message string
	Args    []any
	Fields  map[string]any
}

// RecordingLogger captures entries for assertions. Child loggers created via
// WithFields or WithContext share the parent's entry list.
type RecordingLogger struct {
	mu      *sync.Mutex
	entries *[]LogEntry
	fields  map[string]any
}

// NewRecordingLogger returns an empty recorder.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{mu: &sync.Mutex{}, entries: &[]LogEntry{}}
}

var (
	_ interfaces.Logger       = (*RecordingLogger)(nil)
	_ interfaces.FieldsLogger = (*RecordingLogger)(nil)
)

func (l *RecordingLogger) Trace(msg string, args ...any) { l.record("trace", msg, args) }
func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *RecordingLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args) }

func (l *RecordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &RecordingLogger{mu: l.mu, entries: l.entries, fields: merged}
}

func (l *RecordingLogger) WithContext(context.Context) interfaces.Logger {
	return l
}

// GetLogger lets the recorder act as a LoggerProvider.
func (l *RecordingLogger) GetLogger(string) interfaces.Logger {
	return l
}

func (l *RecordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, LogEntry{
		Level:   level,
		Message: msg,
		Args:    append([]any(nil), args...),
		Fields:  l.fields,
	})
}

// Entries returns a copy of the captured entries.
func (l *RecordingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), (*l.entries)...)
}

// HasEntry reports whether an entry with level and message was logged.
func (l *RecordingLogger) HasEntry(level, msg string) bool {
	for _, entry := range l.Entries() {
		if entry.Level == level && entry.Message == msg {
			return true
		}
	}
	return false
}

// Count returns the number of entries logged at level.
func (l *RecordingLogger) Count(level string) int {
	n := 0
	for _, entry := range l.Entries() {
		if entry.Level == level {
			n++
		}
	}
	return n
}
