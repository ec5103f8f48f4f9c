package helper

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// TestLogHandler is a slog.Handler implementation that captures log records for testing.
type TestLogHandler struct {
	records     []slog.Record
	mu          sync.Mutex
	logToStdout bool
}

// NewTestLogHandler creates a new TestLogHandler
// Switchable to log to stdout, which can be useful for debugging tests by seeing the actual log output.
func NewTestLogHandler(logToStdOut bool) *TestLogHandler {
	return &TestLogHandler{
		records:     make([]slog.Record, 0),
		logToStdout: logToStdOut,
	}
}

// NewTestLogger returns a slog.Logger writing into a fresh TestLogHandler.
func NewTestLogger() (*slog.Logger, *TestLogHandler) {
	handler := NewTestLogHandler(false)

	return slog.New(handler), handler
}

// Handle implements slog.Handler interface.
func (h *TestLogHandler) Handle(ctx context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, record.Clone())

	if h.logToStdout {
		jsonHandler := slog.NewJSONHandler(os.Stdout, nil)
		_ = jsonHandler.Handle(ctx, record)
	}

	return nil
}

// Enabled implements slog.Handler interface.
func (h *TestLogHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// WithAttrs implements slog.Handler interface.
func (h *TestLogHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

// WithGroup implements slog.Handler interface.
func (h *TestLogHandler) WithGroup(_ string) slog.Handler {
	return h
}

// GetRecordCount returns the number of captured log records.
func (h *TestLogHandler) GetRecordCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.records)
}

// GetRecords returns a copy of all captured log records.
func (h *TestLogHandler) GetRecords() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	records := make([]slog.Record, len(h.records))
	copy(records, h.records)

	return records
}

// Reset clears all captured log records.
func (h *TestLogHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = h.records[:0]
}

// LogRecordMatcher provides a fluent interface for checking log record attributes.
// It keeps every record with the requested level and message and narrows them down with each With* call.
type LogRecordMatcher struct {
	candidates []slog.Record
}

// HasDebugLogWithMessage starts a fluent chain to check a debug-level log record.
func (h *TestLogHandler) HasDebugLogWithMessage(message string) *LogRecordMatcher {
	return h.matching(slog.LevelDebug, message)
}

// HasInfoLogWithMessage starts a fluent chain to check an info-level log record.
func (h *TestLogHandler) HasInfoLogWithMessage(message string) *LogRecordMatcher {
	return h.matching(slog.LevelInfo, message)
}

// HasErrorLogWithMessage starts a fluent chain to check an error-level log record.
func (h *TestLogHandler) HasErrorLogWithMessage(message string) *LogRecordMatcher {
	return h.matching(slog.LevelError, message)
}

func (h *TestLogHandler) matching(level slog.Level, message string) *LogRecordMatcher {
	h.mu.Lock()
	defer h.mu.Unlock()

	matcher := &LogRecordMatcher{}
	for _, record := range h.records {
		if record.Level == level && record.Message == message {
			matcher.candidates = append(matcher.candidates, record)
		}
	}

	return matcher
}

// WithDurationMS keeps records with a non-negative duration_ms attribute.
func (m *LogRecordMatcher) WithDurationMS() *LogRecordMatcher {
	return m.filter("duration_ms", func(value slog.Value) bool {
		switch value.Kind() {
		case slog.KindInt64:
			return value.Int64() >= 0
		case slog.KindFloat64:
			return value.Float64() >= 0
		default:
			return false
		}
	})
}

// WithDocumentCount keeps records whose document_count attribute equals count.
func (m *LogRecordMatcher) WithDocumentCount(count int) *LogRecordMatcher {
	return m.filter("document_count", func(value slog.Value) bool {
		return value.Kind() == slog.KindInt64 && value.Int64() == int64(count)
	})
}

// WithAttr keeps records having the attribute key with the given string value.
func (m *LogRecordMatcher) WithAttr(key, value string) *LogRecordMatcher {
	return m.filter(key, func(v slog.Value) bool {
		return v.String() == value
	})
}

// WithAttrKey keeps records having the attribute key, whatever its value.
func (m *LogRecordMatcher) WithAttrKey(key string) *LogRecordMatcher {
	return m.filter(key, func(slog.Value) bool {
		return true
	})
}

func (m *LogRecordMatcher) filter(key string, accept func(slog.Value) bool) *LogRecordMatcher {
	kept := m.candidates[:0:0]

	for _, record := range m.candidates {
		matched := false
		record.Attrs(func(attr slog.Attr) bool {
			if attr.Key == key && accept(attr.Value.Resolve()) {
				matched = true
				return false // Stop iteration
			}

			return true // Continue iteration
		})

		if matched {
			kept = append(kept, record)
		}
	}

	m.candidates = kept

	return m
}

// Assert returns true if at least one record met all conditions in the fluent chain.
func (m *LogRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}
