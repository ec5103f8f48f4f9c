package postgresengine

import (
	"github.com/seriescatalog/catalog-reports/docstore"
)

// Option defines a functional option for configuring DocumentStore.
type Option func(*DocumentStore) error

// WithTablePrefix sets a prefix for the table names the collections are stored in.
func WithTablePrefix(prefix string) Option {
	return func(ds *DocumentStore) error {
		if prefix == "" {
			return ErrEmptyTablePrefix
		}

		ds.tablePrefix = prefix

		return nil
	}
}

// WithLogger sets the logger for the DocumentStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: document counts and durations (production-safe)
// Warn level: non-critical issues like cleanup failures
// Error level: critical failures that cause operation failures.
func WithLogger(logger docstore.Logger) Option {
	return func(ds *DocumentStore) error {
		ds.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the DocumentStore.
// The collector will receive operation durations, document counts, and database errors.
func WithMetrics(collector docstore.MetricsCollector) Option {
	return func(ds *DocumentStore) error {
		ds.metricsCollector = collector
		return nil
	}
}
