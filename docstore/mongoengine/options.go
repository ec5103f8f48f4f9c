package mongoengine

import (
	"github.com/seriescatalog/catalog-reports/docstore"
)

// Option defines a functional option for configuring DocumentStore.
type Option func(*DocumentStore) error

// WithLogger sets the logger for the DocumentStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: translated BSON filters and pipelines with execution timing
// Info level: document counts and durations
// Warn level: non-critical issues like failing to close a cursor
// Error level: failures that cause operation failures.
func WithLogger(logger docstore.Logger) Option {
	return func(ds *DocumentStore) error {
		ds.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the DocumentStore.
func WithMetrics(collector docstore.MetricsCollector) Option {
	return func(ds *DocumentStore) error {
		ds.metricsCollector = collector
		return nil
	}
}
