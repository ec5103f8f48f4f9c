package memoryengine

import (
	"github.com/seriescatalog/catalog-reports/docstore"
)

// Option defines a functional option for configuring DocumentStore.
type Option func(*DocumentStore) error

// WithLogger sets the logger for the DocumentStore.
//
// Debug level: per-stage pipeline evaluation
// Info level: document counts and durations
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
