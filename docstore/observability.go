package docstore

import "time"

// Logger interface for query logging, operational information, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector interface for collecting document store performance and operational metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// Metric names and labels shared by all engines.
const (
	MetricOperationDuration = "docstore_operation_duration_seconds"
	MetricDocumentsReturned = "docstore_documents_returned"
	MetricDocumentsInserted = "docstore_documents_inserted"
	MetricOperationErrors   = "docstore_operation_errors_total"

	LabelOperation  = "operation"
	LabelCollection = "collection"
	LabelStatus     = "status"
	LabelEngine     = "engine"

	StatusSuccess = "success"
	StatusError   = "error"

	OperationDrop      = "drop"
	OperationInsert    = "insert"
	OperationFind      = "find"
	OperationAggregate = "aggregate"
)
