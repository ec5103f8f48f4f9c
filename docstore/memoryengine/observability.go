package memoryengine

import (
	"math"
	"time"

	"github.com/seriescatalog/catalog-reports/docstore"
)

const (
	engineName = "memory"

	logMsgOperation       = "docstore operation: "
	logMsgOperationFailed = "docstore operation failed: "

	logAttrCollection    = "collection"
	logAttrDocumentCount = "document_count"
	logAttrStageCount    = "stage_count"
	logAttrDurationMS    = "duration_ms"
	logAttrError         = "error"
)

// logOperation logs operational information at info level if the logger is configured.
func (ds *DocumentStore) logOperation(action string, args ...any) {
	if ds.logger != nil {
		ds.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (ds *DocumentStore) logError(action string, err error, args ...any) {
	if ds.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		ds.logger.Error(logMsgOperationFailed+action, allArgs...)
	}
}

// recordOperation records the duration and outcome of an operation if the metrics collector is configured.
func (ds *DocumentStore) recordOperation(operation, collection string, duration time.Duration, err error) {
	if ds.metricsCollector == nil {
		return
	}

	status := docstore.StatusSuccess
	if err != nil {
		status = docstore.StatusError
	}

	labels := map[string]string{
		docstore.LabelEngine:     engineName,
		docstore.LabelOperation:  operation,
		docstore.LabelCollection: collection,
		docstore.LabelStatus:     status,
	}

	ds.metricsCollector.RecordDuration(docstore.MetricOperationDuration, duration, labels)

	if err != nil {
		ds.metricsCollector.IncrementCounter(docstore.MetricOperationErrors, labels)
	}
}

// recordDocumentCount records how many documents an operation returned or inserted.
func (ds *DocumentStore) recordDocumentCount(metric, operation, collection string, count int) {
	if ds.metricsCollector != nil {
		labels := map[string]string{
			docstore.LabelEngine:     engineName,
			docstore.LabelOperation:  operation,
			docstore.LabelCollection: collection,
		}
		ds.metricsCollector.RecordValue(metric, float64(count), labels)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
