package batch

import (
	"sync"
	"time"

	"github.com/seriescatalog/catalog-reports/docstore"
)

const logMsgOperationTimings = "docstore operation timings"

// OperationTiming accumulates the measurements of one store operation kind.
type OperationTiming struct {
	Operation string
	Calls     int
	Errors    int
	Total     time.Duration
	Documents int
}

// TimingCollector is an in-process docstore.MetricsCollector that accumulates durations,
// error counts and document counts per operation.
type TimingCollector struct {
	mu         sync.Mutex
	operations map[string]*OperationTiming
	order      []string
}

// NewTimingCollector creates an empty TimingCollector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{
		operations: make(map[string]*OperationTiming),
	}
}

// RecordDuration records one call of the labelled operation.
func (c *TimingCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	if metric != docstore.MetricOperationDuration {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	timing := c.timingFor(labels[docstore.LabelOperation])
	timing.Calls++
	timing.Total += duration
}

// IncrementCounter counts failed operations.
func (c *TimingCollector) IncrementCounter(metric string, labels map[string]string) {
	if metric != docstore.MetricOperationErrors {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.timingFor(labels[docstore.LabelOperation]).Errors++
}

// RecordValue adds returned or inserted document counts.
func (c *TimingCollector) RecordValue(metric string, value float64, labels map[string]string) {
	if metric != docstore.MetricDocumentsReturned && metric != docstore.MetricDocumentsInserted {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.timingFor(labels[docstore.LabelOperation]).Documents += int(value)
}

// Timings returns a copy of the accumulated timings in the order the operations were first seen.
func (c *TimingCollector) Timings() []OperationTiming {
	c.mu.Lock()
	defer c.mu.Unlock()

	timings := make([]OperationTiming, 0, len(c.order))
	for _, operation := range c.order {
		timings = append(timings, *c.operations[operation])
	}

	return timings
}

// LogSummary logs one info line per operation kind.
func (c *TimingCollector) LogSummary(logger docstore.Logger) {
	if logger == nil {
		return
	}

	for _, timing := range c.Timings() {
		logger.Info(
			logMsgOperationTimings,
			"operation", timing.Operation,
			"calls", timing.Calls,
			"errors", timing.Errors,
			"document_count", timing.Documents,
			"total_ms", toMilliseconds(timing.Total),
		)
	}
}

func (c *TimingCollector) timingFor(operation string) *OperationTiming {
	timing, ok := c.operations[operation]
	if !ok {
		timing = &OperationTiming{Operation: operation}
		c.operations[operation] = timing
		c.order = append(c.order, operation)
	}

	return timing
}
