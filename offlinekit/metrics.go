package offlinekit

import "time"

// MetricsCollector provides hooks for collecting storage engine metrics
type MetricsCollector interface {
	// RecordOperationDuration records how long an engine operation took
	RecordOperationDuration(operation string, duration time.Duration)

	// RecordQueueDepth records the queue size after a mutation
	RecordQueueDepth(depth int)

	// RecordConflictsResolved records the number of operations merged in a resolution
	RecordConflictsResolved(count int)

	// RecordStorageBytes records the latest storage footprint estimate
	RecordStorageBytes(bytes int64)
}

// NoOpMetricsCollector is a default implementation that does nothing
type NoOpMetricsCollector struct{}

func (n *NoOpMetricsCollector) RecordOperationDuration(operation string, duration time.Duration) {}
func (n *NoOpMetricsCollector) RecordQueueDepth(depth int)                                       {}
func (n *NoOpMetricsCollector) RecordConflictsResolved(count int)                                {}
func (n *NoOpMetricsCollector) RecordStorageBytes(bytes int64)                                   {}
