package core

import "time"

// DataStore is the key/value cache shared across the stages of one
// orchestrator instance. Keys list in insertion order; lookup is by key only.
// Entries are overwritten on re-set and never expire.
type DataStore interface {
	Set(key string, value any)
	Get(key string) (any, bool)
	GetOrDefault(key string, def any) any
	Delete(key string) bool
	Clear()
	Keys() []string
	Count() int
}

// MetricsCollector receives orchestration telemetry. Implementations must be
// safe for concurrent use and must never block the caller for long; the
// engine treats metric emission as fire-and-forget.
type MetricsCollector interface {
	RecordTask(stage Stage, status TaskStatus, d time.Duration)
	RecordWorkflow(status WorkflowStatus, d time.Duration)
	RecordRetry(operation string)
	SetQualityScore(score float64)
	SetHealthScore(score float64)
}

// NoopMetrics discards all telemetry. Used as the default collector so the
// engine has no hard dependency on a metrics backend.
type NoopMetrics struct{}

// RecordTask implements MetricsCollector.
func (NoopMetrics) RecordTask(Stage, TaskStatus, time.Duration) {}

// RecordWorkflow implements MetricsCollector.
func (NoopMetrics) RecordWorkflow(WorkflowStatus, time.Duration) {}

// RecordRetry implements MetricsCollector.
func (NoopMetrics) RecordRetry(string) {}

// SetQualityScore implements MetricsCollector.
func (NoopMetrics) SetQualityScore(float64) {}

// SetHealthScore implements MetricsCollector.
func (NoopMetrics) SetHealthScore(float64) {}
