// Package metrics provides a Prometheus implementation of
// core.MetricsCollector. Registration is done against a caller-supplied
// registerer so multiple orchestrators can coexist in one process.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/insightmesh/insightmesh/core"
)

// Collector implements core.MetricsCollector using Prometheus.
type Collector struct {
	tasksTotal       *prometheus.CounterVec
	taskDuration     *prometheus.HistogramVec
	workflowsTotal   *prometheus.CounterVec
	workflowDuration prometheus.Histogram
	retriesTotal     *prometheus.CounterVec
	qualityScore     prometheus.Gauge
	healthScore      prometheus.Gauge
}

var _ core.MetricsCollector = (*Collector)(nil)

// NewCollector registers the orchestration metrics with the default
// registerer.
func NewCollector() *Collector {
	return NewCollectorWith(prometheus.DefaultRegisterer)
}

// NewCollectorWith registers the orchestration metrics with reg.
func NewCollectorWith(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		tasksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insightmesh_tasks_total",
				Help: "Total number of tasks routed, by stage and final status",
			},
			[]string{"stage", "status"},
		),
		taskDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "insightmesh_task_duration_seconds",
				Help:    "Task execution duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"stage"},
		),
		workflowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insightmesh_workflows_total",
				Help: "Total number of workflows executed, by final status",
			},
			[]string{"status"},
		),
		workflowDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "insightmesh_workflow_duration_seconds",
				Help:    "Workflow execution duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
			},
		),
		retriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insightmesh_retries_total",
				Help: "Total number of retry attempts, by operation",
			},
			[]string{"operation"},
		),
		qualityScore: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "insightmesh_quality_score",
				Help: "Current aggregate quality score (0.0 to 1.0)",
			},
		),
		healthScore: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "insightmesh_health_score",
				Help: "Current system health score (0 to 100)",
			},
		),
	}
}

// RecordTask implements core.MetricsCollector.
func (c *Collector) RecordTask(stage core.Stage, status core.TaskStatus, d time.Duration) {
	c.tasksTotal.WithLabelValues(stage.String(), status.String()).Inc()
	c.taskDuration.WithLabelValues(stage.String()).Observe(d.Seconds())
}

// RecordWorkflow implements core.MetricsCollector.
func (c *Collector) RecordWorkflow(status core.WorkflowStatus, d time.Duration) {
	c.workflowsTotal.WithLabelValues(status.String()).Inc()
	c.workflowDuration.Observe(d.Seconds())
}

// RecordRetry implements core.MetricsCollector.
func (c *Collector) RecordRetry(operation string) {
	c.retriesTotal.WithLabelValues(operation).Inc()
}

// SetQualityScore implements core.MetricsCollector.
func (c *Collector) SetQualityScore(score float64) {
	c.qualityScore.Set(score)
}

// SetHealthScore implements core.MetricsCollector.
func (c *Collector) SetHealthScore(score float64) {
	c.healthScore.Set(score)
}
