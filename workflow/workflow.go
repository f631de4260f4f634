// Package workflow runs an ordered list of tasks through the router,
// applying fail-fast vs. continue-on-error policy per task and rolling the
// outcomes up into a workflow record.
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/insightmesh/insightmesh/core"
	"github.com/insightmesh/insightmesh/errorintel"
	"github.com/insightmesh/insightmesh/logging"
	"github.com/insightmesh/insightmesh/router"
)

// DefaultHistoryLimit bounds the retained execution history.
const DefaultHistoryLimit = 1000

// Options configures an Executor.
type Options struct {
	// Logger receives workflow lifecycle events. Defaults to no-op.
	Logger logging.Logger
	// Metrics receives per-workflow telemetry. Defaults to no-op.
	Metrics core.MetricsCollector
	// HistoryLimit caps the retained task history; non-positive values fall
	// back to DefaultHistoryLimit.
	HistoryLimit int
}

// Executor drives workflow execution. Tasks run strictly in submission
// order, one at a time; there is no concurrency between tasks and no
// cancellation beyond the caller's context.
type Executor struct {
	router  *router.Router
	intel   *errorintel.Intelligence
	logger  logging.Logger
	metrics core.MetricsCollector

	mu           sync.Mutex
	history      []*core.Task
	historyLimit int
}

// New constructs an Executor over the given router and error sink.
func New(r *router.Router, intel *errorintel.Intelligence, optFns ...func(o *Options)) *Executor {
	opts := Options{
		Logger:       logging.NoOpLogger{},
		Metrics:      core.NoopMetrics{},
		HistoryLimit: DefaultHistoryLimit,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	return &Executor{
		router:       r,
		intel:        intel,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		historyLimit: opts.HistoryLimit,
	}
}

// Execute validates the pipeline order, then runs each task in submission
// order. Non-critical failures are tolerated and counted; a critical
// failure aborts the remaining tasks and fails the workflow. The returned
// error is non-nil only for order violations and critical aborts — ordinary
// task failures surface through the workflow's status and counters.
func (e *Executor) Execute(ctx context.Context, specs []core.TaskSpec) (*core.Workflow, error) {
	stages, err := router.ValidatePipelineOrder(specs)
	if err != nil {
		e.intel.Record(errorintel.NewRecord(core.KindValidation, "workflow", err.Error()).
			WithSeverity(core.SeverityLow).
			Build())
		return nil, err
	}

	wf := core.NewWorkflow(len(specs))
	wf.Status = core.WorkflowRunning
	e.logger.Info("workflow started", "workflow_id", wf.ID, "tasks", len(specs))

	for i, spec := range specs {
		task := core.NewTask(stages[i], spec.Parameters, spec.Critical)
		_, routeErr := e.router.Route(ctx, task)
		e.Remember(task)
		wf.Append(task)

		if routeErr == nil {
			continue
		}
		if spec.Critical {
			wf.Status = core.WorkflowFailed
			wf.CompletedAt = time.Now()
			wf.QualityScore = meanTaskQuality(wf)
			e.intel.Record(errorintel.NewRecord(core.KindWorkflow, task.Stage.AgentName(),
				fmt.Sprintf("critical task %s aborted workflow: %v", task.Stage, routeErr)).
				WithSeverity(core.SeverityHigh).
				WithContext("workflow_id", wf.ID).
				WithContext("task_id", task.ID).
				Build())
			e.metrics.RecordWorkflow(wf.Status, time.Since(wf.StartedAt))
			e.logger.Error("workflow aborted by critical task",
				"workflow_id", wf.ID, "task_id", task.ID, "stage", task.Stage.String())
			return wf, core.WrapError(core.KindWorkflow,
				fmt.Sprintf("critical task %s failed", task.Stage), routeErr)
		}
		e.logger.Warn("non-critical task failed, continuing",
			"workflow_id", wf.ID, "task_id", task.ID, "stage", task.Stage.String())
	}

	wf.Status = finalStatus(wf)
	wf.CompletedAt = time.Now()
	wf.QualityScore = meanTaskQuality(wf)
	e.metrics.RecordWorkflow(wf.Status, time.Since(wf.StartedAt))
	e.logger.Info("workflow finished",
		"workflow_id", wf.ID, "status", wf.Status.String(),
		"completed", wf.CompletedTasks, "failed", wf.FailedTasks)
	return wf, nil
}

// History returns a snapshot of the retained execution history, oldest first.
func (e *Executor) History() []*core.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*core.Task, len(e.history))
	copy(out, e.history)
	return out
}

// ClearHistory drops the retained execution history.
func (e *Executor) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = nil
}

// Remember appends a task to the execution history, evicting the oldest
// entries beyond the configured limit.
func (e *Executor) Remember(task *core.Task) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = append(e.history, task)
	if len(e.history) > e.historyLimit {
		e.history = e.history[len(e.history)-e.historyLimit:]
	}
}

func finalStatus(wf *core.Workflow) core.WorkflowStatus {
	switch {
	case wf.FailedTasks == 0:
		return core.WorkflowCompleted
	case wf.CompletedTasks > 0:
		return core.WorkflowPartiallyCompleted
	default:
		return core.WorkflowFailed
	}
}

// meanTaskQuality averages the envelope quality scores of the completed
// tasks, defaulting a missing score to 1.0. This is intentionally a
// different metric from the process-wide quality tracker: it reflects only
// the tasks this workflow actually ran.
func meanTaskQuality(wf *core.Workflow) float64 {
	if wf.CompletedTasks == 0 {
		return 0
	}
	var sum float64
	for _, task := range wf.Tasks() {
		if task.Status != core.TaskCompleted {
			continue
		}
		score := 1.0
		if task.Result != nil && task.Result.QualityScore > 0 {
			score = task.Result.QualityScore
		}
		sum += score
	}
	return sum / float64(wf.CompletedTasks)
}
