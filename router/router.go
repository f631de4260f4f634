package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/insightmesh/insightmesh/core"
	"github.com/insightmesh/insightmesh/datastore"
	"github.com/insightmesh/insightmesh/errorintel"
	"github.com/insightmesh/insightmesh/logging"
	"github.com/insightmesh/insightmesh/registry"
)

// Options configures a Router.
type Options struct {
	// Logger receives routing decisions and failures. Defaults to no-op.
	Logger logging.Logger
	// Metrics receives per-task telemetry. Defaults to no-op.
	Metrics core.MetricsCollector
}

// Router routes tasks to agents. One router serves one orchestrator
// instance and shares its registry, cache and error sink.
type Router struct {
	registry *registry.Registry
	store    core.DataStore
	resolver *datastore.Resolver
	intel    *errorintel.Intelligence
	logger   logging.Logger
	metrics  core.MetricsCollector
}

// New constructs a Router over the given collaborators. The dataset
// resolver's load fallback is wired to the registered loader agent, so a
// task carrying only a file_path still gets data without a separate load
// task having run.
func New(reg *registry.Registry, store core.DataStore, intel *errorintel.Intelligence, optFns ...func(o *Options)) *Router {
	opts := Options{
		Logger:  logging.NoOpLogger{},
		Metrics: core.NoopMetrics{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	r := &Router{
		registry: reg,
		store:    store,
		intel:    intel,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
	r.resolver = datastore.NewResolver(store, r.loadFromFile)
	return r
}

// Route executes one task end to end, driving its state machine. On success
// the task is completed with its result envelope; on any failure the task is
// failed, the failure is recorded, and the wrapped error is returned.
func (r *Router) Route(ctx context.Context, task *core.Task) (*core.StageResult, error) {
	start := time.Now()
	res, err := r.route(ctx, task)
	if err != nil {
		task.Fail(err)
		r.record(task, err)
		r.metrics.RecordTask(task.Stage, task.Status, time.Since(start))
		return nil, err
	}
	task.Complete(res)
	r.metrics.RecordTask(task.Stage, task.Status, time.Since(start))
	r.logger.Info("task completed",
		"task_id", task.ID, "stage", task.Stage.String(), "duration", task.Duration)
	return res, nil
}

func (r *Router) route(ctx context.Context, task *core.Task) (*core.StageResult, error) {
	// created → validating: stage vocabulary was checked at parse time;
	// here stage-specific parameters are validated before any agent is
	// touched.
	if err := task.Transition(core.TaskValidating); err != nil {
		return nil, err
	}
	inv, err := r.prepare(ctx, task)
	if err != nil {
		return nil, err
	}

	// validating → routing: fixed stage → agent table, then registry lookup.
	// A missing agent is a routing failure, not a silent no-op.
	if err := task.Transition(core.TaskRouting); err != nil {
		return nil, err
	}
	agent, err := r.registry.MustGet(task.Stage.AgentName())
	if err != nil {
		return nil, err
	}

	// routing → executing: dispatch the single matching agent operation.
	if err := task.Transition(core.TaskExecuting); err != nil {
		return nil, err
	}
	r.logger.Debug("dispatching task",
		"task_id", task.ID, "stage", task.Stage.String(),
		"agent", agent.Name(), "operation", inv.Operation)

	res, err := agent.Execute(ctx, inv)
	if err != nil {
		return nil, core.WrapError(core.KindExecution,
			fmt.Sprintf("agent %q failed on stage %s", agent.Name(), task.Stage), err)
	}
	if res == nil {
		return nil, core.NewError(core.KindExecution,
			fmt.Sprintf("agent %q returned no result", agent.Name()))
	}
	if !res.Success {
		return nil, core.NewError(core.KindExecution,
			fmt.Sprintf("agent %q reported failure: %s",
				agent.Name(), strings.Join(res.Errors, "; ")))
	}

	r.finish(task.Stage, res)
	return res, nil
}

// finish caches the raw stage output under the stage's wire name so later
// stages (notably narrate and report) can read every prior output by name.
// A successful load additionally refreshes the default working dataset.
func (r *Router) finish(stage core.Stage, res *core.StageResult) {
	r.store.Set(stage.String(), res.ToMap())
	if stage == core.StageLoad {
		if ds, ok := core.AsDataset(res.Data["data"]); ok && !ds.Empty() {
			r.store.Set(datastore.DefaultDataKey, ds)
		}
	}
}

// loadFromFile is the resolver's strategy-4 fallback: run the loader agent
// against a file path and hand back the dataset it produced.
func (r *Router) loadFromFile(ctx context.Context, filePath string) (*core.Dataset, error) {
	loader, err := r.registry.MustGet(core.StageLoad.AgentName())
	if err != nil {
		return nil, err
	}
	res, err := loader.Execute(ctx, core.Invocation{
		Stage:      core.StageLoad,
		Operation:  "load",
		Parameters: map[string]any{"file_path": filePath},
	})
	if err != nil {
		return nil, err
	}
	if res == nil || !res.Success {
		return nil, core.NewError(core.KindExecution, "loader reported failure")
	}
	ds, ok := core.AsDataset(res.Data["data"])
	if !ok {
		return nil, core.NewError(core.KindExecution, "loader returned no dataset")
	}
	return ds, nil
}

// record pushes a classified failure record into the error sink. Recording
// is best-effort and never raises.
func (r *Router) record(task *core.Task, err error) {
	kind := core.KindExecution
	severity := core.SeverityMedium
	switch {
	case core.IsKind(err, core.KindValidation):
		kind, severity = core.KindValidation, core.SeverityLow
	case core.IsKind(err, core.KindLifecycle):
		kind = core.KindLifecycle
	}
	r.intel.Record(errorintel.NewRecord(kind, task.Stage.AgentName(), err.Error()).
		WithSeverity(severity).
		WithContext("task_id", task.ID).
		WithContext("stage", task.Stage.String()).
		Build())
	r.logger.Error("task failed",
		"task_id", task.ID, "stage", task.Stage.String(), "error", err.Error())
}
