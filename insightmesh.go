// Package insightmesh provides a high-level façade over the data-analysis
// orchestration engine: agent registry, shared data cache, pipeline-aware
// task routing, workflow execution, quality tracking, error intelligence and
// narrative integration. Most applications interact with this package by:
//  1. Creating an Orchestrator via New() (optionally overriding defaults)
//  2. Registering one agent per pipeline stage they intend to run
//  3. Submitting tasks (ExecuteTask) or ordered batches (ExecuteWorkflow)
//
// The façade delegates routing to router.Router and batch execution to
// workflow.Executor while keeping setup and usage ergonomics concise. All
// defaults are safe for local development and testing; production
// deployments typically supply a structured logger, a metrics collector and
// a narrative generator.
package insightmesh

import (
	"context"

	"github.com/insightmesh/insightmesh/config"
	"github.com/insightmesh/insightmesh/core"
	"github.com/insightmesh/insightmesh/datastore"
	"github.com/insightmesh/insightmesh/errorintel"
	"github.com/insightmesh/insightmesh/logging"
	"github.com/insightmesh/insightmesh/narrative"
	"github.com/insightmesh/insightmesh/quality"
	"github.com/insightmesh/insightmesh/registry"
	"github.com/insightmesh/insightmesh/retry"
	"github.com/insightmesh/insightmesh/router"
	"github.com/insightmesh/insightmesh/workflow"
)

// Options configures the Orchestrator instance.
type Options struct {
	// Config holds the runtime tunables (retry policy, history limits,
	// log level). Defaults to config.Default().
	Config config.Config

	// Logger receives engine events (defaults to NoOp logger if nil).
	Logger logging.Logger

	// Metrics receives orchestration telemetry (defaults to no-op).
	Metrics core.MetricsCollector

	// Generator produces narratives from analysis results. Nil disables
	// ExecuteWorkflowWithNarrative.
	Generator narrative.Generator
}

// WithConfig overrides the runtime configuration.
func WithConfig(cfg config.Config) func(o *Options) {
	return func(o *Options) { o.Config = cfg }
}

// WithLogger sets the engine logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithMetrics sets the telemetry collector.
func WithMetrics(m core.MetricsCollector) func(o *Options) {
	return func(o *Options) { o.Metrics = m }
}

// WithGenerator sets the narrative generator.
func WithGenerator(g narrative.Generator) func(o *Options) {
	return func(o *Options) { o.Generator = g }
}

// Status is a point-in-time snapshot of the orchestrator's state.
type Status struct {
	Agents       []string `json:"agents"`
	CacheKeys    []string `json:"cache_keys"`
	TaskHistory  int      `json:"task_history"`
	QualityScore float64  `json:"quality_score"`
}

// HealthReport aggregates quality and error telemetry into one view.
type HealthReport struct {
	QualityScore float64            `json:"quality_score"`
	HealthScore  float64            `json:"health_score"`
	HealthStatus string             `json:"health_status"`
	Errors       errorintel.Summary `json:"errors"`
}

// Orchestrator is the high-level façade aggregating the registry, data
// cache, router, workflow executor, quality tracker, error intelligence and
// narrative integrator. Safe for concurrent use.
type Orchestrator struct {
	opts Options

	registry   *registry.Registry
	store      *datastore.Manager
	tracker    *quality.Tracker
	intel      *errorintel.Intelligence
	router     *router.Router
	executor   *workflow.Executor
	integrator *narrative.Integrator

	retryCfg retry.Config
	logger   logging.Logger
	metrics  core.MetricsCollector
}

// New creates a new Orchestrator with optional overrides. All components are
// in-memory; no external services are required.
func New(optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Config:  config.Default(),
		Logger:  logging.NoOpLogger{},
		Metrics: core.NoopMetrics{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	reg := registry.New()
	store := datastore.New()
	intel := errorintel.New(opts.Config.ErrorHistoryLimit)
	rt := router.New(reg, store, intel, func(o *router.Options) {
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
	})
	exec := workflow.New(rt, intel, func(o *workflow.Options) {
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
		o.HistoryLimit = opts.Config.TaskHistoryLimit
	})
	integ := narrative.NewIntegrator(store, opts.Generator, intel, func(o *narrative.Options) {
		o.Logger = opts.Logger
	})

	return &Orchestrator{
		opts:       opts,
		registry:   reg,
		store:      store,
		tracker:    quality.New(),
		intel:      intel,
		router:     rt,
		executor:   exec,
		integrator: integ,
		retryCfg: retry.Config{
			MaxAttempts:   opts.Config.RetryMaxAttempts,
			InitialDelay:  opts.Config.RetryInitialDelay,
			BackoffFactor: opts.Config.RetryBackoffFactor,
		},
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
}

// RegisterAgent adds an agent to the registry. Registering a second agent
// under an already-taken name is rejected.
func (o *Orchestrator) RegisterAgent(a core.Agent) error {
	if err := o.registry.Register(a); err != nil {
		return err
	}
	o.logger.Info("agent registered", "name", a.Name())
	return nil
}

// Agents returns the registered agent names in registration order.
func (o *Orchestrator) Agents() []string { return o.registry.List() }

// SetData stores a value in the shared data cache.
func (o *Orchestrator) SetData(key string, value any) { o.store.Set(key, value) }

// Data exposes the shared data cache.
func (o *Orchestrator) Data() core.DataStore { return o.store }

// ErrorIntelligence exposes the recorded error history.
func (o *Orchestrator) ErrorIntelligence() *errorintel.Intelligence { return o.intel }

// ExecuteTask runs one task through the router under the retry policy. Each
// attempt is a fresh task record; the returned task is the final attempt.
// The quality tracker observes one outcome per call regardless of how many
// attempts were made.
func (o *Orchestrator) ExecuteTask(ctx context.Context, spec core.TaskSpec) (*core.Task, error) {
	stage, err := core.ParseStage(spec.Type)
	if err != nil {
		o.intel.Record(errorintel.NewRecord(core.KindValidation, "router", err.Error()).
			WithSeverity(core.SeverityLow).
			Build())
		o.tracker.RecordFailure()
		return nil, err
	}

	var task *core.Task
	attempts := 0
	err = retry.Do(ctx, o.retryCfg, func(ctx context.Context) error {
		attempts++
		if attempts > 1 {
			o.metrics.RecordRetry("execute_task")
		}
		task = core.NewTask(stage, spec.Parameters, spec.Critical)
		_, routeErr := o.router.Route(ctx, task)
		return routeErr
	})
	if task != nil {
		o.executor.Remember(task)
	}
	o.observeTask(task, err)
	return task, err
}

// ExecuteWorkflow runs an ordered batch of tasks under the retry policy.
// The whole batch is validated against the pipeline order before any task
// runs; a rejected batch executes nothing. The quality tracker observes one
// outcome per call, derived from the workflow's final status.
func (o *Orchestrator) ExecuteWorkflow(ctx context.Context, specs []core.TaskSpec) (*core.Workflow, error) {
	var wf *core.Workflow
	attempts := 0
	err := retry.Do(ctx, o.retryCfg, func(ctx context.Context) error {
		attempts++
		if attempts > 1 {
			o.metrics.RecordRetry("execute_workflow")
		}
		var execErr error
		wf, execErr = o.executor.Execute(ctx, specs)
		return execErr
	})
	o.observeWorkflow(wf, err)
	return wf, err
}

// ExecuteWorkflowWithNarrative runs the workflow and, when it produced any
// results, hands them to the narrative integrator in the same call.
func (o *Orchestrator) ExecuteWorkflowWithNarrative(ctx context.Context, specs []core.TaskSpec) (*core.Workflow, *narrative.Narrative, error) {
	wf, err := o.ExecuteWorkflow(ctx, specs)
	if err != nil {
		return wf, nil, err
	}
	n, nerr := o.integrator.Narrate(ctx, wf)
	if nerr != nil {
		return wf, nil, nerr
	}
	return wf, n, nil
}

// Status reports the registered agents, cached data keys, retained task
// history size and the current quality score.
func (o *Orchestrator) Status() Status {
	return Status{
		Agents:       o.registry.List(),
		CacheKeys:    o.store.Keys(),
		TaskHistory:  len(o.executor.History()),
		QualityScore: o.tracker.Score(),
	}
}

// HealthReport combines the quality score, the error-adjusted health score
// and the error summary into one snapshot, and pushes both scores to the
// metrics collector.
func (o *Orchestrator) HealthReport() HealthReport {
	score := o.tracker.Score()
	health := o.tracker.HealthScore(o.intel.Total())
	o.metrics.SetQualityScore(score)
	o.metrics.SetHealthScore(health)
	return HealthReport{
		QualityScore: score,
		HealthScore:  health,
		HealthStatus: quality.HealthStatus(health),
		Errors:       o.intel.Summarize(),
	}
}

// Reset clears the data cache, task history, quality counters and error
// history. Registered agents are kept.
func (o *Orchestrator) Reset() {
	o.store.Clear()
	o.executor.ClearHistory()
	o.tracker.Reset()
	o.intel.Reset()
	o.logger.Info("orchestrator reset", "agents_kept", o.registry.Count())
}

// Shutdown takes a final health snapshot, then resets all transient state.
// The returned report reflects the run that just ended.
func (o *Orchestrator) Shutdown() HealthReport {
	report := o.HealthReport()
	o.Reset()
	o.logger.Info("orchestrator shut down",
		"final_health", report.HealthScore, "final_status", report.HealthStatus)
	return report
}

// observeTask records exactly one quality outcome for a finished task.
func (o *Orchestrator) observeTask(task *core.Task, err error) {
	switch {
	case err != nil:
		o.tracker.RecordFailure()
	case task != nil && task.Result != nil && task.Result.Partial():
		o.tracker.RecordPartial()
	default:
		o.tracker.RecordSuccess()
	}
}

// observeWorkflow records exactly one quality outcome for a finished
// workflow, derived from its final status.
func (o *Orchestrator) observeWorkflow(wf *core.Workflow, err error) {
	if err != nil || wf == nil {
		o.tracker.RecordFailure()
		return
	}
	switch wf.Status {
	case core.WorkflowCompleted:
		o.tracker.RecordSuccess()
	case core.WorkflowPartiallyCompleted:
		o.tracker.RecordPartial()
	default:
		o.tracker.RecordFailure()
	}
}
