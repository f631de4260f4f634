package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/insightmesh/insightmesh/core"
	"github.com/insightmesh/insightmesh/datastore"
	"github.com/insightmesh/insightmesh/errorintel"
	"github.com/insightmesh/insightmesh/internal/testutil"
	"github.com/insightmesh/insightmesh/registry"
	"github.com/insightmesh/insightmesh/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	executor *Executor
	intel    *errorintel.Intelligence
	agents   map[string]*testutil.FakeAgent
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := registry.New()
	agents := testutil.PipelineAgents(testutil.Rows(4))
	for _, a := range agents {
		require.NoError(t, reg.Register(a))
	}
	intel := errorintel.New(0)
	r := router.New(reg, datastore.New(), intel)
	return &fixture{
		executor: New(r, intel),
		intel:    intel,
		agents:   agents,
	}
}

func TestExecute_LinearPipelineCompletes(t *testing.T) {
	f := newFixture(t)
	wf, err := f.executor.Execute(context.Background(), []core.TaskSpec{
		{Type: "load_data", Parameters: map[string]any{"file_path": "x.csv"}},
		{Type: "explore"},
	})
	require.NoError(t, err)
	assert.Equal(t, core.WorkflowCompleted, wf.Status)
	assert.Equal(t, 2, wf.CompletedTasks)
	assert.Equal(t, 0, wf.FailedTasks)
	assert.Equal(t, 1.0, wf.QualityScore)
	assert.Equal(t, 1, f.agents["loader"].Calls())
	assert.Equal(t, 1, f.agents["explorer"].Calls())
}

func TestExecute_OutOfOrderRejectedWholesale(t *testing.T) {
	f := newFixture(t)
	wf, err := f.executor.Execute(context.Background(), []core.TaskSpec{
		{Type: "explore"},
		{Type: "load_data", Parameters: map[string]any{"file_path": "x.csv"}},
	})
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindValidation))
	assert.Nil(t, wf)
	assert.Zero(t, f.agents["loader"].Calls(), "no task may run")
	assert.Zero(t, f.agents["explorer"].Calls(), "no task may run")
	assert.Empty(t, f.executor.History(), "execution history must stay unchanged")
}

func TestExecute_NonCriticalFailureContinues(t *testing.T) {
	f := newFixture(t)
	f.agents["explorer"].FailWith(errors.New("stats blew up"))
	wf, err := f.executor.Execute(context.Background(), []core.TaskSpec{
		{Type: "load_data", Parameters: map[string]any{"file_path": "x.csv"}},
		{Type: "explore"},
		{Type: "detect_anomalies", Parameters: map[string]any{"column": "value"}},
	})
	require.NoError(t, err, "non-critical failures do not raise")
	assert.Equal(t, core.WorkflowPartiallyCompleted, wf.Status)
	assert.Equal(t, 2, wf.CompletedTasks)
	assert.Equal(t, 1, wf.FailedTasks)
	assert.Equal(t, wf.TotalTasks, wf.CompletedTasks+wf.FailedTasks)
	assert.Equal(t, 1, f.agents["anomaly-detector"].Calls(), "later tasks still run")
}

func TestExecute_CriticalFailureAborts(t *testing.T) {
	f := newFixture(t)
	f.agents["explorer"].FailWith(errors.New("stats blew up"))
	wf, err := f.executor.Execute(context.Background(), []core.TaskSpec{
		{Type: "load_data", Parameters: map[string]any{"file_path": "x.csv"}},
		{Type: "explore", Critical: true},
		{Type: "detect_anomalies", Parameters: map[string]any{"column": "value"}},
	})
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindWorkflow))
	require.NotNil(t, wf)
	assert.Equal(t, core.WorkflowFailed, wf.Status)
	assert.Zero(t, f.agents["anomaly-detector"].Calls(), "tasks after the critical one never run")
	assert.Len(t, wf.Tasks(), 2, "only the attempted tasks are recorded")
	assert.NotEmpty(t, f.intel.ByKind(core.KindWorkflow), "critical abort leaves a workflow record")
}

func TestExecute_AllFailuresMeansFailed(t *testing.T) {
	f := newFixture(t)
	f.agents["explorer"].FailWith(errors.New("nope"))
	f.agents["visualizer"].FailWith(errors.New("nope"))
	wf, err := f.executor.Execute(context.Background(), []core.TaskSpec{
		{Type: "explore", Parameters: map[string]any{"data": testutil.Rows(2)}},
		{Type: "visualize", Parameters: map[string]any{"data": testutil.Rows(2)}},
	})
	require.NoError(t, err)
	assert.Equal(t, core.WorkflowFailed, wf.Status)
	assert.Equal(t, 0, wf.CompletedTasks)
	assert.Equal(t, 0.0, wf.QualityScore)
}

func TestExecute_EmptyWorkflowCompletes(t *testing.T) {
	f := newFixture(t)
	wf, err := f.executor.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, core.WorkflowCompleted, wf.Status)
	assert.Zero(t, wf.TotalTasks)
}

func TestExecute_QualityScoreAveragesEnvelopes(t *testing.T) {
	f := newFixture(t)
	f.agents["explorer"].Behavior = func(_ context.Context, inv core.Invocation) (*core.StageResult, error) {
		res := core.Ok("explorer", inv.Stage, nil)
		res.QualityScore = 0.5
		return res, nil
	}
	wf, err := f.executor.Execute(context.Background(), []core.TaskSpec{
		{Type: "load_data", Parameters: map[string]any{"file_path": "x.csv"}},
		{Type: "explore"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.75, wf.QualityScore, "mean of 1.0 and 0.5")
}

func TestHistory_RecordsAndClears(t *testing.T) {
	f := newFixture(t)
	_, err := f.executor.Execute(context.Background(), []core.TaskSpec{
		{Type: "load_data", Parameters: map[string]any{"file_path": "x.csv"}},
	})
	require.NoError(t, err)
	assert.Len(t, f.executor.History(), 1)
	f.executor.ClearHistory()
	assert.Empty(t, f.executor.History())
}

func TestHistory_Bounded(t *testing.T) {
	reg := registry.New()
	agents := testutil.PipelineAgents(testutil.Rows(2))
	for _, a := range agents {
		require.NoError(t, reg.Register(a))
	}
	intel := errorintel.New(0)
	r := router.New(reg, datastore.New(), intel)
	ex := New(r, intel, func(o *Options) { o.HistoryLimit = 3 })

	for i := 0; i < 5; i++ {
		_, err := ex.Execute(context.Background(), []core.TaskSpec{
			{Type: "load_data", Parameters: map[string]any{"file_path": "x.csv"}},
		})
		require.NoError(t, err)
	}
	assert.Len(t, ex.History(), 3)
}
