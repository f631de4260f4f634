package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/insightmesh/insightmesh/core"
)

// FakeAgent is a scriptable core.Agent for tests. By default every Execute
// succeeds with an empty data payload; tests can override the behavior per
// instance and inspect received invocations afterwards.
type FakeAgent struct {
	AgentName string

	mu sync.Mutex
	// Behavior, when set, replaces the default success response.
	Behavior func(ctx context.Context, inv core.Invocation) (*core.StageResult, error)
	// Invocations records every Execute call in order.
	Invocations []core.Invocation
}

// NewFakeAgent builds a FakeAgent answering to the given registry name.
func NewFakeAgent(name string) *FakeAgent {
	return &FakeAgent{AgentName: name}
}

// Name implements core.Agent.
func (f *FakeAgent) Name() string { return f.AgentName }

// Execute implements core.Agent.
func (f *FakeAgent) Execute(ctx context.Context, inv core.Invocation) (*core.StageResult, error) {
	f.mu.Lock()
	f.Invocations = append(f.Invocations, inv)
	behavior := f.Behavior
	f.mu.Unlock()
	if behavior != nil {
		return behavior(ctx, inv)
	}
	return core.Ok(f.AgentName, inv.Stage, map[string]any{}), nil
}

// Calls returns the number of Execute invocations so far.
func (f *FakeAgent) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Invocations)
}

// LastInvocation returns the most recent invocation, or a zero value.
func (f *FakeAgent) LastInvocation() core.Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Invocations) == 0 {
		return core.Invocation{}
	}
	return f.Invocations[len(f.Invocations)-1]
}

// FailWith scripts the agent to return err on every call.
func (f *FakeAgent) FailWith(err error) *FakeAgent {
	f.Behavior = func(context.Context, core.Invocation) (*core.StageResult, error) {
		return nil, err
	}
	return f
}

// FailEnvelope scripts the agent to return a failed result envelope.
func (f *FakeAgent) FailEnvelope(msgs ...string) *FakeAgent {
	f.Behavior = func(_ context.Context, inv core.Invocation) (*core.StageResult, error) {
		return core.Err(f.AgentName, inv.Stage, msgs...), nil
	}
	return f
}

// NewLoaderAgent builds a loader FakeAgent that returns rows for any file
// path, mirroring the contract real loaders follow: the dataset travels in
// the envelope's "data" field.
func NewLoaderAgent(rows []core.Row) *FakeAgent {
	f := NewFakeAgent(core.StageLoad.AgentName())
	f.Behavior = func(_ context.Context, inv core.Invocation) (*core.StageResult, error) {
		if _, ok := inv.Parameters["file_path"].(string); !ok {
			if _, ok := core.AsDataset(inv.Parameters["data"]); !ok {
				return nil, errors.New("loader needs file_path or data")
			}
		}
		return core.Ok(f.AgentName, core.StageLoad, map[string]any{
			"data": rows,
			"rows": len(rows),
		}), nil
	}
	return f
}

// PipelineAgents returns one default FakeAgent per pipeline stage, keyed by
// registry name, with the loader scripted to produce rows.
func PipelineAgents(rows []core.Row) map[string]*FakeAgent {
	agents := make(map[string]*FakeAgent)
	for _, stage := range core.Stages() {
		name := stage.AgentName()
		if stage == core.StageLoad {
			agents[name] = NewLoaderAgent(rows)
			continue
		}
		agents[name] = NewFakeAgent(name)
	}
	return agents
}

// Rows builds n rows with an incrementing "value" column, enough tabular
// shape for resolver and handler tests.
func Rows(n int) []core.Row {
	out := make([]core.Row, n)
	for i := range out {
		out[i] = core.Row{"value": i, "label": "r"}
	}
	return out
}
