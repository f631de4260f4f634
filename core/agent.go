package core

import "context"

// Agent is the contract every pluggable analysis worker must satisfy,
// regardless of its analysis domain. The orchestrator registers agents by
// name, routes exactly one stage to each, and consumes only the uniform
// StageResult envelope they return.
//
// Implementations must:
//   - Return a stable, non-empty Name (checked at registration time)
//   - Honor context cancellation on Execute
//   - Return either a StageResult (success or failure envelope) or an error;
//     an error is treated as an execution failure of the whole invocation
type Agent interface {
	Name() string
	Execute(ctx context.Context, inv Invocation) (*StageResult, error)
}

// Invocation carries everything an agent needs for one stage call: the stage
// being run, the concrete operation selected from the task parameters (e.g.
// the anomaly method "iqr" vs "zscore"), the raw parameters, and the working
// dataset resolved by the data manager. Dataset is nil for the load stage.
type Invocation struct {
	Stage      Stage
	Operation  string
	Parameters map[string]any
	Dataset    *Dataset
}

// Param returns a string parameter, with ok=false when absent or not a string.
func (inv Invocation) Param(key string) (string, bool) {
	v, ok := inv.Parameters[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
