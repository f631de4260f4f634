package router

import (
	"fmt"

	"github.com/insightmesh/insightmesh/core"
)

// ValidatePipelineOrder checks that the submitted tasks respect the
// canonical nine-stage order: mapped stage indices must be non-decreasing.
// Any inversion, or an unknown task type, rejects the whole submission
// before the first task runs. This is a whole-workflow precondition, not a
// per-task check.
func ValidatePipelineOrder(specs []core.TaskSpec) ([]core.Stage, error) {
	stages := make([]core.Stage, len(specs))
	for i, spec := range specs {
		stage, err := core.ParseStage(spec.Type)
		if err != nil {
			return nil, err
		}
		stages[i] = stage
	}
	for i := 1; i < len(stages); i++ {
		if stages[i].Index() < stages[i-1].Index() {
			return nil, core.NewError(core.KindValidation, fmt.Sprintf(
				"pipeline order violation: %s (position %d) cannot follow %s",
				stages[i], i, stages[i-1]))
		}
	}
	return stages, nil
}
