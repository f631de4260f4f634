package router

import (
	"context"
	"fmt"

	"github.com/insightmesh/insightmesh/core"
)

// anomalyMethods and predictMethods enumerate the agent operations
// selectable through the "method" parameter.
var (
	anomalyMethods = map[string]bool{"iqr": true, "zscore": true, "isolation_forest": true}
	predictMethods = map[string]bool{"linear": true, "forecast": true}
)

// prepare validates the task's stage-specific parameters, resolves the
// working dataset where the stage needs one, and assembles the Invocation.
// All failures here are validation errors raised before any agent runs
// (except the resolver's on-demand load, which is itself an agent call).
func (r *Router) prepare(ctx context.Context, task *core.Task) (core.Invocation, error) {
	inv := core.Invocation{
		Stage:      task.Stage,
		Parameters: task.Parameters,
	}
	if inv.Parameters == nil {
		inv.Parameters = map[string]any{}
	}

	switch task.Stage {
	case core.StageLoad:
		inv.Operation = "load"
		if _, hasPath := inv.Parameters["file_path"].(string); !hasPath {
			if _, hasInline := core.AsDataset(inv.Parameters["data"]); !hasInline {
				return inv, core.NewError(core.KindValidation,
					"load_data requires a file_path or inline data parameter")
			}
		}
		return inv, nil

	case core.StageExplore:
		inv.Operation = "describe"
		return inv, r.attachDataset(ctx, &inv)

	case core.StageAggregate:
		inv.Operation = "group_by"
		if !hasGroupBy(inv.Parameters) {
			return inv, core.NewError(core.KindValidation,
				"aggregate requires a group_by parameter")
		}
		return inv, r.attachDataset(ctx, &inv)

	case core.StageDetectAnomalies:
		if _, ok := inv.Parameters["column"].(string); !ok {
			return inv, core.NewError(core.KindValidation,
				"detect_anomalies requires a column parameter")
		}
		method, err := pickMethod(inv.Parameters, anomalyMethods, "iqr")
		if err != nil {
			return inv, err
		}
		inv.Operation = method
		return inv, r.attachDataset(ctx, &inv)

	case core.StagePredict:
		if _, ok := inv.Parameters["target"].(string); !ok {
			return inv, core.NewError(core.KindValidation,
				"predict requires a target parameter")
		}
		method, err := pickMethod(inv.Parameters, predictMethods, "linear")
		if err != nil {
			return inv, err
		}
		inv.Operation = method
		return inv, r.attachDataset(ctx, &inv)

	case core.StageRecommend:
		inv.Operation = "recommend"
		return inv, r.attachDataset(ctx, &inv)

	case core.StageNarrate:
		inv.Operation = "narrate"
		r.attachPriorResults(&inv)
		// The narrative stage is driven by prior stage outputs; a working
		// dataset is attached opportunistically when one is cached.
		_ = r.attachDataset(ctx, &inv)
		return inv, nil

	case core.StageVisualize:
		chart, _ := inv.Param("chart_type")
		if chart == "" {
			chart = "auto"
		}
		inv.Operation = chart
		return inv, r.attachDataset(ctx, &inv)

	case core.StageReport:
		format, _ := inv.Param("format")
		if format == "" {
			format = "json"
		}
		inv.Operation = format
		r.attachPriorResults(&inv)
		_ = r.attachDataset(ctx, &inv)
		return inv, nil

	default:
		return inv, core.NewError(core.KindValidation,
			fmt.Sprintf("unknown task type %q", task.Stage))
	}
}

// attachDataset resolves the working dataset through the priority algorithm
// and attaches it to the invocation.
func (r *Router) attachDataset(ctx context.Context, inv *core.Invocation) error {
	ds, err := r.resolver.Resolve(ctx, inv.Parameters)
	if err != nil {
		return err
	}
	inv.Dataset = ds
	return nil
}

// attachPriorResults injects every cached stage output, keyed by stage wire
// name, under the "results" parameter so aggregation stages see the full
// pipeline history.
func (r *Router) attachPriorResults(inv *core.Invocation) {
	results := make(map[string]any)
	for _, stage := range core.Stages() {
		if raw, ok := r.store.Get(stage.String()); ok {
			results[stage.String()] = raw
		}
	}
	params := make(map[string]any, len(inv.Parameters)+1)
	for k, v := range inv.Parameters {
		params[k] = v
	}
	params["results"] = results
	inv.Parameters = params
}

func hasGroupBy(params map[string]any) bool {
	switch v := params["group_by"].(type) {
	case string:
		return v != ""
	case []string:
		return len(v) > 0
	case []any:
		return len(v) > 0
	default:
		return false
	}
}

func pickMethod(params map[string]any, allowed map[string]bool, def string) (string, error) {
	raw, ok := params["method"]
	if !ok {
		return def, nil
	}
	method, ok := raw.(string)
	if !ok || !allowed[method] {
		return "", core.NewError(core.KindValidation,
			fmt.Sprintf("unsupported method %v", raw))
	}
	return method, nil
}
