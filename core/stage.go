package core

import "fmt"

// Stage identifies one of the nine fixed pipeline steps. Stages have a
// canonical execution order (load first, report last) which workflow
// submissions must respect.
type Stage int

const (
	// StageLoad ingests a dataset from an external source.
	StageLoad Stage = iota
	// StageExplore computes descriptive statistics over the working dataset.
	StageExplore
	// StageAggregate groups and summarizes the working dataset.
	StageAggregate
	// StageDetectAnomalies flags outlying values in a column.
	StageDetectAnomalies
	// StagePredict fits a model and produces forecasts.
	StagePredict
	// StageRecommend derives actionable recommendations from prior results.
	StageRecommend
	// StageNarrate turns accumulated results into narrative text.
	StageNarrate
	// StageVisualize renders charts from the working dataset.
	StageVisualize
	// StageReport assembles the final report document.
	StageReport

	stageCount = int(StageReport) + 1
)

// stageNames are the wire names accepted in task submissions, indexed by Stage.
var stageNames = [stageCount]string{
	"load_data",
	"explore",
	"aggregate",
	"detect_anomalies",
	"predict",
	"recommend",
	"narrate",
	"visualize",
	"report",
}

// stageAgents maps each stage to the single agent name that serves it.
var stageAgents = [stageCount]string{
	"loader",
	"explorer",
	"aggregator",
	"anomaly-detector",
	"predictor",
	"recommender",
	"narrative-generator",
	"visualizer",
	"reporter",
}

// ParseStage resolves a wire name (e.g. "detect_anomalies") to its Stage.
// Unknown names yield a validation error before any agent is touched.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, NewError(KindValidation, fmt.Sprintf("unknown task type %q", name))
}

// String returns the stage's wire name.
func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Valid reports whether s is one of the nine known stages.
func (s Stage) Valid() bool { return s >= StageLoad && s <= StageReport }

// Index returns the stage's position in the canonical pipeline order.
func (s Stage) Index() int { return int(s) }

// AgentName returns the registry name of the agent required for this stage.
func (s Stage) AgentName() string {
	if !s.Valid() {
		return ""
	}
	return stageAgents[s]
}

// Stages returns all stages in canonical order. The slice is a fresh copy.
func Stages() []Stage {
	out := make([]Stage, stageCount)
	for i := range out {
		out[i] = Stage(i)
	}
	return out
}
