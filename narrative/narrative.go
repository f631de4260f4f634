// Package narrative bridges completed workflow results into the shape the
// narrative-generation capability expects, invokes it, and validates what
// comes back. The generation itself is an external collaborator behind the
// Generator interface; this package only reshapes, dispatches and scores.
package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/insightmesh/insightmesh/core"
	"github.com/insightmesh/insightmesh/datastore"
	"github.com/insightmesh/insightmesh/errorintel"
	"github.com/insightmesh/insightmesh/logging"
)

// MinNarrativeLength is the completeness threshold for the full narrative
// text, in characters.
const MinNarrativeLength = 200

// Input is the role-keyed shape handed to a Generator: stage outputs mapped
// by their logical role rather than by task id or stage name.
type Input struct {
	Explorer        map[string]any `json:"explorer,omitempty"`
	Anomalies       map[string]any `json:"anomalies,omitempty"`
	Predictions     map[string]any `json:"predictions,omitempty"`
	Recommendations map[string]any `json:"recommendations,omitempty"`
	DataShape       []int          `json:"data_shape,omitempty"`
}

// Narrative is the structured output of the capability, enriched by the
// integrator with the agent results it was generated from and a timestamp.
type Narrative struct {
	ExecutiveSummary     string         `json:"executive_summary"`
	ProblemStatement     string         `json:"problem_statement"`
	ActionPlan           string         `json:"action_plan"`
	FullNarrative        string         `json:"full_narrative"`
	TotalRecommendations int            `json:"total_recommendations"`
	AgentResults         map[string]any `json:"agent_results,omitempty"`
	GeneratedAt          time.Time      `json:"generated_at,omitempty"`
}

// Generator is the external narrative-generation capability contract.
type Generator interface {
	Generate(ctx context.Context, input Input) (*Narrative, error)
}

// Options configures an Integrator.
type Options struct {
	// Logger receives integration events. Defaults to no-op.
	Logger logging.Logger
}

// Integrator reshapes cached stage outputs for the Generator and validates
// its output.
type Integrator struct {
	store  core.DataStore
	gen    Generator
	intel  *errorintel.Intelligence
	logger logging.Logger
}

// NewIntegrator builds an Integrator over the shared data cache.
func NewIntegrator(store core.DataStore, gen Generator, intel *errorintel.Intelligence, optFns ...func(o *Options)) *Integrator {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Integrator{store: store, gen: gen, intel: intel, logger: opts.Logger}
}

// CollectResults extracts and remaps the cached per-stage outputs of a
// completed workflow into the role-keyed Input shape. Missing stages simply
// leave their role empty; the generator decides what it can do with less.
func (i *Integrator) CollectResults() Input {
	input := Input{
		Explorer:        i.stageData(core.StageExplore),
		Anomalies:       i.stageData(core.StageDetectAnomalies),
		Predictions:     i.stageData(core.StagePredict),
		Recommendations: i.stageData(core.StageRecommend),
	}
	if raw, ok := i.store.Get(datastore.DefaultDataKey); ok {
		if ds, ok := core.AsDataset(raw); ok {
			input.DataShape = ds.Shape()
		}
	}
	return input
}

// Narrate collects the workflow's stage results, invokes the generator, and
// enriches the narrative with the inputs it was built from. Failures are
// classified as narrative errors and recorded.
func (i *Integrator) Narrate(ctx context.Context, wf *core.Workflow) (*Narrative, error) {
	if i.gen == nil {
		return nil, i.fail("no narrative generator configured", nil)
	}
	input := i.CollectResults()
	n, err := i.gen.Generate(ctx, input)
	if err != nil {
		return nil, i.fail("narrative generation failed", err)
	}
	if n == nil {
		return nil, i.fail("narrative generator returned nothing", nil)
	}

	n.AgentResults = map[string]any{
		"explorer":        input.Explorer,
		"anomalies":       input.Anomalies,
		"predictions":     input.Predictions,
		"recommendations": input.Recommendations,
	}
	n.GeneratedAt = time.Now()
	i.logger.Info("narrative generated",
		"workflow_id", wf.ID, "recommendations", n.TotalRecommendations,
		"confidence", Confidence(n))
	return n, nil
}

// Validate checks narrative completeness: the three required sections must
// be present and the full narrative must reach the minimum length. The
// returned error lists everything that is missing.
func Validate(n *Narrative) error {
	var missing []string
	if strings.TrimSpace(n.ExecutiveSummary) == "" {
		missing = append(missing, "executive_summary")
	}
	if strings.TrimSpace(n.ProblemStatement) == "" {
		missing = append(missing, "problem_statement")
	}
	if strings.TrimSpace(n.ActionPlan) == "" {
		missing = append(missing, "action_plan")
	}
	if len(n.FullNarrative) < MinNarrativeLength {
		missing = append(missing, fmt.Sprintf("full_narrative (< %d chars)", MinNarrativeLength))
	}
	if len(missing) > 0 {
		return core.NewError(core.KindNarrative,
			"incomplete narrative: missing "+strings.Join(missing, ", "))
	}
	return nil
}

// Confidence derives a [0,1] score from a fixed additive rubric: 0.1 per
// present required section, 0.1 for a sufficiently long narrative, plus a
// bonus scaled by recommendation count, capped at 1.0.
func Confidence(n *Narrative) float64 {
	score := 0.0
	if strings.TrimSpace(n.ExecutiveSummary) != "" {
		score += 0.1
	}
	if strings.TrimSpace(n.ProblemStatement) != "" {
		score += 0.1
	}
	if strings.TrimSpace(n.ActionPlan) != "" {
		score += 0.1
	}
	if len(n.FullNarrative) >= MinNarrativeLength {
		score += 0.1
	}
	bonus := 0.1 * float64(n.TotalRecommendations)
	if bonus > 0.6 {
		bonus = 0.6
	}
	score += bonus
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func (i *Integrator) stageData(stage core.Stage) map[string]any {
	raw, ok := i.store.Get(stage.String())
	if !ok {
		return nil
	}
	env, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	if data, ok := env["data"].(map[string]any); ok {
		return data
	}
	return env
}

func (i *Integrator) fail(msg string, cause error) error {
	var err error
	if cause != nil {
		err = core.WrapError(core.KindNarrative, msg, cause)
	} else {
		err = core.NewError(core.KindNarrative, msg)
	}
	i.intel.Record(errorintel.NewRecord(core.KindNarrative, "narrative-integrator", err.Error()).
		WithSeverity(core.SeverityMedium).
		Build())
	i.logger.Error("narrative integration failed", "error", err.Error())
	return err
}
