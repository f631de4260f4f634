package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/insightmesh/insightmesh/core"
	"github.com/insightmesh/insightmesh/datastore"
	"github.com/insightmesh/insightmesh/errorintel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var _ Generator = (*MockGenerator)(nil)

func seededStore() *datastore.Manager {
	store := datastore.New()
	store.Set("explore", core.Ok("explorer", core.StageExplore,
		map[string]any{"mean": 4.2}).ToMap())
	store.Set("detect_anomalies", core.Ok("anomaly-detector", core.StageDetectAnomalies,
		map[string]any{"outliers": []int{7}}).ToMap())
	store.Set("recommend", core.Ok("recommender", core.StageRecommend,
		map[string]any{"items": []string{"a", "b"}}).ToMap())
	store.Set(datastore.DefaultDataKey, core.NewDataset([]core.Row{{"v": 1}, {"v": 2}}))
	return store
}

func TestCollectResults_RoleKeyedRemap(t *testing.T) {
	i := NewIntegrator(seededStore(), nil, errorintel.New(0))
	input := i.CollectResults()

	assert.Equal(t, 4.2, input.Explorer["mean"])
	assert.NotNil(t, input.Anomalies)
	assert.NotNil(t, input.Recommendations)
	assert.Nil(t, input.Predictions, "missing stage leaves its role empty")
	assert.Equal(t, []int{2, 1}, input.DataShape)
}

func TestNarrate_EnrichesOutput(t *testing.T) {
	i := NewIntegrator(seededStore(), NewMockGenerator(3), errorintel.New(0))
	wf := core.NewWorkflow(0)

	n, err := i.Narrate(context.Background(), wf)
	require.NoError(t, err)
	assert.False(t, n.GeneratedAt.IsZero(), "narrate must stamp generation time")
	require.NotNil(t, n.AgentResults)
	assert.Contains(t, n.AgentResults, "explorer")
	assert.Contains(t, n.AgentResults, "anomalies")
	assert.NoError(t, Validate(n))
}

func TestNarrate_GenerationFailureRecorded(t *testing.T) {
	intel := errorintel.New(0)
	gen := &MockGenerator{Err: errors.New("model unavailable")}
	i := NewIntegrator(seededStore(), gen, intel)

	_, err := i.Narrate(context.Background(), core.NewWorkflow(0))
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindNarrative))
	assert.Equal(t, 1, intel.Total(), "narrative failures must be recorded")
}

func TestNarrate_NoGenerator(t *testing.T) {
	i := NewIntegrator(datastore.New(), nil, errorintel.New(0))
	_, err := i.Narrate(context.Background(), core.NewWorkflow(0))
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindNarrative))
}

func TestValidate_ListsMissingSections(t *testing.T) {
	err := Validate(&Narrative{FullNarrative: "too short"})
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindNarrative))
	for _, want := range []string{"executive_summary", "problem_statement", "action_plan", "full_narrative"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestConfidence_Rubric(t *testing.T) {
	empty := &Narrative{}
	assert.Equal(t, 0.0, Confidence(empty))

	full := &Narrative{
		ExecutiveSummary: "s",
		ProblemStatement: "p",
		ActionPlan:       "a",
		FullNarrative:    strings.Repeat("x", MinNarrativeLength),
	}
	// 4 sections, no recommendations.
	assert.InDelta(t, 0.4, Confidence(full), 1e-9)

	full.TotalRecommendations = 3
	assert.InDelta(t, 0.7, Confidence(full), 1e-9)

	// Bonus caps: total never exceeds 1.0.
	full.TotalRecommendations = 100
	assert.Equal(t, 1.0, Confidence(full))
}

func TestMockGenerator_Deterministic(t *testing.T) {
	gen := NewMockGenerator(2)
	a, err := gen.Generate(context.Background(), Input{DataShape: []int{3, 2}})
	require.NoError(t, err)
	b, err := gen.Generate(context.Background(), Input{DataShape: []int{3, 2}})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 2, a.TotalRecommendations)
	assert.GreaterOrEqual(t, len(a.FullNarrative), MinNarrativeLength)
}
