package narrative

import (
	"context"
	"fmt"
	"strings"
)

// MockGenerator is a deterministic in-process Generator for tests and
// examples. It produces a complete narrative describing whatever roles are
// present in the input, with a configurable recommendation count.
type MockGenerator struct {
	// Recommendations overrides the reported recommendation count.
	Recommendations int
	// Err, when set, is returned from every Generate call.
	Err error
}

// NewMockGenerator constructs a MockGenerator reporting n recommendations.
func NewMockGenerator(n int) *MockGenerator {
	return &MockGenerator{Recommendations: n}
}

// Generate implements Generator.
func (m *MockGenerator) Generate(_ context.Context, input Input) (*Narrative, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	var roles []string
	if input.Explorer != nil {
		roles = append(roles, "exploration")
	}
	if input.Anomalies != nil {
		roles = append(roles, "anomaly detection")
	}
	if input.Predictions != nil {
		roles = append(roles, "prediction")
	}
	if input.Recommendations != nil {
		roles = append(roles, "recommendations")
	}
	covered := "no analysis stages"
	if len(roles) > 0 {
		covered = strings.Join(roles, ", ")
	}

	full := fmt.Sprintf(
		"This analysis covered %s. The dataset shape was %v. "+
			"Key findings were synthesized from each completed stage in pipeline order, "+
			"and the resulting action plan prioritizes the highest-impact items first. "+
			"All figures reference the cached stage outputs available at generation time.",
		covered, input.DataShape)

	return &Narrative{
		ExecutiveSummary:     fmt.Sprintf("Pipeline analysis summary covering %s.", covered),
		ProblemStatement:     "The dataset was analyzed for structure, anomalies and trends.",
		ActionPlan:           fmt.Sprintf("Review the %d generated recommendations in priority order.", m.Recommendations),
		FullNarrative:        full,
		TotalRecommendations: m.Recommendations,
	}, nil
}
