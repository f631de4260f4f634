package narrative

import "strings"

// Section markers model-backed generators instruct their model to emit.
const (
	markerExecutiveSummary = "EXECUTIVE SUMMARY:"
	markerProblemStatement = "PROBLEM STATEMENT:"
	markerActionPlan       = "ACTION PLAN:"
)

// ParseSections splits marker-delimited generator output into a Narrative.
// Text before the first marker, and the concatenation of everything, become
// the full narrative. Missing markers leave their section empty; Validate
// decides whether that is acceptable.
func ParseSections(text string) *Narrative {
	n := &Narrative{FullNarrative: strings.TrimSpace(text)}
	upper := strings.ToUpper(text)

	n.ExecutiveSummary = extract(text, upper, markerExecutiveSummary)
	n.ProblemStatement = extract(text, upper, markerProblemStatement)
	n.ActionPlan = extract(text, upper, markerActionPlan)
	return n
}

// extract returns the text between marker and the next known marker (or end
// of input), trimmed.
func extract(text, upper, marker string) string {
	start := strings.Index(upper, marker)
	if start < 0 {
		return ""
	}
	start += len(marker)
	end := len(text)
	for _, m := range []string{markerExecutiveSummary, markerProblemStatement, markerActionPlan} {
		if m == marker {
			continue
		}
		if idx := strings.Index(upper[start:], m); idx >= 0 && start+idx < end {
			end = start + idx
		}
	}
	return strings.TrimSpace(text[start:end])
}
