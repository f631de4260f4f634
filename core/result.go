package core

import "time"

// StageResult is the uniform envelope every agent operation returns. The
// orchestrator reads only Success and QualityScore; Data, Warnings and
// Metadata are opaque payload forwarded to the cache and narrative stages.
//
// Construct results through Ok / Err so the success flag, error list and
// timestamp stay consistent; the exported fields remain settable for
// agents that need to attach warnings, metadata or a quality score.
type StageResult struct {
	Worker        string         `json:"worker"`
	Stage         Stage          `json:"task_type"`
	Success       bool           `json:"success"`
	Data          map[string]any `json:"data,omitempty"`
	Errors        []string       `json:"errors,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
	QualityScore  float64        `json:"quality_score"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
	ExecutionTime time.Duration  `json:"execution_time"`
}

// Ok builds a successful envelope with a perfect quality score. Callers may
// lower QualityScore afterwards to signal a partial result.
func Ok(worker string, stage Stage, data map[string]any) *StageResult {
	return &StageResult{
		Worker:       worker,
		Stage:        stage,
		Success:      true,
		Data:         data,
		QualityScore: 1.0,
		Timestamp:    time.Now(),
	}
}

// Err builds a failed envelope carrying at least one error message.
func Err(worker string, stage Stage, errs ...string) *StageResult {
	if len(errs) == 0 {
		errs = []string{"unspecified failure"}
	}
	return &StageResult{
		Worker:    worker,
		Stage:     stage,
		Success:   false,
		Errors:    errs,
		Timestamp: time.Now(),
	}
}

// Partial reports whether the envelope succeeded with a degraded quality
// score or carries warnings alongside success.
func (r *StageResult) Partial() bool {
	return r.Success && (r.QualityScore < 1.0 || len(r.Warnings) > 0)
}

// ToMap flattens the envelope into a generic map for cache storage and the
// narrative boundary, where stage outputs are consumed by key.
func (r *StageResult) ToMap() map[string]any {
	return map[string]any{
		"worker":         r.Worker,
		"task_type":      r.Stage.String(),
		"success":        r.Success,
		"data":           r.Data,
		"errors":         r.Errors,
		"warnings":       r.Warnings,
		"quality_score":  r.QualityScore,
		"metadata":       r.Metadata,
		"timestamp":      r.Timestamp,
		"execution_time": r.ExecutionTime,
	}
}
