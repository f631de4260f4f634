package core

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowStatus tracks a workflow through its state machine:
//
//	created → running → completed | partially_completed | failed
type WorkflowStatus int

const (
	// WorkflowCreated is the initial state after submission is accepted.
	WorkflowCreated WorkflowStatus = iota
	// WorkflowRunning means tasks are executing in submission order.
	WorkflowRunning
	// WorkflowCompleted means every task succeeded.
	WorkflowCompleted
	// WorkflowPartiallyCompleted means some tasks succeeded and some failed
	// non-critically.
	WorkflowPartiallyCompleted
	// WorkflowFailed means no task succeeded or a critical task failed.
	WorkflowFailed
)

// String returns the lowercase status label.
func (s WorkflowStatus) String() string {
	switch s {
	case WorkflowCreated:
		return "created"
	case WorkflowRunning:
		return "running"
	case WorkflowCompleted:
		return "completed"
	case WorkflowPartiallyCompleted:
		return "partially_completed"
	case WorkflowFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Workflow is an ordered batch of tasks executed together. Results are keyed
// by task ID; TaskOrder preserves submission order for iteration.
type Workflow struct {
	ID             string           `json:"id"`
	Status         WorkflowStatus   `json:"status"`
	TotalTasks     int              `json:"total_tasks"`
	CompletedTasks int              `json:"completed_tasks"`
	FailedTasks    int              `json:"failed_tasks"`
	Results        map[string]*Task `json:"results"`
	TaskOrder      []string         `json:"task_order"`
	QualityScore   float64          `json:"quality_score"`
	StartedAt      time.Time        `json:"started_at"`
	CompletedAt    time.Time        `json:"completed_at,omitempty"`
}

// NewWorkflow builds an empty created-state workflow for n submitted tasks.
func NewWorkflow(n int) *Workflow {
	return &Workflow{
		ID:         uuid.New().String(),
		Status:     WorkflowCreated,
		TotalTasks: n,
		Results:    make(map[string]*Task, n),
		StartedAt:  time.Now(),
	}
}

// Append records a finished task under the workflow, updating the
// completed/failed counters from its terminal status.
func (w *Workflow) Append(t *Task) {
	w.Results[t.ID] = t
	w.TaskOrder = append(w.TaskOrder, t.ID)
	switch t.Status {
	case TaskCompleted:
		w.CompletedTasks++
	case TaskFailed:
		w.FailedTasks++
	}
}

// Tasks returns the recorded tasks in submission order.
func (w *Workflow) Tasks() []*Task {
	out := make([]*Task, 0, len(w.TaskOrder))
	for _, id := range w.TaskOrder {
		out = append(out, w.Results[id])
	}
	return out
}

// TaskByStage returns the first recorded task for the given stage, or nil.
func (w *Workflow) TaskByStage(stage Stage) *Task {
	for _, id := range w.TaskOrder {
		if t := w.Results[id]; t.Stage == stage {
			return t
		}
	}
	return nil
}
