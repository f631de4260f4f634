package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStatus tracks a task through its linear state machine:
//
//	created → validating → routing → executing → completed | failed
//
// Transitions are one-way and terminal; retry is a wrapper around the whole
// machine, never a state of it.
type TaskStatus int

const (
	// TaskCreated is the initial state of every task record.
	TaskCreated TaskStatus = iota
	// TaskValidating means type and parameter checks are in progress.
	TaskValidating
	// TaskRouting means the required agent is being resolved.
	TaskRouting
	// TaskExecuting means the agent operation is running.
	TaskExecuting
	// TaskCompleted is the successful terminal state.
	TaskCompleted
	// TaskFailed is the failure terminal state.
	TaskFailed
)

// String returns the lowercase status label.
func (s TaskStatus) String() string {
	switch s {
	case TaskCreated:
		return "created"
	case TaskValidating:
		return "validating"
	case TaskRouting:
		return "routing"
	case TaskExecuting:
		return "executing"
	case TaskCompleted:
		return "completed"
	case TaskFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status admits no further transitions.
func (s TaskStatus) Terminal() bool { return s == TaskCompleted || s == TaskFailed }

// CanTransition reports whether moving to next is legal. Failure is
// reachable from any non-terminal state; otherwise only the next linear
// state is allowed.
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == TaskFailed {
		return true
	}
	return next == s+1
}

// TaskSpec is the submission form for one task: a stage wire name, the
// parameters for that stage, and whether a failure should abort the
// surrounding workflow.
type TaskSpec struct {
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Critical   bool           `json:"critical,omitempty"`
}

// Task is one invocation of a single pipeline stage. A record is created per
// submission, appended to the execution history, and never mutated after
// reaching a terminal state except to set its duration.
type Task struct {
	ID         string         `json:"id"`
	Stage      Stage          `json:"type"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Critical   bool           `json:"critical,omitempty"`
	Status     TaskStatus     `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	Result     *StageResult   `json:"result,omitempty"`
	Error      string         `json:"error,omitempty"`
	Duration   time.Duration  `json:"duration"`
}

// NewTask builds a Task in the created state from a parsed stage. Task IDs
// are random UUIDs so histories from separate runs never collide.
func NewTask(stage Stage, params map[string]any, critical bool) *Task {
	return &Task{
		ID:         uuid.New().String(),
		Stage:      stage,
		Parameters: params,
		Critical:   critical,
		Status:     TaskCreated,
		CreatedAt:  time.Now(),
	}
}

// Transition advances the task's status, enforcing the state machine.
func (t *Task) Transition(next TaskStatus) error {
	if !t.Status.CanTransition(next) {
		return NewError(KindValidation,
			fmt.Sprintf("illegal task transition %s → %s", t.Status, next))
	}
	t.Status = next
	return nil
}

// Fail marks the task failed with the given error, recording elapsed time.
func (t *Task) Fail(err error) {
	t.Status = TaskFailed
	if err != nil {
		t.Error = err.Error()
	}
	t.Duration = time.Since(t.CreatedAt)
}

// Complete marks the task completed with its result, recording elapsed time.
func (t *Task) Complete(res *StageResult) {
	t.Status = TaskCompleted
	t.Result = res
	t.Duration = time.Since(t.CreatedAt)
}
