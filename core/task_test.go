package core

import (
	"errors"
	"testing"
)

func TestTaskStatus_LinearTransitions(t *testing.T) {
	task := NewTask(StageExplore, nil, false)
	order := []TaskStatus{TaskValidating, TaskRouting, TaskExecuting, TaskCompleted}
	for _, next := range order {
		if err := task.Transition(next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
	if !task.Status.Terminal() {
		t.Fatal("expected terminal status")
	}
	if err := task.Transition(TaskFailed); err == nil {
		t.Fatal("terminal state must reject further transitions")
	}
}

func TestTaskStatus_NoSkipping(t *testing.T) {
	task := NewTask(StageExplore, nil, false)
	if err := task.Transition(TaskExecuting); err == nil {
		t.Fatal("expected error skipping validating/routing")
	}
}

func TestTaskStatus_FailFromAnywhere(t *testing.T) {
	for _, from := range []TaskStatus{TaskCreated, TaskValidating, TaskRouting, TaskExecuting} {
		if !from.CanTransition(TaskFailed) {
			t.Fatalf("failure must be reachable from %s", from)
		}
	}
}

func TestTask_FailRecordsErrorAndDuration(t *testing.T) {
	task := NewTask(StageLoad, map[string]any{"file_path": "x.csv"}, true)
	task.Fail(errors.New("boom"))
	if task.Status != TaskFailed {
		t.Fatalf("expected failed, got %s", task.Status)
	}
	if task.Error != "boom" {
		t.Fatalf("expected error message, got %q", task.Error)
	}
	if task.Duration < 0 {
		t.Fatal("duration must be recorded")
	}
}

func TestWorkflow_AppendAccounting(t *testing.T) {
	wf := NewWorkflow(2)
	t1 := NewTask(StageLoad, nil, false)
	t1.Complete(Ok("loader", StageLoad, nil))
	t2 := NewTask(StageExplore, nil, false)
	t2.Fail(errors.New("nope"))
	wf.Append(t1)
	wf.Append(t2)
	if wf.CompletedTasks+wf.FailedTasks != wf.TotalTasks {
		t.Fatalf("accounting identity violated: %d + %d != %d",
			wf.CompletedTasks, wf.FailedTasks, wf.TotalTasks)
	}
	if got := wf.TaskByStage(StageExplore); got != t2 {
		t.Fatal("TaskByStage lookup failed")
	}
	if tasks := wf.Tasks(); len(tasks) != 2 || tasks[0] != t1 {
		t.Fatal("Tasks must preserve submission order")
	}
}

func TestStageResult_Envelope(t *testing.T) {
	ok := Ok("explorer", StageExplore, map[string]any{"rows": 3})
	if !ok.Success || ok.QualityScore != 1.0 {
		t.Fatal("Ok must succeed with full quality")
	}
	if ok.Partial() {
		t.Fatal("full-quality result is not partial")
	}
	ok.QualityScore = 0.5
	if !ok.Partial() {
		t.Fatal("degraded quality must read as partial")
	}

	bad := Err("explorer", StageExplore)
	if bad.Success || len(bad.Errors) == 0 {
		t.Fatal("Err must fail with a non-empty error list")
	}
	m := bad.ToMap()
	if m["success"] != false || m["task_type"] != "explore" {
		t.Fatalf("ToMap mismatch: %v", m)
	}
}

func TestAsDataset_Coercions(t *testing.T) {
	rows := []Row{{"a": 1}, {"a": 2}}
	if d, ok := AsDataset(rows); !ok || d.Len() != 2 {
		t.Fatal("[]Row coercion failed")
	}
	if d, ok := AsDataset(NewDataset(rows)); !ok || d.Len() != 2 {
		t.Fatal("*Dataset coercion failed")
	}
	if d, ok := AsDataset([]any{map[string]any{"a": 1}}); !ok || d.Len() != 1 {
		t.Fatal("[]any coercion failed")
	}
	if _, ok := AsDataset(42); ok {
		t.Fatal("scalar must not coerce")
	}
	if got := NewDataset(rows).Shape(); got[0] != 2 || got[1] != 1 {
		t.Fatalf("unexpected shape %v", got)
	}
}
