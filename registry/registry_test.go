package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/insightmesh/insightmesh/core"
)

type stubAgent struct{ name string }

func (s *stubAgent) Name() string { return s.name }
func (s *stubAgent) Execute(context.Context, core.Invocation) (*core.StageResult, error) {
	return core.Ok(s.name, core.StageExplore, nil), nil
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := New()
	if err := r.Register(&stubAgent{name: "loader"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(&stubAgent{name: "explorer"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := r.Count(); got != 2 {
		t.Fatalf("expected 2 agents, got %d", got)
	}
	if a := r.Get("loader"); a == nil || a.Name() != "loader" {
		t.Fatal("Get returned wrong agent")
	}
	if a := r.Get("reporter"); a != nil {
		t.Fatal("Get must return nil sentinel for missing agent")
	}
	if _, err := r.MustGet("reporter"); !core.IsKind(err, core.KindLifecycle) {
		t.Fatalf("expected lifecycle error, got %v", err)
	}
}

func TestRegistry_DuplicateLeavesCountUnchanged(t *testing.T) {
	r := New()
	if err := r.Register(&stubAgent{name: "loader"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	before := r.Count()
	err := r.Register(&stubAgent{name: "loader"})
	if err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if !core.IsKind(err, core.KindLifecycle) {
		t.Fatalf("expected lifecycle error, got %v", err)
	}
	if r.Count() != before {
		t.Fatal("duplicate registration must not mutate the registry")
	}
}

func TestRegistry_RejectsUnnamed(t *testing.T) {
	r := New()
	if err := r.Register(&stubAgent{}); err == nil {
		t.Fatal("expected error for agent without a name")
	}
	if err := r.Register(nil); err == nil {
		t.Fatal("expected error for nil agent")
	}
	if r.Count() != 0 {
		t.Fatal("failed registrations must leave no partial state")
	}
}

func TestRegistry_ListRegistrationOrder(t *testing.T) {
	r := New()
	names := []string{"loader", "explorer", "aggregator"}
	for _, n := range names {
		if err := r.Register(&stubAgent{name: n}); err != nil {
			t.Fatalf("register %s: %v", n, err)
		}
	}
	got := r.List()
	for i, n := range names {
		if got[i] != n {
			t.Fatalf("expected %s at %d, got %s", n, i, got[i])
		}
	}
}

func TestRegistry_Concurrency(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Register(&stubAgent{name: fmt.Sprintf("agent-%d", i%10)})
			_ = r.Get("agent-0")
			_ = r.List()
		}()
	}
	wg.Wait()
	if r.Count() != 10 {
		t.Fatalf("expected 10 unique agents, got %d", r.Count())
	}
}
