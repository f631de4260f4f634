package core

import "testing"

func TestParseStage_KnownNames(t *testing.T) {
	for i, name := range stageNames {
		s, err := ParseStage(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if s.Index() != i {
			t.Fatalf("expected index %d for %q, got %d", i, name, s.Index())
		}
		if s.String() != name {
			t.Fatalf("round trip mismatch: %q vs %q", s.String(), name)
		}
		if s.AgentName() == "" {
			t.Fatalf("stage %q has no agent mapping", name)
		}
	}
}

func TestParseStage_Unknown(t *testing.T) {
	_, err := ParseStage("transmogrify")
	if err == nil {
		t.Fatal("expected error for unknown stage")
	}
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected validation kind, got %v", err)
	}
}

func TestStages_CanonicalOrder(t *testing.T) {
	all := Stages()
	if len(all) != 9 {
		t.Fatalf("expected 9 stages, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Index() <= all[i-1].Index() {
			t.Fatalf("order not strictly ascending at %d", i)
		}
	}
	if all[0] != StageLoad || all[len(all)-1] != StageReport {
		t.Fatal("canonical order must start with load and end with report")
	}
}
