package datastore

import (
	"fmt"
	"sync"
	"testing"
)

func TestManager_SetGetDelete(t *testing.T) {
	m := New()
	m.Set("a", 1)
	m.Set("b", 2)
	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Fatalf("get a: %v %v", v, ok)
	}
	if got := m.GetOrDefault("missing", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %v", got)
	}
	if !m.Delete("a") {
		t.Fatal("delete existing must report true")
	}
	if m.Delete("a") {
		t.Fatal("delete missing must report false")
	}
	if m.Count() != 1 {
		t.Fatalf("expected 1 entry, got %d", m.Count())
	}
}

func TestManager_OverwriteKeepsOrder(t *testing.T) {
	m := New()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 10) // overwrite must not move the key
	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("unexpected key order %v", keys)
	}
	if v, _ := m.Get("a"); v != 10 {
		t.Fatalf("overwrite lost: %v", v)
	}
}

func TestManager_Clear(t *testing.T) {
	m := New()
	m.Set("a", 1)
	m.Clear()
	if m.Count() != 0 || len(m.Keys()) != 0 {
		t.Fatal("clear must drop all entries and ordering")
	}
}

func TestManager_Concurrency(t *testing.T) {
	m := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Set(fmt.Sprintf("k%d", i%10), i)
			_, _ = m.Get("k0")
			_ = m.Keys()
		}()
	}
	wg.Wait()
	if m.Count() != 10 {
		t.Fatalf("expected 10 keys, got %d", m.Count())
	}
}
