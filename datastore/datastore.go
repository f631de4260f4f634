// Package datastore implements the shared data cache that pipeline stages
// read from and write to, plus the priority resolution that decides which
// dataset a given task should operate on.
package datastore

import (
	"sync"

	"github.com/insightmesh/insightmesh/core"
)

// DefaultDataKey is the well-known cache key the loader stage writes the
// working dataset under. Later stages fall back to it when no explicit data
// source is supplied.
const DefaultDataKey = "loaded_data"

// Manager is an insertion-ordered key/value cache scoped to one orchestrator
// instance. Entries are overwritten on re-set, never auto-expired. Safe for
// concurrent use.
type Manager struct {
	mu      sync.RWMutex
	entries map[string]any
	order   []string
}

// New constructs an empty cache.
func New() *Manager {
	return &Manager{entries: make(map[string]any)}
}

// Set stores (or overwrites) a value. A re-set key keeps its original
// position in the listing order.
func (m *Manager) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[key]; !exists {
		m.order = append(m.order, key)
	}
	m.entries[key] = value
}

// Get returns the value and whether the key is present.
func (m *Manager) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

// GetOrDefault returns the stored value or def when the key is absent.
func (m *Manager) GetOrDefault(key string, def any) any {
	if v, ok := m.Get(key); ok {
		return v
	}
	return def
}

// Delete removes the key, reporting whether it was present.
func (m *Manager) Delete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		return false
	}
	delete(m.entries, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear drops every entry.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]any)
	m.order = nil
}

// Keys returns all keys in insertion order.
func (m *Manager) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Count returns the number of entries.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Interface compliance (compile-time assertion)
var _ core.DataStore = (*Manager)(nil)
