// Package registry holds the named analysis agents available to the routing
// layer. It is a pure lookup table: agents are registered once at startup
// and live for the orchestrator's lifetime; there is no unregister.
package registry

import (
	"fmt"
	"sync"

	"github.com/insightmesh/insightmesh/core"
)

// Registry maps agent names to instances. Safe for concurrent use. Names
// list in registration order and a name registers at most once; duplicate
// registration fails without mutating the table.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]core.Agent
	order  []string
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{agents: make(map[string]core.Agent)}
}

// Register adds an agent under its own name. It fails with a lifecycle error
// when the agent has no name or the name is already taken, leaving no
// partial state behind.
func (r *Registry) Register(a core.Agent) error {
	if a == nil {
		return core.NewError(core.KindLifecycle, "cannot register nil agent")
	}
	name := a.Name()
	if name == "" {
		return core.NewError(core.KindLifecycle, "agent has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[name]; exists {
		return core.NewError(core.KindLifecycle,
			fmt.Sprintf("agent %q already registered", name))
	}
	r.agents[name] = a
	r.order = append(r.order, name)
	return nil
}

// Get returns the agent or nil when absent. Callers that need a hard
// failure use MustGet.
func (r *Registry) Get(name string) core.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.agents[name]
}

// MustGet returns the agent or a lifecycle error when it is not registered.
func (r *Registry) MustGet(name string) (core.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	if !ok {
		return nil, core.NewError(core.KindLifecycle,
			fmt.Sprintf("agent %q not registered", name))
	}
	return a, nil
}

// List returns all registered names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of registered agents.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
