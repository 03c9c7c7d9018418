package activity

import (
	"fmt"
	"sync"
)

// Registry tracks the activities currently registered with the UI server.
// The lock is held only for the duration of a single lookup, insert or erase,
// never across I/O.
type Registry struct {
	mu         sync.RWMutex
	activities map[string]*Activity
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		activities: make(map[string]*Activity),
	}
}

// Register adds an activity to the registry.
func (r *Registry) Register(act *Activity) error {
	if act == nil {
		return fmt.Errorf("cannot register nil activity")
	}

	key := act.Identifier().String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.activities[key]; exists {
		return fmt.Errorf("activity %s already registered", key)
	}
	r.activities[key] = act
	return nil
}

// Unregister removes an activity from the registry.
func (r *Registry) Unregister(id Identifier) error {
	key := id.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.activities[key]; !exists {
		return fmt.Errorf("activity %s not registered", key)
	}
	delete(r.activities, key)
	return nil
}

// Get returns a registered activity by identifier.
func (r *Registry) Get(id Identifier) (*Activity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	act, exists := r.activities[id.String()]
	return act, exists
}

// List returns the identifiers of all registered activities.
func (r *Registry) List() []Identifier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]Identifier, 0, len(r.activities))
	for _, act := range r.activities {
		ids = append(ids, act.Identifier())
	}
	return ids
}

// All returns all registered activities.
func (r *Registry) All() []*Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acts := make([]*Activity, 0, len(r.activities))
	for _, act := range r.activities {
		acts = append(acts, act)
	}
	return acts
}
