package activity

import (
	"sync"

	"github.com/google/uuid"
)

// Activity owns the named property bag for one UI-bound unit. It is created
// during a reconciliation add step and destroyed on the matching remove step
// or full shutdown. The registry entry that tracks it is the exclusive owner;
// watchers and update loops hold only a shared handle.
type Activity struct {
	mu         sync.RWMutex
	id         Identifier
	widget     uuid.UUID
	properties map[string]property
}

// New creates an activity with an empty property bag and a fresh widget
// handle for the UI server.
func New(id Identifier) *Activity {
	return &Activity{
		id:         id,
		widget:     uuid.New(),
		properties: make(map[string]property),
	}
}

// Identifier returns the activity's immutable identifier.
func (a *Activity) Identifier() Identifier {
	return a.id
}

// WidgetHandle returns the opaque handle passed to the UI server when the
// activity's widget is added.
func (a *Activity) WidgetHandle() uuid.UUID {
	return a.widget
}

// PropertyNames returns the names of all declared properties.
func (a *Activity) PropertyNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, 0, len(a.properties))
	for name := range a.properties {
		names = append(names, name)
	}
	return names
}
