package activity

import (
	"fmt"
	"sync"
)

// property is the untyped view of a reactive property, used by the bag.
type property interface {
	name() string
}

// Property is a named reactive value of type T. Widgets subscribe to a
// property and receive every value set on it, in order.
type Property[T any] struct {
	mu        sync.Mutex
	propName  string
	value     T
	observers []chan T
}

func newProperty[T any](name string, initial T) *Property[T] {
	return &Property[T]{propName: name, value: initial}
}

func (p *Property[T]) name() string {
	return p.propName
}

// Get returns the current value.
func (p *Property[T]) Get() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Set stores a new value and notifies every subscriber. Subscribers that are
// not draining their channel lose the update rather than blocking the setter.
func (p *Property[T]) Set(value T) {
	p.mu.Lock()
	p.value = value
	observers := make([]chan T, len(p.observers))
	copy(observers, p.observers)
	p.mu.Unlock()

	for _, ch := range observers {
		select {
		case ch <- value:
		default:
		}
	}
}

// Subscribe returns a channel receiving every subsequent value set on the
// property. The channel is buffered; it is never closed.
func (p *Property[T]) Subscribe() <-chan T {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan T, 16)
	p.observers = append(p.observers, ch)
	return ch
}

// Prop looks up a declared property by name with its static type. It fails if
// the property was never declared or was declared with a different type.
func Prop[T any](a *Activity, name string) (*Property[T], error) {
	a.mu.RLock()
	raw, ok := a.properties[name]
	a.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("activity %s has no property %q", a.id, name)
	}
	typed, ok := raw.(*Property[T])
	if !ok {
		return nil, fmt.Errorf("property %q of activity %s has type %T, not %T", name, a.id, raw, typed)
	}
	return typed, nil
}

// DeclareProp registers a typed property on the activity with an initial
// value. Declaring the same name twice is an error.
func DeclareProp[T any](a *Activity, name string, initial T) (*Property[T], error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.properties[name]; exists {
		return nil, fmt.Errorf("property %q already declared on activity %s", name, a.id)
	}
	p := newProperty(name, initial)
	a.properties[name] = p
	return p, nil
}
