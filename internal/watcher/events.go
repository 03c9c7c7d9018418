package watcher

import (
	"sync"

	"powerisland/internal/activity"
	"powerisland/internal/upower"
)

// Identity reports which device a watcher currently resolves its target to.
// An absent identity (Present false) means the target has no device.
type Identity struct {
	Handle  upower.DevicePath
	Present bool
}

// Registration asks the coordinator to register or unregister one activity.
// Registrations are ephemeral messages, never persisted.
type Registration struct {
	ID       activity.Identifier
	Register bool
}

const identityBuffer = 64

// IdentityStream carries identity events from one watcher to its activity's
// update loop, in the order produced. The producer side learns that the
// consumer is gone when a send fails.
type IdentityStream struct {
	mu     sync.Mutex
	ch     chan Identity
	closed bool
}

// NewIdentityStream creates a stream with a bounded buffer.
func NewIdentityStream() *IdentityStream {
	return &IdentityStream{ch: make(chan Identity, identityBuffer)}
}

// Send delivers an identity event. It reports false when the stream is closed
// or the consumer has stopped draining it.
func (s *IdentityStream) Send(id Identity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.ch <- id:
		return true
	default:
		return false
	}
}

// Recv returns the receive side of the stream. The channel is closed when the
// producing watcher exits.
func (s *IdentityStream) Recv() <-chan Identity {
	return s.ch
}

// Close closes the stream. Safe to call more than once.
func (s *IdentityStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
