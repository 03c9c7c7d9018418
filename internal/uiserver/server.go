package uiserver

import (
	"sync"

	"github.com/google/uuid"

	"powerisland/internal/activity"
	"powerisland/pkg/logging"
)

// Server is the UI server boundary. Commands are fire-and-forget: failures
// are logged by the caller and the local action is not rolled back.
type Server interface {
	// AddActivity announces a new activity and its widget handle.
	AddActivity(id activity.Identifier, widget uuid.UUID) error

	// RemoveActivity withdraws an activity.
	RemoveActivity(id activity.Identifier) error
}

// Op is the kind of a UI command.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// Command is one UI server command, as delivered to an embedding shell.
type Command struct {
	Op     Op
	ID     activity.Identifier
	Widget uuid.UUID
}

// LogServer is a headless Server that only logs commands. Used when running
// without an embedding shell.
type LogServer struct{}

func (LogServer) AddActivity(id activity.Identifier, widget uuid.UUID) error {
	logging.Info("UIServer", "Add activity %s (widget %s)", id, widget)
	return nil
}

func (LogServer) RemoveActivity(id activity.Identifier) error {
	logging.Info("UIServer", "Remove activity %s", id)
	return nil
}

// ChannelServer delivers commands to an embedding shell over a channel.
type ChannelServer struct {
	mu sync.Mutex
	ch chan Command
}

// NewChannelServer creates a channel-backed server with the given buffer.
func NewChannelServer(buffer int) *ChannelServer {
	if buffer <= 0 {
		buffer = 64
	}
	return &ChannelServer{ch: make(chan Command, buffer)}
}

// Commands returns the receive side consumed by the embedding shell.
func (s *ChannelServer) Commands() <-chan Command {
	return s.ch
}

func (s *ChannelServer) AddActivity(id activity.Identifier, widget uuid.UUID) error {
	return s.send(Command{Op: OpAdd, ID: id, Widget: widget})
}

func (s *ChannelServer) RemoveActivity(id activity.Identifier) error {
	return s.send(Command{Op: OpRemove, ID: id})
}

func (s *ChannelServer) send(cmd Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case s.ch <- cmd:
		return nil
	default:
		logging.Warn("UIServer", "Command channel full, dropping %s for %s", cmd.Op, cmd.ID)
		return nil
	}
}
