package watcher

import (
	"context"
	"time"

	"powerisland/internal/activity"
	"powerisland/internal/upower"
	"powerisland/pkg/logging"
)

// DefaultPollInterval is the fixed interval between bus polls.
const DefaultPollInterval = 4 * time.Second

// Watcher tracks one named device's identity over time on behalf of one
// activity. It is a two-state machine: Searching while no device matches the
// target, Found once one does. Identity events flow to the activity's update
// loop; registration events flow to the coordinator.
//
// The keepRegistered flag selects the hysteresis policy: when the target
// disappears, a keep-registered watcher reports the aggregate device instead
// of an absent identity, so the activity stays visible with substitute data.
type Watcher struct {
	id             activity.Identifier
	target         string
	keepRegistered bool
	interval       time.Duration
	bus            Bus

	out  *IdentityStream
	regs chan<- Registration

	// state
	found   bool
	current upower.DevicePath

	lastEmitted Identity
	hasEmitted  bool
}

// New creates a watcher for one activity. target is the device's stable name;
// the empty string is the sentinel for the bus's aggregate device.
func New(id activity.Identifier, target string, keepRegistered bool, bus Bus, out *IdentityStream, regs chan<- Registration) *Watcher {
	return &Watcher{
		id:             id,
		target:         target,
		keepRegistered: keepRegistered,
		interval:       DefaultPollInterval,
		bus:            bus,
		out:            out,
		regs:           regs,
	}
}

// SetPollInterval overrides the poll interval, mainly for tests.
func (w *Watcher) SetPollInterval(d time.Duration) {
	w.interval = d
}

// Run polls the bus until the context is cancelled. Cancellation is checked
// at the top of every poll cycle; on cancellation the identity stream is
// closed and the watcher exits without further bus I/O.
func (w *Watcher) Run(ctx context.Context) {
	defer w.out.Close()

	if w.target == "" {
		w.runAggregate(ctx)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		w.poll(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.interval):
		}
	}
}

// runAggregate handles the empty-target sentinel: report the aggregate device
// once, register, and terminate without further polling.
func (w *Watcher) runAggregate(ctx context.Context) {
	for {
		display, err := w.bus.DisplayDevice(ctx)
		if err == nil {
			w.emit(ctx, Identity{Handle: display, Present: true})
			w.sendReg(ctx, true)
			return
		}
		logging.Warn("Watcher", "Failed to get aggregate device for %s: %v", w.id, err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.interval):
		}
	}
}

func (w *Watcher) poll(ctx context.Context) {
	devices, err := w.bus.EnumerateDevices(ctx)
	if err != nil {
		logging.Warn("Watcher", "Error enumerating devices for %s: %v", w.id, err)
		devices = nil
	}

	var match upower.DevicePath
	matched := false
	for _, dev := range devices {
		name, err := w.bus.DeviceName(ctx, dev)
		if err != nil {
			logging.Warn("Watcher", "Failed to resolve name of %s: %v", dev, err)
			continue
		}
		if name == w.target || string(dev) == w.target {
			match = dev
			matched = true
			break
		}
	}

	switch {
	case matched:
		if w.found && w.current == match {
			return
		}
		wasSearching := !w.found
		w.found = true
		w.current = match

		if w.emit(ctx, Identity{Handle: match, Present: true}) {
			if wasSearching {
				w.sendReg(ctx, true)
			}
		} else {
			// Receiver gone; the registration event substitutes for the
			// identity the update loop can no longer observe.
			w.sendReg(ctx, w.keepRegistered)
		}

	case w.found:
		w.found = false
		w.current = ""

		if w.keepRegistered {
			display, err := w.bus.DisplayDevice(ctx)
			if err != nil {
				logging.Warn("Watcher", "Failed to get aggregate fallback for %s: %v", w.id, err)
				w.emit(ctx, Identity{})
			} else {
				w.emit(ctx, Identity{Handle: display, Present: true})
			}
		} else {
			w.emit(ctx, Identity{})
		}
		w.sendReg(ctx, w.keepRegistered)

	default:
		// Still searching, no event.
	}
}

// emit sends an identity event unless it would repeat the previous one.
// Returns false only when the stream's consumer is gone.
func (w *Watcher) emit(ctx context.Context, id Identity) bool {
	if w.hasEmitted && w.lastEmitted == id {
		return true
	}
	if !w.out.Send(id) {
		return false
	}
	w.lastEmitted = id
	w.hasEmitted = true
	return true
}

func (w *Watcher) sendReg(ctx context.Context, register bool) {
	select {
	case w.regs <- Registration{ID: w.id, Register: register}:
	case <-ctx.Done():
	}
}
