package coordinator

import (
	"context"

	"powerisland/internal/activity"
	"powerisland/internal/config"
	"powerisland/internal/uiserver"
	"powerisland/internal/watcher"
	"powerisland/pkg/logging"
)

// ApplyFunc applies a resolved configuration to an activity's property bag.
type ApplyFunc func(act *activity.Activity, cfg config.BaseConfig)

// Coordinator is the single consumer of the registration-event queue for one
// producer generation. Running it on exactly one goroutine is what makes the
// registry mutations and UI server calls single-writer; nothing else touches
// the registry while a generation is live.
type Coordinator struct {
	registry   *activity.Registry
	ui         uiserver.Server
	cfg        config.MainConfig
	activities map[string]*activity.Activity
	apply      ApplyFunc
}

// New creates a coordinator over one generation's activity set. The activity
// map is keyed by identifier string and covers every activity the generation
// may register; cfg is the resolved configuration current at spawn time.
func New(registry *activity.Registry, ui uiserver.Server, cfg config.MainConfig, activities map[string]*activity.Activity, apply ApplyFunc) *Coordinator {
	return &Coordinator{
		registry:   registry,
		ui:         ui,
		cfg:        cfg,
		activities: activities,
		apply:      apply,
	}
}

// Run consumes registration events until the context is cancelled.
func (c *Coordinator) Run(ctx context.Context, events <-chan watcher.Registration) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			c.handle(ev)
		}
	}
}

// handle applies one registration event. Duplicate and out-of-order events
// are no-ops: registering an already registered activity or unregistering an
// unknown one changes nothing.
func (c *Coordinator) handle(ev watcher.Registration) {
	act, ok := c.activities[ev.ID.String()]
	if !ok {
		logging.Error("Coordinator", nil, "Activity not found: %s", ev.ID)
		return
	}

	if ev.Register {
		if _, registered := c.registry.Get(ev.ID); registered {
			return
		}
		if err := c.registry.Register(act); err != nil {
			logging.Error("Coordinator", err, "Failed to register activity %s", ev.ID)
			return
		}
		// UI commands are fire-and-forget; a failure is logged and the local
		// registration is not rolled back.
		if err := c.ui.AddActivity(ev.ID, act.WidgetHandle()); err != nil {
			logging.Error("Coordinator", err, "Failed to add activity %s to UI server", ev.ID)
		}
		idx, err := ev.ID.Instance()
		if err != nil {
			logging.Error("Coordinator", err, "Bad instance index on %s", ev.ID)
			idx = 0
		}
		c.apply(act, c.cfg.GetForWindow(ev.ID.Window(), idx))
		return
	}

	if _, registered := c.registry.Get(ev.ID); !registered {
		return
	}
	if err := c.ui.RemoveActivity(ev.ID); err != nil {
		logging.Error("Coordinator", err, "Failed to remove activity %s from UI server", ev.ID)
	}
	if err := c.registry.Unregister(ev.ID); err != nil {
		logging.Error("Coordinator", err, "Failed to unregister activity %s", ev.ID)
	}
}
