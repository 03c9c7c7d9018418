package module

import (
	"context"

	"powerisland/internal/activity"
	"powerisland/internal/coordinator"
	"powerisland/internal/reconcile"
	"powerisland/internal/watcher"
	"powerisland/pkg/logging"
)

const registrationBuffer = 64

// producer reconciles the activity set against the current configuration and
// spawns one generation of watcher, updater and coordinator tasks. It is
// invoked on Init and re-invoked by every producer restart; it must only set
// up the generation and return promptly.
func (m *Module) producer() {
	cfg := m.Config()

	current := m.registry.List()
	desired := reconcile.DesiredFromConfig(cfg)
	toRemove, toAdd := reconcile.Diff(current, desired)

	for _, id := range toRemove {
		logging.Debug("Module", "Removing activity %s", id)
		m.unregisterActivity(id)
	}

	// The generation's activity set: everything still registered plus the
	// newly created instances. New activities are not registered here; their
	// watchers decide that through registration events.
	activities := make(map[string]*activity.Activity)
	for _, act := range m.registry.All() {
		activities[act.Identifier().String()] = act
	}
	for _, slot := range toAdd {
		id := activity.NewIdentifier(Name, activityKind, slot.Window, slot.Instance)
		logging.Debug("Module", "Adding activity %s", id)

		act := activity.New(id)
		if err := declareProperties(act); err != nil {
			logging.Error("Module", err, "Failed to declare properties on %s", id)
			continue
		}
		activities[id.String()] = act
	}

	regs := make(chan watcher.Registration, registrationBuffer)
	coord := coordinator.New(m.registry, m.ui, cfg, activities, applyConfig)
	m.rt.Spawn("coordinator", func(ctx context.Context) {
		coord.Run(ctx, regs)
	})

	for key, act := range activities {
		id := act.Identifier()
		idx, err := id.Instance()
		if err != nil {
			logging.Error("Module", err, "Bad instance index on %s", id)
			idx = 0
		}
		actCfg := cfg.GetForWindow(id.Window(), idx)

		applyConfig(act, actCfg)

		stream := watcher.NewIdentityStream()
		w := watcher.New(id, actCfg.Battery, !actCfg.HideIfMissing, m.bus, stream, regs)
		u := watcher.NewUpdater(act, actCfg, m.bus, stream)

		m.rt.Spawn("watcher/"+key, w.Run)
		m.rt.Spawn("updater/"+key, u.Run)
	}
}
