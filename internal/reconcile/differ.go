package reconcile

import (
	"sort"

	"powerisland/internal/activity"
	"powerisland/internal/config"
)

// Desired is the desired activity count for one window.
type Desired struct {
	Window string
	Count  int
}

// Slot identifies one activity instance to create.
type Slot struct {
	Window   string
	Instance int
}

// Diff computes the add and remove sets that take the current activity set to
// the desired per-window counts. It is a pure function and never fails.
//
// Index slots are never compacted within one call: the per-window high-water
// mark is computed before any removal, so removing instance 1 of 2 leaves
// instance 0 untouched and a later growth in the same call continues from
// index 2. A subsequent call that observes the registry without the removed
// entries recomputes the mark from what remains.
func Diff(current []activity.Identifier, desired []Desired) (toRemove []activity.Identifier, toAdd []Slot) {
	// High-water mark per window, over every current entry including ones
	// about to be removed.
	maxIndex := make(map[string]int)
	seen := make(map[string]bool)

	for _, id := range current {
		idx, err := id.Instance()
		if err != nil {
			// Identifiers built by this module always carry an index; treat a
			// foreign one as instance 0.
			idx = 0
		}
		window := id.Window()

		wanted := false
		for _, d := range desired {
			if d.Window == window && d.Count > idx {
				wanted = true
				break
			}
		}
		if !wanted {
			toRemove = append(toRemove, id)
		}

		if !seen[window] || idx > maxIndex[window] {
			maxIndex[window] = idx
		}
		seen[window] = true
	}

	for _, d := range desired {
		if !seen[d.Window] {
			for i := 0; i < d.Count; i++ {
				toAdd = append(toAdd, Slot{Window: d.Window, Instance: i})
			}
			continue
		}
		for i := maxIndex[d.Window] + 1; i < d.Count; i++ {
			toAdd = append(toAdd, Slot{Window: d.Window, Instance: i})
		}
	}

	return toRemove, toAdd
}

// DesiredFromConfig derives the desired per-window counts from a resolved
// configuration. Windows are returned in a deterministic order.
func DesiredFromConfig(cfg config.MainConfig) []Desired {
	desired := make([]Desired, 0, len(cfg.Windows))
	for window, entries := range cfg.Windows {
		desired = append(desired, Desired{Window: window, Count: len(entries)})
	}
	sort.Slice(desired, func(i, j int) bool { return desired[i].Window < desired[j].Window })
	return desired
}
