package watcher

import (
	"context"
	"time"

	"powerisland/internal/activity"
	"powerisland/internal/config"
	"powerisland/internal/upower"
	"powerisland/pkg/logging"
)

// DefaultUpdateInterval is the fixed interval between device readings.
const DefaultUpdateInterval = 3500 * time.Millisecond

// Updater is the per-activity update loop. It consumes identity events from
// the activity's watcher and, for each resolved device, polls readings on a
// fixed interval and publishes them into the property bag. Bus errors are
// logged and retried on the next tick; they never propagate past the loop.
type Updater struct {
	act      *activity.Activity
	cfg      config.BaseConfig
	bus      Bus
	stream   *IdentityStream
	interval time.Duration
}

// NewUpdater creates the update loop for one activity.
func NewUpdater(act *activity.Activity, cfg config.BaseConfig, bus Bus, stream *IdentityStream) *Updater {
	return &Updater{
		act:      act,
		cfg:      cfg,
		bus:      bus,
		stream:   stream,
		interval: DefaultUpdateInterval,
	}
}

// SetUpdateInterval overrides the reading interval, mainly for tests.
func (u *Updater) SetUpdateInterval(d time.Duration) {
	u.interval = d
}

// Run consumes identities until the context is cancelled or the watcher
// closes the stream.
func (u *Updater) Run(ctx context.Context) {
	percentage, err := activity.Prop[float64](u.act, PropPercentage)
	if err != nil {
		logging.Error("Updater", err, "Missing property on %s", u.act.Identifier())
		return
	}
	charging, err := activity.Prop[bool](u.act, PropCharging)
	if err != nil {
		logging.Error("Updater", err, "Missing property on %s", u.act.Identifier())
		return
	}
	timeTo, err := activity.Prop[TimeTo](u.act, PropTimeTo)
	if err != nil {
		logging.Error("Updater", err, "Missing property on %s", u.act.Identifier())
		return
	}
	points, err := activity.Prop[[]upower.HistoryEntry](u.act, PropPoints)
	if err != nil {
		logging.Error("Updater", err, "Missing property on %s", u.act.Identifier())
		return
	}

	var current upower.DevicePath
	have := false

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case id, ok := <-u.stream.Recv():
			if !ok {
				logging.Debug("Updater", "Identity stream for %s closed", u.act.Identifier())
				return
			}
			if !id.Present {
				logging.Debug("Updater", "Device not found for %s (target %q)", u.act.Identifier(), u.cfg.Battery)
				have = false
				continue
			}
			current = id.Handle
			have = true
			u.refresh(ctx, percentage, charging, timeTo, points, current)

		case <-ticker.C:
			if have {
				u.refresh(ctx, percentage, charging, timeTo, points, current)
			}
		}
	}
}

// refresh reads the device once and publishes the readings.
func (u *Updater) refresh(
	ctx context.Context,
	percentage *activity.Property[float64],
	charging *activity.Property[bool],
	timeTo *activity.Property[TimeTo],
	points *activity.Property[[]upower.HistoryEntry],
	device upower.DevicePath,
) {
	snap, err := u.bus.DeviceSnapshot(ctx, device)
	if err != nil {
		logging.Warn("Updater", "Failed to read device %s for %s: %v", device, u.act.Identifier(), err)
		return
	}

	percentage.Set(snap.Percentage / 100.0)
	charging.Set(snap.State == upower.StateCharging)
	timeTo.Set(TimeTo{
		State:       snap.State,
		ToEmptySecs: uint64(snap.TimeToEmpty / time.Second),
		ToFullSecs:  uint64(snap.TimeToFull / time.Second),
	})

	if snap.HasHistory {
		timespan := u.cfg.Graph.MaxDurationSecs
		hist, err := u.bus.DeviceHistory(ctx, device, upower.HistoryCharge, timespan, timespan/60)
		if err != nil {
			logging.Warn("Updater", "Failed to read history of %s for %s: %v", device, u.act.Identifier(), err)
			return
		}
		points.Set(hist)
	}
}
