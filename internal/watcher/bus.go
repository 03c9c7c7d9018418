package watcher

import (
	"context"

	"powerisland/internal/upower"
)

// Bus is the device-bus surface consumed by watchers and update loops. Each
// call may fail independently; failures degrade to a logged warning and a
// retry on the next poll.
//
// *upower.Client implements Bus against the system D-Bus.
type Bus interface {
	// EnumerateDevices lists the handles of all devices currently on the bus.
	EnumerateDevices(ctx context.Context) ([]upower.DevicePath, error)

	// DeviceName resolves a handle to the device's stable name.
	DeviceName(ctx context.Context, path upower.DevicePath) (string, error)

	// DisplayDevice returns the bus's aggregate device.
	DisplayDevice(ctx context.Context) (upower.DevicePath, error)

	// DeviceSnapshot reads the current state of a device.
	DeviceSnapshot(ctx context.Context, path upower.DevicePath) (upower.Snapshot, error)

	// DeviceHistory fetches a bounded recorded series from a device.
	DeviceHistory(ctx context.Context, path upower.DevicePath, kind upower.HistoryType, timespanSecs, resolution uint32) ([]upower.HistoryEntry, error)
}
