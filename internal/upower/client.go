package upower

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	busName       = "org.freedesktop.UPower"
	busPath       = "/org/freedesktop/UPower"
	busInterface  = "org.freedesktop.UPower"
	devInterface  = "org.freedesktop.UPower.Device"
	propInterface = "org.freedesktop.DBus.Properties"
)

// DevicePath is the opaque handle of one device on the bus. Identity is
// stable while the physical device remains, but the handle may become invalid
// or be replaced by another handle for the same logical name.
type DevicePath string

// Snapshot is one set of readings from a device.
type Snapshot struct {
	Percentage  float64
	State       State
	TimeToEmpty time.Duration
	TimeToFull  time.Duration
	Level       BatteryLevel
	Technology  Technology
	HasHistory  bool
}

// Info describes a device for display purposes.
type Info struct {
	NativePath string
	Model      string
	Serial     string
	Percentage float64
}

// Client talks to the UPower daemon over the system D-Bus.
type Client struct {
	conn *dbus.Conn
}

// NewSystem connects to the system bus.
func NewSystem() (*Client, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Close releases the bus connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// EnumerateDevices lists all power devices known to the daemon.
func (c *Client) EnumerateDevices(ctx context.Context) ([]DevicePath, error) {
	obj := c.conn.Object(busName, busPath)
	var paths []dbus.ObjectPath
	if err := obj.CallWithContext(ctx, busInterface+".EnumerateDevices", 0).Store(&paths); err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	devices := make([]DevicePath, 0, len(paths))
	for _, p := range paths {
		devices = append(devices, DevicePath(p))
	}
	return devices, nil
}

// DisplayDevice returns the daemon's aggregate device, the synthetic combined
// view used when no specific device is targeted.
func (c *Client) DisplayDevice(ctx context.Context) (DevicePath, error) {
	obj := c.conn.Object(busName, busPath)
	var path dbus.ObjectPath
	if err := obj.CallWithContext(ctx, busInterface+".GetDisplayDevice", 0).Store(&path); err != nil {
		return "", fmt.Errorf("failed to get display device: %w", err)
	}
	return DevicePath(path), nil
}

// DeviceName resolves a device handle to its stable native path name.
func (c *Client) DeviceName(ctx context.Context, path DevicePath) (string, error) {
	var name string
	if err := c.prop(ctx, path, "NativePath", &name); err != nil {
		return "", err
	}
	return name, nil
}

// DeviceSnapshot reads the current state of a device.
func (c *Client) DeviceSnapshot(ctx context.Context, path DevicePath) (Snapshot, error) {
	var snap Snapshot

	if err := c.prop(ctx, path, "Percentage", &snap.Percentage); err != nil {
		return Snapshot{}, err
	}
	var state uint32
	if err := c.prop(ctx, path, "State", &state); err != nil {
		return Snapshot{}, err
	}
	snap.State = State(state)

	var toEmpty, toFull int64
	if err := c.prop(ctx, path, "TimeToEmpty", &toEmpty); err != nil {
		return Snapshot{}, err
	}
	if err := c.prop(ctx, path, "TimeToFull", &toFull); err != nil {
		return Snapshot{}, err
	}
	snap.TimeToEmpty = time.Duration(toEmpty) * time.Second
	snap.TimeToFull = time.Duration(toFull) * time.Second

	var level, tech uint32
	if err := c.prop(ctx, path, "BatteryLevel", &level); err != nil {
		return Snapshot{}, err
	}
	if err := c.prop(ctx, path, "Technology", &tech); err != nil {
		return Snapshot{}, err
	}
	snap.Level = BatteryLevel(level)
	snap.Technology = Technology(tech)

	if err := c.prop(ctx, path, "HasHistory", &snap.HasHistory); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// DeviceHistory fetches a bounded recorded series from a device.
func (c *Client) DeviceHistory(ctx context.Context, path DevicePath, kind HistoryType, timespanSecs, resolution uint32) ([]HistoryEntry, error) {
	obj := c.conn.Object(busName, dbus.ObjectPath(path))
	var raw []struct {
		Time  uint32
		Value float64
		State uint32
	}
	call := obj.CallWithContext(ctx, devInterface+".GetHistory", 0, string(kind), timespanSecs, resolution)
	if err := call.Store(&raw); err != nil {
		return nil, fmt.Errorf("failed to get %s history for %s: %w", kind, path, err)
	}
	entries := make([]HistoryEntry, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, HistoryEntry{
			Timestamp: e.Time,
			Value:     e.Value,
			State:     State(e.State),
		})
	}
	return entries, nil
}

// DeviceInfo reads the display fields of a device. Missing properties degrade
// to placeholder values so one bad device does not break a listing.
func (c *Client) DeviceInfo(ctx context.Context, path DevicePath) Info {
	info := Info{NativePath: "?", Model: "?", Serial: "?", Percentage: -1}

	var s string
	if err := c.prop(ctx, path, "NativePath", &s); err == nil {
		info.NativePath = s
	}
	if err := c.prop(ctx, path, "Model", &s); err == nil {
		info.Model = s
	}
	if err := c.prop(ctx, path, "Serial", &s); err == nil {
		info.Serial = s
	}
	var pct float64
	if err := c.prop(ctx, path, "Percentage", &pct); err == nil {
		info.Percentage = pct
	}
	return info
}

// prop reads one device property into dst.
func (c *Client) prop(ctx context.Context, path DevicePath, name string, dst interface{}) error {
	obj := c.conn.Object(busName, dbus.ObjectPath(path))
	var v dbus.Variant
	call := obj.CallWithContext(ctx, propInterface+".Get", 0, devInterface, name)
	if err := call.Store(&v); err != nil {
		return fmt.Errorf("failed to read property %s of %s: %w", name, path, err)
	}
	if err := v.Store(dst); err != nil {
		return fmt.Errorf("failed to decode property %s of %s: %w", name, path, err)
	}
	return nil
}
