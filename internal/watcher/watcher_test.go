package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powerisland/internal/activity"
	"powerisland/internal/upower"
)

// fakeBus is an in-memory Bus whose device population can change between
// polls.
type fakeBus struct {
	mu         sync.Mutex
	names      map[upower.DevicePath]string
	display    upower.DevicePath
	enumErr    error
	displayErr error
	snapshots  map[upower.DevicePath]upower.Snapshot
	history    []upower.HistoryEntry
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		names:     make(map[upower.DevicePath]string),
		snapshots: make(map[upower.DevicePath]upower.Snapshot),
		display:   "/fake/DisplayDevice",
	}
}

func (b *fakeBus) addDevice(path upower.DevicePath, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.names[path] = name
}

func (b *fakeBus) removeDevice(path upower.DevicePath) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.names, path)
}

func (b *fakeBus) EnumerateDevices(ctx context.Context) ([]upower.DevicePath, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.enumErr != nil {
		return nil, b.enumErr
	}
	paths := make([]upower.DevicePath, 0, len(b.names))
	for p := range b.names {
		paths = append(paths, p)
	}
	return paths, nil
}

func (b *fakeBus) DeviceName(ctx context.Context, path upower.DevicePath) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	name, ok := b.names[path]
	if !ok {
		return "", errors.New("no such device")
	}
	return name, nil
}

func (b *fakeBus) DisplayDevice(ctx context.Context) (upower.DevicePath, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.displayErr != nil {
		return "", b.displayErr
	}
	return b.display, nil
}

func (b *fakeBus) DeviceSnapshot(ctx context.Context, path upower.DevicePath) (upower.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	snap, ok := b.snapshots[path]
	if !ok {
		return upower.Snapshot{}, errors.New("no such device")
	}
	return snap, nil
}

func (b *fakeBus) DeviceHistory(ctx context.Context, path upower.DevicePath, kind upower.HistoryType, timespanSecs, resolution uint32) ([]upower.HistoryEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history, nil
}

func testIdentifier() activity.Identifier {
	return activity.NewIdentifier("power", "power-activity", "main", 0)
}

func recvIdentity(t *testing.T, stream *IdentityStream) Identity {
	t.Helper()
	select {
	case id, ok := <-stream.Recv():
		require.True(t, ok, "identity stream closed unexpectedly")
		return id
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for identity event")
		return Identity{}
	}
}

func recvRegistration(t *testing.T, regs chan Registration) Registration {
	t.Helper()
	select {
	case reg := <-regs:
		return reg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for registration event")
		return Registration{}
	}
}

func assertNoIdentity(t *testing.T, stream *IdentityStream) {
	t.Helper()
	select {
	case id, ok := <-stream.Recv():
		if ok {
			t.Fatalf("unexpected identity event: %+v", id)
		}
	default:
	}
}

func assertNoRegistration(t *testing.T, regs chan Registration) {
	t.Helper()
	select {
	case reg := <-regs:
		t.Fatalf("unexpected registration event: %+v", reg)
	default:
	}
}

func TestWatcherAggregateSentinel(t *testing.T) {
	bus := newFakeBus()
	stream := NewIdentityStream()
	regs := make(chan Registration, 4)

	w := New(testIdentifier(), "", false, bus, stream, regs)

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()

	id := recvIdentity(t, stream)
	assert.Equal(t, Identity{Handle: bus.display, Present: true}, id)

	reg := recvRegistration(t, regs)
	assert.True(t, reg.Register)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("aggregate watcher did not terminate after reporting")
	}

	// The stream must be closed on exit.
	_, ok := <-stream.Recv()
	assert.False(t, ok)
}

func TestWatcherAggregateRetriesOnBusError(t *testing.T) {
	bus := newFakeBus()
	bus.displayErr = errors.New("bus down")
	stream := NewIdentityStream()
	regs := make(chan Registration, 4)

	w := New(testIdentifier(), "", false, bus, stream, regs)
	w.SetPollInterval(10 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	bus.mu.Lock()
	bus.displayErr = nil
	bus.mu.Unlock()

	id := recvIdentity(t, stream)
	assert.Equal(t, Identity{Handle: bus.display, Present: true}, id)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("aggregate watcher did not terminate after bus recovered")
	}
}

func TestWatcherFoundTransition(t *testing.T) {
	bus := newFakeBus()
	bus.addDevice("/fake/BAT0", "BAT0")
	stream := NewIdentityStream()
	regs := make(chan Registration, 4)

	w := New(testIdentifier(), "BAT0", false, bus, stream, regs)
	w.poll(context.Background())

	id := recvIdentity(t, stream)
	assert.Equal(t, Identity{Handle: "/fake/BAT0", Present: true}, id)

	reg := recvRegistration(t, regs)
	assert.True(t, reg.Register)
	assert.Equal(t, testIdentifier(), reg.ID)

	// The same device on the next poll produces nothing.
	w.poll(context.Background())
	assertNoIdentity(t, stream)
	assertNoRegistration(t, regs)
}

func TestWatcherMatchesByPath(t *testing.T) {
	bus := newFakeBus()
	bus.addDevice("/fake/battery_BAT1", "BAT1")
	stream := NewIdentityStream()
	regs := make(chan Registration, 4)

	w := New(testIdentifier(), "/fake/battery_BAT1", false, bus, stream, regs)
	w.poll(context.Background())

	id := recvIdentity(t, stream)
	assert.Equal(t, upower.DevicePath("/fake/battery_BAT1"), id.Handle)
	assert.True(t, id.Present)
}

func TestWatcherSearchingStaysSilent(t *testing.T) {
	bus := newFakeBus()
	stream := NewIdentityStream()
	regs := make(chan Registration, 4)

	w := New(testIdentifier(), "BAT0", false, bus, stream, regs)
	for i := 0; i < 3; i++ {
		w.poll(context.Background())
	}

	assertNoIdentity(t, stream)
	assertNoRegistration(t, regs)
}

func TestWatcherDisappearanceWithoutHysteresis(t *testing.T) {
	bus := newFakeBus()
	bus.addDevice("/fake/BAT0", "BAT0")
	stream := NewIdentityStream()
	regs := make(chan Registration, 4)

	w := New(testIdentifier(), "BAT0", false, bus, stream, regs)
	w.poll(context.Background())
	recvIdentity(t, stream)
	recvRegistration(t, regs)

	bus.removeDevice("/fake/BAT0")
	w.poll(context.Background())

	id := recvIdentity(t, stream)
	assert.Equal(t, Identity{}, id, "absent identity expected when hysteresis is off")

	reg := recvRegistration(t, regs)
	assert.False(t, reg.Register)
}

func TestWatcherDisappearanceKeepsRegistered(t *testing.T) {
	bus := newFakeBus()
	bus.addDevice("/fake/BAT0", "BAT0")
	stream := NewIdentityStream()
	regs := make(chan Registration, 4)

	w := New(testIdentifier(), "BAT0", true, bus, stream, regs)
	w.poll(context.Background())
	recvIdentity(t, stream)
	recvRegistration(t, regs)

	bus.removeDevice("/fake/BAT0")
	w.poll(context.Background())

	id := recvIdentity(t, stream)
	assert.Equal(t, Identity{Handle: bus.display, Present: true}, id,
		"keep-registered watcher substitutes the aggregate device")

	reg := recvRegistration(t, regs)
	assert.True(t, reg.Register)
}

func TestWatcherDisappearanceAggregateFailure(t *testing.T) {
	bus := newFakeBus()
	bus.addDevice("/fake/BAT0", "BAT0")
	stream := NewIdentityStream()
	regs := make(chan Registration, 4)

	w := New(testIdentifier(), "BAT0", true, bus, stream, regs)
	w.poll(context.Background())
	recvIdentity(t, stream)
	recvRegistration(t, regs)

	bus.removeDevice("/fake/BAT0")
	bus.displayErr = errors.New("bus down")
	w.poll(context.Background())

	id := recvIdentity(t, stream)
	assert.Equal(t, Identity{}, id, "aggregate failure degrades to an absent identity")

	reg := recvRegistration(t, regs)
	assert.True(t, reg.Register)
}

func TestWatcherEnumerateErrorCountsAsDisappearance(t *testing.T) {
	bus := newFakeBus()
	bus.addDevice("/fake/BAT0", "BAT0")
	stream := NewIdentityStream()
	regs := make(chan Registration, 4)

	w := New(testIdentifier(), "BAT0", false, bus, stream, regs)
	w.poll(context.Background())
	recvIdentity(t, stream)
	recvRegistration(t, regs)

	bus.enumErr = errors.New("bus down")
	w.poll(context.Background())

	id := recvIdentity(t, stream)
	assert.Equal(t, Identity{}, id)

	reg := recvRegistration(t, regs)
	assert.False(t, reg.Register)
}

func TestWatcherNeverRepeatsIdentity(t *testing.T) {
	bus := newFakeBus()
	bus.display = "/fake/BAT0"
	bus.addDevice("/fake/BAT0", "BAT0")
	stream := NewIdentityStream()
	regs := make(chan Registration, 4)

	w := New(testIdentifier(), "BAT0", true, bus, stream, regs)
	w.poll(context.Background())
	assert.Equal(t, Identity{Handle: "/fake/BAT0", Present: true}, recvIdentity(t, stream))
	recvRegistration(t, regs)

	// The device disappears, but the aggregate fallback resolves to the same
	// handle: the identity must not be emitted again.
	bus.removeDevice("/fake/BAT0")
	w.poll(context.Background())
	assertNoIdentity(t, stream)
	assert.True(t, recvRegistration(t, regs).Register)

	// Same on rediscovery.
	bus.addDevice("/fake/BAT0", "BAT0")
	w.poll(context.Background())
	assertNoIdentity(t, stream)
	assert.True(t, recvRegistration(t, regs).Register)
}

func TestWatcherReceiverGone(t *testing.T) {
	tests := []struct {
		name           string
		keepRegistered bool
	}{
		{name: "keep registered", keepRegistered: true},
		{name: "unregister", keepRegistered: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newFakeBus()
			bus.addDevice("/fake/BAT0", "BAT0")
			stream := NewIdentityStream()
			regs := make(chan Registration, 4)

			// The consumer is gone before the device is found.
			stream.Close()

			w := New(testIdentifier(), "BAT0", tt.keepRegistered, bus, stream, regs)
			w.poll(context.Background())

			reg := recvRegistration(t, regs)
			assert.Equal(t, tt.keepRegistered, reg.Register)
		})
	}
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	bus := newFakeBus()
	stream := NewIdentityStream()
	regs := make(chan Registration, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := New(testIdentifier(), "BAT0", false, bus, stream, regs)

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}

	_, ok := <-stream.Recv()
	assert.False(t, ok, "stream must be closed when the watcher exits")
}
