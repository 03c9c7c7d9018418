package producer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"powerisland/pkg/logging"
)

// DefaultShutdownTimeout bounds how long Shutdown waits for tasks to exit.
const DefaultShutdownTimeout = 5 * time.Second

// Producer is a start function invoked to spawn one generation's tasks.
// Producers are re-invoked on every restart.
type Producer func()

// ShutdownTimeoutError reports that one generation's tasks did not exit
// within the shutdown deadline. Reset proceeds regardless; the stragglers may
// still be draining but can no longer reach a live generation.
type ShutdownTimeoutError struct {
	Timeout time.Duration
}

func (e *ShutdownTimeoutError) Error() string {
	return fmt.Sprintf("producer tasks did not exit within %s", e.Timeout)
}

// Runtime owns the set of concurrently running watcher and coordinator tasks
// for one generation. Cancellation is broadcast through the generation
// context; tasks observe it cooperatively, once per poll or queue wait.
type Runtime struct {
	mu              sync.Mutex
	ctx             context.Context
	cancel          context.CancelFunc
	wg              *sync.WaitGroup
	producers       []Producer
	shutdownTimeout time.Duration
}

// New creates a runtime with an empty first generation.
func New() *Runtime {
	r := &Runtime{shutdownTimeout: DefaultShutdownTimeout}
	r.Reset()
	return r
}

// SetShutdownTimeout overrides the shutdown deadline.
func (r *Runtime) SetShutdownTimeout(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shutdownTimeout = d
}

// RegisterProducer records a start function to be invoked now and on every
// restart.
func (r *Runtime) RegisterProducer(p Producer) {
	r.mu.Lock()
	r.producers = append(r.producers, p)
	r.mu.Unlock()
	p()
}

// Spawn runs a task under the current generation. The task must exit when its
// context is cancelled.
func (r *Runtime) Spawn(name string, task func(ctx context.Context)) {
	r.mu.Lock()
	ctx := r.ctx
	wg := r.wg
	r.mu.Unlock()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logging.Debug("ProducerRuntime", "Task %s started", name)
		task(ctx)
		logging.Debug("ProducerRuntime", "Task %s exited", name)
	}()
}

// Shutdown broadcasts cancellation to the current generation and waits for
// its tasks to exit or the shutdown deadline to elapse.
func (r *Runtime) Shutdown() error {
	r.mu.Lock()
	cancel := r.cancel
	wg := r.wg
	timeout := r.shutdownTimeout
	r.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return &ShutdownTimeoutError{Timeout: timeout}
	}
}

// Reset discards the current generation's task set and allocates a fresh
// empty one. It does not signal the old generation; call Shutdown first.
func (r *Runtime) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.wg = &sync.WaitGroup{}
}

// Restart replaces the current generation wholesale: shutdown, reset, then
// re-invoke every registered producer so a new generation of tasks is spawned
// against the current configuration.
func (r *Runtime) Restart() {
	if err := r.Shutdown(); err != nil {
		logging.Warn("ProducerRuntime", "Shutdown before restart incomplete: %v", err)
	}
	r.Reset()

	r.mu.Lock()
	producers := make([]Producer, len(r.producers))
	copy(producers, r.producers)
	r.mu.Unlock()

	for _, p := range producers {
		p()
	}
}
