package producer

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeSpawnAndShutdown(t *testing.T) {
	rt := New()

	var exited atomic.Int32
	for i := 0; i < 3; i++ {
		rt.Spawn("task", func(ctx context.Context) {
			<-ctx.Done()
			exited.Add(1)
		})
	}

	require.NoError(t, rt.Shutdown())
	assert.Equal(t, int32(3), exited.Load())
}

func TestRuntimeShutdownTimeout(t *testing.T) {
	rt := New()
	rt.SetShutdownTimeout(20 * time.Millisecond)

	release := make(chan struct{})
	rt.Spawn("stuck", func(ctx context.Context) {
		<-release
	})

	err := rt.Shutdown()
	var timeoutErr *ShutdownTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 20*time.Millisecond, timeoutErr.Timeout)

	close(release)
}

func TestRuntimeRegisterProducerInvokesImmediately(t *testing.T) {
	rt := New()

	var invocations atomic.Int32
	rt.RegisterProducer(func() {
		invocations.Add(1)
	})

	assert.Equal(t, int32(1), invocations.Load())
}

func TestRuntimeRestartReinvokesProducers(t *testing.T) {
	rt := New()

	var invocations atomic.Int32
	var genMu sync.Mutex
	var generations []context.Context

	rt.RegisterProducer(func() {
		invocations.Add(1)
		rt.Spawn("worker", func(ctx context.Context) {
			genMu.Lock()
			generations = append(generations, ctx)
			genMu.Unlock()
			<-ctx.Done()
		})
	})

	rt.Restart()
	assert.Equal(t, int32(2), invocations.Load())

	require.NoError(t, rt.Shutdown())

	require.Len(t, generations, 2)
	assert.NotSame(t, generations[0], generations[1], "restart must hand out a fresh generation context")
	for _, ctx := range generations {
		assert.Error(t, ctx.Err())
	}
}

func TestRuntimeResetIsolatesGenerations(t *testing.T) {
	rt := New()

	first := make(chan struct{})
	rt.Spawn("old", func(ctx context.Context) {
		<-ctx.Done()
		close(first)
	})

	require.NoError(t, rt.Shutdown())
	rt.Reset()

	select {
	case <-first:
	case <-time.After(time.Second):
		t.Fatal("old generation task did not observe cancellation")
	}

	// Tasks spawned after Reset run under the new generation and are not
	// affected by the old cancellation.
	alive := make(chan struct{})
	rt.Spawn("new", func(ctx context.Context) {
		select {
		case <-ctx.Done():
		case <-alive:
		}
	})

	time.Sleep(20 * time.Millisecond)
	close(alive)
	require.NoError(t, rt.Shutdown())
}
