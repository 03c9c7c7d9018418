package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestActivity() *Activity {
	return New(NewIdentifier("power", "power-activity", "main", 0))
}

func TestDeclarePropAndGet(t *testing.T) {
	act := newTestActivity()

	p, err := DeclareProp(act, "percentage", 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.5, p.Get())

	got, err := Prop[float64](act, "percentage")
	require.NoError(t, err)
	assert.Same(t, p, got)
}

func TestDeclarePropTwiceFails(t *testing.T) {
	act := newTestActivity()

	_, err := DeclareProp(act, "charging", false)
	require.NoError(t, err)

	_, err = DeclareProp(act, "charging", true)
	assert.Error(t, err)
}

func TestPropUndeclared(t *testing.T) {
	act := newTestActivity()

	_, err := Prop[bool](act, "missing")
	assert.Error(t, err)
}

func TestPropWrongType(t *testing.T) {
	act := newTestActivity()

	_, err := DeclareProp(act, "percentage", 0.5)
	require.NoError(t, err)

	_, err = Prop[string](act, "percentage")
	assert.Error(t, err)
}

func TestPropertySetNotifiesSubscribers(t *testing.T) {
	act := newTestActivity()

	p, err := DeclareProp(act, "percentage", 0.0)
	require.NoError(t, err)

	first := p.Subscribe()
	second := p.Subscribe()

	p.Set(0.25)
	p.Set(0.5)

	for _, ch := range []<-chan float64{first, second} {
		select {
		case v := <-ch:
			assert.Equal(t, 0.25, v)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for first update")
		}
		select {
		case v := <-ch:
			assert.Equal(t, 0.5, v)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for second update")
		}
	}

	assert.Equal(t, 0.5, p.Get())
}

func TestPropertySetNeverBlocks(t *testing.T) {
	act := newTestActivity()

	p, err := DeclareProp(act, "percentage", 0.0)
	require.NoError(t, err)
	p.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			p.Set(float64(i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Set blocked on an undrained subscriber")
	}
	assert.Equal(t, 99.0, p.Get())
}

func TestPropertyNames(t *testing.T) {
	act := newTestActivity()

	_, err := DeclareProp(act, "percentage", 0.0)
	require.NoError(t, err)
	_, err = DeclareProp(act, "charging", false)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"percentage", "charging"}, act.PropertyNames())
}
