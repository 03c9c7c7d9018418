package uiserver

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powerisland/internal/activity"
)

func TestChannelServerDeliversCommands(t *testing.T) {
	s := NewChannelServer(4)
	id := activity.NewIdentifier("power", "power-activity", "main", 0)
	widget := uuid.New()

	require.NoError(t, s.AddActivity(id, widget))
	require.NoError(t, s.RemoveActivity(id))

	cmd := <-s.Commands()
	assert.Equal(t, OpAdd, cmd.Op)
	assert.Equal(t, id, cmd.ID)
	assert.Equal(t, widget, cmd.Widget)

	cmd = <-s.Commands()
	assert.Equal(t, OpRemove, cmd.Op)
	assert.Equal(t, id, cmd.ID)
}

func TestChannelServerDropsWhenFull(t *testing.T) {
	s := NewChannelServer(1)
	id := activity.NewIdentifier("power", "power-activity", "main", 0)

	require.NoError(t, s.AddActivity(id, uuid.New()))
	// The buffer is full; the next command is dropped, not blocked on.
	require.NoError(t, s.RemoveActivity(id))

	cmd := <-s.Commands()
	assert.Equal(t, OpAdd, cmd.Op)

	select {
	case cmd := <-s.Commands():
		t.Fatalf("unexpected buffered command %+v", cmd)
	default:
	}
}

func TestLogServerNeverFails(t *testing.T) {
	var s LogServer
	id := activity.NewIdentifier("power", "power-activity", "main", 0)

	assert.NoError(t, s.AddActivity(id, uuid.New()))
	assert.NoError(t, s.RemoveActivity(id))
}
