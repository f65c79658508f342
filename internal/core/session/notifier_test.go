package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcasterDeliversToSubscribers(t *testing.T) {
	broadcaster := NewBroadcaster()
	first := broadcaster.Subscribe(2)
	second := broadcaster.Subscribe(2)

	require.NoError(t, broadcaster.Notify(Event{Type: EventStarted}))

	assert.Equal(t, EventStarted, (<-first).Type)
	assert.Equal(t, EventStarted, (<-second).Type)
}

func TestBroadcasterDropsWhenBufferFull(t *testing.T) {
	broadcaster := NewBroadcaster()
	ch := broadcaster.Subscribe(1)

	require.NoError(t, broadcaster.Notify(Event{Type: EventProgress, Percentage: 1}))
	require.NoError(t, broadcaster.Notify(Event{Type: EventProgress, Percentage: 2}))

	assert.Equal(t, 1.0, (<-ch).Percentage)
	assert.Empty(t, ch)
}

func TestBroadcasterClose(t *testing.T) {
	broadcaster := NewBroadcaster()
	ch := broadcaster.Subscribe(0)

	broadcaster.Close()
	broadcaster.Close()

	_, ok := <-ch
	assert.False(t, ok)
	assert.ErrorIs(t, broadcaster.Notify(Event{Type: EventCompleted}), ErrClosed)

	late := broadcaster.Subscribe(1)
	_, ok = <-late
	assert.False(t, ok)
}

func TestMultiNotifierJoinsErrors(t *testing.T) {
	errFirst := errors.New("first")
	var delivered []EventType
	notifiers := MultiNotifier{
		NotifierFunc(func(Event) error { return errFirst }),
		nil,
		NotifierFunc(func(event Event) error {
			delivered = append(delivered, event.Type)
			return nil
		}),
	}

	err := notifiers.Notify(Event{Type: EventCancelled})
	assert.ErrorIs(t, err, errFirst)
	assert.Equal(t, []EventType{EventCancelled}, delivered)

	assert.NoError(t, MultiNotifier{}.Notify(Event{}))
}
