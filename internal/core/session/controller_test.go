package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"eyesbreak/internal/core/clocktext"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTick = 5 * time.Millisecond

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (rec *recorder) Notify(event Event) error {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.events = append(rec.events, event)
	return nil
}

func (rec *recorder) snapshot() []Event {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]Event(nil), rec.events...)
}

func (rec *recorder) count(eventType EventType) int {
	total := 0
	for _, event := range rec.snapshot() {
		if event.Type == eventType {
			total++
		}
	}
	return total
}

func waitOutcome(t *testing.T, run *Run) State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	outcome, err := run.Wait(ctx)
	require.NoError(t, err)
	return outcome
}

func TestStartRunsToCompletion(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	controller := New(rec, Config{TickInterval: testTick}, nil)

	run, err := controller.Start(context.Background(), "00:00:01")
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), run.Total())
	assert.Equal(t, StateRunning, controller.State())
	assert.Same(t, run, controller.Active())

	assert.Equal(t, StateCompleted, waitOutcome(t, run))
	assert.Equal(t, StateIdle, controller.State())
	assert.Equal(t, StateCompleted, controller.LastOutcome())
	assert.Nil(t, controller.Active())

	events := rec.snapshot()
	require.NotEmpty(t, events)
	assert.Equal(t, EventStarted, events[0].Type)
	assert.Equal(t, EventCompleted, events[len(events)-1].Type)
	assert.Zero(t, rec.count(EventCancelled))
	assert.Equal(t, rec.count(EventProgress), rec.count(EventTimeProgress))
	assert.LessOrEqual(t, rec.count(EventProgress), 101)

	lastPercentage := -1.0
	var lastRemaining uint64 = run.Total() + 1
	for i, event := range events {
		assert.Equal(t, run.ID(), event.SessionID)
		if event.Type != EventProgress {
			continue
		}
		require.Less(t, i+1, len(events))
		paired := events[i+1]
		assert.Equal(t, EventTimeProgress, paired.Type)
		assert.Equal(t, clocktext.Format(event.RemainingMs), paired.Remaining)

		assert.GreaterOrEqual(t, event.Percentage-lastPercentage, 1.0)
		assert.LessOrEqual(t, event.Percentage, 100.0)
		assert.Less(t, event.RemainingMs, lastRemaining)
		lastPercentage = event.Percentage
		lastRemaining = event.RemainingMs
	}
}

func TestStartRejectsInvalidDuration(t *testing.T) {
	t.Parallel()
	cases := map[string]error{
		"invalid":  clocktext.ErrInvalidFormat,
		"1:2:3:4":  clocktext.ErrInvalidFormat,
		"00:60:00": clocktext.ErrOutOfRange,
		"00:00:00": clocktext.ErrOutOfRange,
	}
	for text, want := range cases {
		rec := &recorder{}
		controller := New(rec, Config{TickInterval: testTick}, nil)

		run, err := controller.Start(context.Background(), text)
		assert.Nil(t, run)
		assert.ErrorIs(t, err, want)
		assert.Equal(t, StateIdle, controller.State())
		assert.Equal(t, StateFailed, controller.LastOutcome())

		events := rec.snapshot()
		require.Len(t, events, 1)
		assert.Equal(t, EventError, events[0].Type)
		assert.ErrorIs(t, events[0].Err, want)
	}
}

func TestCancelStopsRunWithoutCompletion(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	controller := New(rec, Config{TickInterval: testTick}, nil)

	run, err := controller.Start(context.Background(), "00:00:10")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return rec.count(EventProgress) > 0
	}, time.Second, time.Millisecond)

	before := len(rec.snapshot())
	controller.Cancel()
	assert.Equal(t, StateCancelled, waitOutcome(t, run))
	assert.Equal(t, StateCancelled, controller.LastOutcome())
	assert.Equal(t, StateIdle, controller.State())

	after := rec.snapshot()[before:]
	require.NotEmpty(t, after)
	assert.Equal(t, EventCancelled, after[len(after)-1].Type)
	assert.LessOrEqual(t, len(after), 3)
	for _, event := range after {
		assert.NotEqual(t, EventCompleted, event.Type)
	}

	time.Sleep(5 * testTick)
	assert.Len(t, rec.snapshot(), before+len(after))
}

func TestFirstTickEmitsFromZero(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	controller := New(rec, Config{TickInterval: testTick}, nil)

	run, err := controller.Start(context.Background(), "00:01:40")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return rec.count(EventTimeProgress) > 0
	}, time.Second, time.Millisecond)
	run.Cancel()
	waitOutcome(t, run)

	for _, event := range rec.snapshot() {
		if event.Type == EventProgress {
			assert.Less(t, event.Percentage, 1.0)
			assert.Contains(t, []string{"01:40", "01:39"}, event.Remaining)
			break
		}
	}
}

func TestCancelWithoutSessionIsHarmless(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	controller := New(rec, Config{TickInterval: testTick}, nil)

	controller.Cancel()
	controller.Cancel()
	assert.Empty(t, rec.snapshot())

	run, err := controller.Start(context.Background(), "00:00:01")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, waitOutcome(t, run))
}

func TestStartSupersedesActiveRun(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	controller := New(rec, Config{TickInterval: testTick}, nil)

	first, err := controller.Start(context.Background(), "00:00:30")
	require.NoError(t, err)
	second, err := controller.Start(context.Background(), "00:00:01")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())

	assert.Equal(t, StateCancelled, waitOutcome(t, first))
	assert.Equal(t, StateRunning, controller.State())
	assert.Equal(t, StateCompleted, waitOutcome(t, second))

	for _, event := range rec.snapshot() {
		if event.SessionID == first.ID() {
			assert.NotEqual(t, EventCompleted, event.Type)
		}
	}
}

func TestInvalidStartKeepsActiveRun(t *testing.T) {
	t.Parallel()
	controller := New(nil, Config{TickInterval: testTick}, nil)

	run, err := controller.Start(context.Background(), "00:00:30")
	require.NoError(t, err)
	_, err = controller.Start(context.Background(), "bogus")
	require.Error(t, err)

	assert.Equal(t, StateRunning, controller.State())
	assert.Same(t, run, controller.Active())
	assert.Equal(t, StateRunning, run.Outcome())

	controller.Cancel()
	assert.Equal(t, StateCancelled, waitOutcome(t, run))
}

func TestContextCancellationCancelsRun(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	controller := New(rec, Config{TickInterval: testTick}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	run, err := controller.Start(ctx, "00:00:30")
	require.NoError(t, err)
	cancel()

	assert.Equal(t, StateCancelled, waitOutcome(t, run))
	assert.Equal(t, 1, rec.count(EventCancelled))
	assert.Zero(t, run.Remaining())
}

func TestNotifierErrorsDoNotInterruptCountdown(t *testing.T) {
	t.Parallel()
	var calls int
	var mu sync.Mutex
	failing := NotifierFunc(func(Event) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return errors.New("window closed")
	})
	controller := New(failing, Config{TickInterval: testTick}, nil)

	run, err := controller.Start(context.Background(), "00:00:01")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, waitOutcome(t, run))

	mu.Lock()
	defer mu.Unlock()
	assert.Greater(t, calls, 2)
}

func TestNewDefaultsTickInterval(t *testing.T) {
	controller := New(nil, Config{}, nil)
	assert.Equal(t, DefaultTickInterval, controller.options.TickInterval)
	assert.Equal(t, StateIdle, controller.State())
	assert.Equal(t, StateIdle, controller.LastOutcome())
}

func TestStateTerminal(t *testing.T) {
	assert.True(t, StateCompleted.Terminal())
	assert.True(t, StateCancelled.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateRunning.Terminal())
	assert.False(t, StateIdle.Terminal())
}
