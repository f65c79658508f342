package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Run is the handle for one countdown started by Controller.Start.
// Each run owns its cancellation token, so cancelling one run never
// affects another.
type Run struct {
	id        uuid.UUID
	total     uint64
	startedAt time.Time

	cancelled atomic.Bool
	wakeOnce  sync.Once
	wake      chan struct{}

	done    chan struct{}
	outcome State
}

func newRun(total uint64, startedAt time.Time) *Run {
	return &Run{
		id:        uuid.New(),
		total:     total,
		startedAt: startedAt,
		wake:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// ID returns the unique identifier carried by every event of this run.
func (run *Run) ID() uuid.UUID {
	return run.id
}

// Total returns the run length in milliseconds.
func (run *Run) Total() uint64 {
	return run.total
}

// StartedAt returns the instant the countdown began.
func (run *Run) StartedAt() time.Time {
	return run.startedAt
}

// Remaining returns the milliseconds left, or zero once the run has ended.
func (run *Run) Remaining() uint64 {
	select {
	case <-run.done:
		return 0
	default:
	}
	elapsed := time.Since(run.startedAt).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	if uint64(elapsed) >= run.total {
		return 0
	}
	return run.total - uint64(elapsed)
}

// Cancel requests cancellation. The loop observes it at its next tick.
// Calling Cancel on a finished run has no effect.
func (run *Run) Cancel() {
	run.cancelled.Store(true)
	run.wakeOnce.Do(func() {
		close(run.wake)
	})
}

// Done is closed once the run has completed or been cancelled.
func (run *Run) Done() <-chan struct{} {
	return run.done
}

// Outcome returns StateCompleted or StateCancelled after Done is closed,
// and StateRunning before.
func (run *Run) Outcome() State {
	select {
	case <-run.done:
		return run.outcome
	default:
		return StateRunning
	}
}

// Wait blocks until the run ends or ctx is done.
func (run *Run) Wait(ctx context.Context) (State, error) {
	select {
	case <-run.done:
		return run.outcome, nil
	case <-ctx.Done():
		return StateRunning, ctx.Err()
	}
}

func (run *Run) cancelRequested() bool {
	return run.cancelled.Load()
}

func (run *Run) finish(outcome State) {
	run.outcome = outcome
	close(run.done)
}
