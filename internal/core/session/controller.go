package session

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"eyesbreak/internal/core/clocktext"
	"eyesbreak/internal/logging"
)

// DefaultTickInterval is the countdown cadence.
const DefaultTickInterval = 100 * time.Millisecond

// noProgress is below any real percentage so the first tick always emits.
const noProgress = -1.0

// Config contains runtime options for the Controller.
type Config struct {
	TickInterval time.Duration
}

// Controller drives a single active countdown and reports its lifecycle
// to a Notifier.
type Controller struct {
	mu       sync.Mutex
	options  Config
	notifier Notifier
	logger   *slog.Logger
	state    State
	last     State
	active   *Run
}

// New creates an idle Controller. A nil notifier discards events.
func New(notifier Notifier, options Config, logger *slog.Logger) *Controller {
	if options.TickInterval <= 0 {
		options.TickInterval = DefaultTickInterval
	}
	return &Controller{
		options:  options,
		notifier: notifier,
		logger:   logging.OrDiscard(logger),
		state:    StateIdle,
		last:     StateIdle,
	}
}

// State returns the controller state.
func (controller *Controller) State() State {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.state
}

// LastOutcome returns the terminal state of the most recent session:
// StateFailed, StateCompleted or StateCancelled. It is StateIdle before
// any session has ended.
func (controller *Controller) LastOutcome() State {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.last
}

// Active returns the running countdown, or nil when idle.
func (controller *Controller) Active() *Run {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.active
}

// Start parses durationText and launches a countdown for it.
//
// An unparsable duration emits EventError and returns the clocktext error;
// any countdown already running is left alone in that case. A valid
// duration supersedes the running countdown, which reports
// EventCancelled on its next tick. Cancelling ctx cancels the new run.
func (controller *Controller) Start(ctx context.Context, durationText string) (*Run, error) {
	controller.mu.Lock()
	if controller.active == nil {
		controller.state = StateStarting
	}
	controller.mu.Unlock()

	total, err := clocktext.Parse(durationText)
	if err != nil {
		controller.mu.Lock()
		if controller.active == nil {
			controller.state = StateIdle
		}
		controller.last = StateFailed
		controller.mu.Unlock()

		controller.logger.Info("session did not start", "duration", durationText, "error", err)
		controller.emit(Event{
			Type: EventError,
			Err:  err,
			At:   time.Now(),
		})
		return nil, err
	}

	run := newRun(total, time.Now())

	controller.mu.Lock()
	previous := controller.active
	controller.active = run
	controller.state = StateRunning
	controller.mu.Unlock()

	if previous != nil {
		controller.logger.Info("session superseded", "id", previous.ID())
		previous.Cancel()
	}

	controller.logger.Info("session started", "id", run.ID(), "duration", durationText, "total_ms", total)
	controller.emit(Event{
		Type:        EventStarted,
		SessionID:   run.ID(),
		RemainingMs: total,
		Remaining:   clocktext.Format(total),
		At:          run.StartedAt(),
	})

	go controller.run(ctx, run)
	return run, nil
}

// Cancel requests cancellation of the running countdown. It is a no-op
// when nothing is running and never influences a later Start.
func (controller *Controller) Cancel() {
	controller.mu.Lock()
	run := controller.active
	controller.mu.Unlock()

	if run == nil {
		controller.logger.Debug("cancel requested with no active session")
		return
	}
	run.Cancel()
}

func (controller *Controller) run(ctx context.Context, run *Run) {
	ticker := time.NewTicker(controller.options.TickInterval)
	defer ticker.Stop()

	lastEmitted := noProgress
	for {
		// Cancellation is checked before progress so nothing follows a cancel.
		if run.cancelRequested() || ctx.Err() != nil {
			controller.finish(run, StateCancelled)
			return
		}

		elapsed := time.Since(run.startedAt).Milliseconds()
		if elapsed < 0 {
			elapsed = 0
		}
		elapsedMs := uint64(elapsed)
		if elapsedMs >= run.total {
			controller.finish(run, StateCompleted)
			return
		}

		remainingMs := run.total - elapsedMs
		percentage := math.Min(100, float64(elapsedMs)/float64(run.total)*100)
		if math.Abs(percentage-lastEmitted) >= 1 {
			controller.emitProgress(run, percentage, remainingMs)
			lastEmitted = percentage
		}

		select {
		case <-ticker.C:
		case <-run.wake:
		case <-ctx.Done():
		}
	}
}

func (controller *Controller) emitProgress(run *Run, percentage float64, remainingMs uint64) {
	now := time.Now()
	remaining := clocktext.Format(remainingMs)
	controller.emit(Event{
		Type:        EventProgress,
		SessionID:   run.ID(),
		Percentage:  percentage,
		Remaining:   remaining,
		RemainingMs: remainingMs,
		At:          now,
	})
	controller.emit(Event{
		Type:        EventTimeProgress,
		SessionID:   run.ID(),
		Percentage:  percentage,
		Remaining:   remaining,
		RemainingMs: remainingMs,
		At:          now,
	})
}

func (controller *Controller) finish(run *Run, outcome State) {
	event := Event{
		SessionID: run.ID(),
		At:        time.Now(),
	}
	if outcome == StateCompleted {
		event.Type = EventCompleted
		event.Percentage = 100
		event.Remaining = clocktext.Format(0)
	} else {
		event.Type = EventCancelled
		event.RemainingMs = run.Remaining()
		event.Remaining = clocktext.Format(event.RemainingMs)
	}

	// Release the controller first so observers may Start from the terminal event.
	controller.mu.Lock()
	if controller.active == run {
		controller.active = nil
		controller.state = StateIdle
		controller.last = outcome
	}
	controller.mu.Unlock()

	controller.logger.Info("session ended", "id", run.ID(), "outcome", outcome)
	controller.emit(event)
	run.finish(outcome)
}

func (controller *Controller) emit(event Event) {
	if controller.notifier == nil {
		return
	}
	if err := controller.notifier.Notify(event); err != nil {
		controller.logger.Debug("notify failed", "event", event.Type, "error", err)
	}
}
