package cycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"eyesbreak/internal/core/model"
	"eyesbreak/internal/core/session"
	"eyesbreak/internal/logging"

	"github.com/google/uuid"
)

// ErrClosed indicates the cycle has been shut down.
var ErrClosed = errors.New("cycle closed")

// Alerter shows a desktop notification.
type Alerter interface {
	Alert(title, body string)
}

// AlerterFunc adapts a function to the Alerter interface.
type AlerterFunc func(title, body string)

// Alert calls fn(title, body).
func (fn AlerterFunc) Alert(title, body string) {
	fn(title, body)
}

// Options contains runtime options for Cycle.
type Options struct {
	TickInterval time.Duration
	// Observer additionally receives every raw session event.
	Observer session.Notifier
}

// Cycle alternates work and break countdowns until stopped.
type Cycle struct {
	mu         sync.Mutex
	config     model.CycleConfig
	controller *session.Controller
	alerter    Alerter
	logger     *slog.Logger
	phase      Phase
	current    uuid.UUID
	events     []chan Event
	ctx        context.Context
	cancel     context.CancelFunc
	closed     bool
	// stopping is set by Stop and keeps a finished phase from rolling over.
	stopping   bool
}

// New creates a waiting Cycle with its own session controller.
func New(config model.CycleConfig, options Options, alerter Alerter, logger *slog.Logger) *Cycle {
	ctx, cancel := context.WithCancel(context.Background())
	cycle := &Cycle{
		config:  config,
		alerter: alerter,
		logger:  logging.OrDiscard(logger),
		phase:   PhaseWaiting,
		ctx:     ctx,
		cancel:  cancel,
	}
	notifiers := session.MultiNotifier{session.NotifierFunc(cycle.handle)}
	if options.Observer != nil {
		notifiers = append(notifiers, options.Observer)
	}
	cycle.controller = session.New(notifiers, session.Config{TickInterval: options.TickInterval}, logger)
	return cycle
}

// Controller exposes the underlying session controller.
func (cycle *Cycle) Controller() *session.Controller {
	return cycle.controller
}

// Phase returns the current phase.
func (cycle *Cycle) Phase() Phase {
	cycle.mu.Lock()
	defer cycle.mu.Unlock()
	return cycle.phase
}

// Config returns the active configuration.
func (cycle *Cycle) Config() model.CycleConfig {
	cycle.mu.Lock()
	defer cycle.mu.Unlock()
	return cycle.config
}

// UpdateConfig replaces the configuration. New durations apply from the next phase.
func (cycle *Cycle) UpdateConfig(config model.CycleConfig) {
	cycle.mu.Lock()
	cycle.config = config
	cycle.mu.Unlock()
}

// Subscribe registers a new observer channel.
func (cycle *Cycle) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	cycle.mu.Lock()
	defer cycle.mu.Unlock()
	if cycle.closed {
		close(ch)
		return ch
	}
	cycle.events = append(cycle.events, ch)
	return ch
}

// Toggle starts a work phase when waiting and stops the cycle otherwise.
func (cycle *Cycle) Toggle() error {
	if cycle.Phase() == PhaseWaiting {
		return cycle.Start()
	}
	cycle.Stop()
	return nil
}

// Start begins a work phase. It does nothing unless the cycle is waiting.
func (cycle *Cycle) Start() error {
	cycle.mu.Lock()
	if cycle.phase != PhaseWaiting {
		cycle.mu.Unlock()
		return nil
	}
	cycle.stopping = false
	cycle.mu.Unlock()
	return cycle.startPhase(PhaseWork)
}

// Stop cancels the running phase; the cycle returns to waiting once the
// cancellation is observed.
func (cycle *Cycle) Stop() {
	cycle.mu.Lock()
	if cycle.phase != PhaseWaiting {
		cycle.stopping = true
	}
	cycle.mu.Unlock()
	cycle.controller.Cancel()
}

// Close cancels any running phase and closes observers.
func (cycle *Cycle) Close() {
	cycle.mu.Lock()
	if cycle.closed {
		cycle.mu.Unlock()
		return
	}
	cycle.closed = true
	events := cycle.events
	cycle.events = nil
	cycle.mu.Unlock()

	cycle.cancel()
	for _, ch := range events {
		close(ch)
	}
}

func (cycle *Cycle) startPhase(phase Phase) error {
	cycle.mu.Lock()
	if cycle.closed {
		cycle.mu.Unlock()
		return ErrClosed
	}
	durationText := cycle.config.WorkTime
	if phase == PhaseBreak {
		durationText = cycle.config.BreakTime
	}
	cycle.phase = phase
	ctx := cycle.ctx
	cycle.mu.Unlock()

	run, err := cycle.controller.Start(ctx, durationText)
	if err != nil {
		cycle.mu.Lock()
		cycle.phase = PhaseWaiting
		cycle.current = uuid.Nil
		cycle.mu.Unlock()

		err = fmt.Errorf("start %s phase: %w", phase, err)
		cycle.logger.Warn("phase did not start", "phase", phase, "error", err)
		cycle.emit(Event{Type: EventError, Phase: phase, Err: err, At: time.Now()})
		cycle.emit(Event{Type: EventPhaseChange, Phase: PhaseWaiting, At: time.Now()})
		return err
	}

	// A Stop that found no active run between phases lands here.
	cycle.mu.Lock()
	stopping := cycle.stopping
	cycle.mu.Unlock()
	if stopping {
		run.Cancel()
	}
	return nil
}

// handle runs on the controller's goroutines and must not hold cycle.mu
// while starting the next phase.
func (cycle *Cycle) handle(event session.Event) error {
	switch event.Type {
	case session.EventStarted:
		cycle.mu.Lock()
		cycle.current = event.SessionID
		phase := cycle.phase
		cycle.mu.Unlock()

		cycle.logger.Info("phase started", "phase", phase, "duration", event.Remaining)
		cycle.emit(Event{
			Type:      EventPhaseChange,
			Phase:     phase,
			Remaining: event.Remaining,
			At:        event.At,
		})

	case session.EventTimeProgress:
		phase, ok := cycle.phaseOf(event.SessionID)
		if !ok {
			return nil
		}
		cycle.emit(Event{
			Type:       EventProgress,
			Phase:      phase,
			Percentage: event.Percentage,
			Remaining:  event.Remaining,
			At:         event.At,
		})

	case session.EventCompleted:
		phase, ok := cycle.phaseOf(event.SessionID)
		if !ok {
			return nil
		}
		next := PhaseWork
		if phase == PhaseWork {
			next = PhaseBreak
			cycle.alert("Break", "Time to rest your eyes")
		}
		if cycle.takeStop() {
			cycle.logger.Info("cycle stopped")
			cycle.emit(Event{Type: EventPhaseChange, Phase: PhaseWaiting, At: event.At})
			return nil
		}
		_ = cycle.startPhase(next)

	case session.EventCancelled:
		if _, ok := cycle.phaseOf(event.SessionID); !ok {
			return nil
		}
		cycle.mu.Lock()
		cycle.phase = PhaseWaiting
		cycle.current = uuid.Nil
		cycle.stopping = false
		cycle.mu.Unlock()

		cycle.logger.Info("cycle stopped")
		cycle.emit(Event{Type: EventPhaseChange, Phase: PhaseWaiting, At: event.At})
	}
	return nil
}

// takeStop moves the cycle to waiting if Stop was requested and reports
// whether it did.
func (cycle *Cycle) takeStop() bool {
	cycle.mu.Lock()
	defer cycle.mu.Unlock()
	stopping := cycle.stopping
	cycle.stopping = false
	if stopping {
		cycle.phase = PhaseWaiting
		cycle.current = uuid.Nil
	}
	return stopping
}

func (cycle *Cycle) phaseOf(id uuid.UUID) (Phase, bool) {
	cycle.mu.Lock()
	defer cycle.mu.Unlock()
	if id == uuid.Nil || id != cycle.current {
		return cycle.phase, false
	}
	return cycle.phase, true
}

func (cycle *Cycle) alert(title, body string) {
	cycle.mu.Lock()
	enabled := cycle.config.NotificationsEnabled
	cycle.mu.Unlock()
	if !enabled || cycle.alerter == nil {
		return
	}
	cycle.alerter.Alert(title, body)
}

func (cycle *Cycle) emit(event Event) {
	cycle.mu.Lock()
	defer cycle.mu.Unlock()
	if cycle.closed {
		return
	}
	for _, ch := range cycle.events {
		select {
		case ch <- event:
		default:
		}
	}
}
