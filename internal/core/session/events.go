package session

import (
	"time"

	"github.com/google/uuid"
)

// State represents the controller lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateStarting  State = "starting"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
	StateFailed    State = "failed"
)

// Terminal reports whether the state ends a run.
func (state State) Terminal() bool {
	return state == StateCompleted || state == StateCancelled || state == StateFailed
}

// EventType names a signal delivered to the notifier.
type EventType string

const (
	EventStarted      EventType = "session-started"
	EventError        EventType = "session-error"
	EventProgress     EventType = "session-progress"
	EventTimeProgress EventType = "session-time-progress"
	EventCancelled    EventType = "session-cancelled"
	EventCompleted    EventType = "session-completed"
)

// Event is a single lifecycle or progress notification.
//
// Progress ticks are delivered as an EventProgress followed by an
// EventTimeProgress carrying the same measurements.
type Event struct {
	Type        EventType
	SessionID   uuid.UUID
	Percentage  float64
	Remaining   string
	RemainingMs uint64
	Err         error
	At          time.Time
}
