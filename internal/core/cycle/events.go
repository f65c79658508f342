package cycle

import "time"

// Phase represents the current position in the work/break cycle.
type Phase string

const (
	PhaseWaiting Phase = "waiting"
	PhaseWork    Phase = "work"
	PhaseBreak   Phase = "break"
)

// EventType defines the type of Cycle event.
type EventType string

const (
	EventPhaseChange EventType = "phase_change"
	EventProgress    EventType = "progress"
	EventError       EventType = "error"
)

// Event represents a Cycle update for observers.
type Event struct {
	Type       EventType
	Phase      Phase
	Percentage float64
	Remaining  string
	Err        error
	At         time.Time
}
