package session

import (
	"errors"
	"sync"
)

// ErrClosed is returned by a Broadcaster after Close.
var ErrClosed = errors.New("notifier closed")

// Notifier receives session events on a best-effort basis.
// Returned errors are logged by the controller and otherwise ignored.
type Notifier interface {
	Notify(event Event) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(event Event) error

// Notify calls fn(event).
func (fn NotifierFunc) Notify(event Event) error {
	return fn(event)
}

// MultiNotifier delivers every event to each notifier in order and
// returns the joined errors.
type MultiNotifier []Notifier

// Notify forwards event to all notifiers.
func (notifiers MultiNotifier) Notify(event Event) error {
	var errs []error
	for _, notifier := range notifiers {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Broadcaster fans events out to subscriber channels without blocking.
// A subscriber whose buffer is full misses the event.
type Broadcaster struct {
	mu     sync.Mutex
	subs   []chan Event
	closed bool
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers a new observer channel.
func (broadcaster *Broadcaster) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	if broadcaster.closed {
		close(ch)
		return ch
	}
	broadcaster.subs = append(broadcaster.subs, ch)
	return ch
}

// Notify delivers event to every subscriber that has room for it.
func (broadcaster *Broadcaster) Notify(event Event) error {
	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	if broadcaster.closed {
		return ErrClosed
	}
	for _, ch := range broadcaster.subs {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Close closes all subscriber channels. Later Notify calls return ErrClosed.
func (broadcaster *Broadcaster) Close() {
	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	if broadcaster.closed {
		return
	}
	broadcaster.closed = true
	for _, ch := range broadcaster.subs {
		close(ch)
	}
	broadcaster.subs = nil
}
