// Package typewriter reveals a message one character at a time.
package typewriter

import (
	"context"
	"sync"
	"time"
)

// Engine types messages into a text sink. Starting a new message cancels
// the one in progress.
type Engine struct {
	mu         sync.Mutex
	delay      time.Duration
	updateText func(string)
	cancel     context.CancelFunc
	done       chan struct{}
}

// New creates an engine that calls updateText with each growing prefix.
func New(delay time.Duration, updateText func(string)) *Engine {
	return &Engine{
		delay:      delay,
		updateText: updateText,
	}
}

// SetDelay changes the per-character delay for subsequent messages.
func (engine *Engine) SetDelay(delay time.Duration) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.delay = delay
}

// Type starts typing message. A non-positive delay shows it at once.
func (engine *Engine) Type(ctx context.Context, message string) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	engine.cancel = cancel
	delay := engine.delay
	done := make(chan struct{})
	engine.done = done
	engine.mu.Unlock()

	go func() {
		defer close(done)
		engine.run(runCtx, message, delay)
	}()
}

// Stop terminates the message in progress.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

// Wait blocks until the most recent message finished or was cancelled.
func (engine *Engine) Wait() {
	engine.mu.Lock()
	done := engine.done
	engine.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (engine *Engine) run(ctx context.Context, message string, delay time.Duration) {
	if delay <= 0 {
		engine.updateText(message)
		return
	}
	runes := []rune(message)
	engine.updateText("")
	for i := range runes {
		if !sleepWithContext(ctx, delay) {
			return
		}
		engine.updateText(string(runes[:i+1]))
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
