// Package poller runs a task immediately and then on a fixed interval until
// it is stopped.
package poller

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval matches the dashboard's refresh cadence.
const DefaultInterval = 5 * time.Second

// Handle controls a scheduled task started by Every.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	paused bool
}

// Every calls fn right away and then once per interval on its own goroutine.
// The task stops when ctx is cancelled or Stop is called. Ticks that arrive
// while fn is still running are dropped.
func Every(ctx context.Context, interval time.Duration, fn func(time.Time)) *Handle {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(h.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		h.fire(time.Now(), fn)
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				h.fire(t, fn)
			}
		}
	}()

	return h
}

func (h *Handle) fire(t time.Time, fn func(time.Time)) {
	if h.Paused() {
		return
	}
	fn(t)
}

// Stop cancels the task. It is safe to call more than once.
func (h *Handle) Stop() {
	h.cancel()
}

// Done is closed once the task goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Pause skips ticks until Resume is called.
func (h *Handle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paused = true
}

func (h *Handle) Resume() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paused = false
}

func (h *Handle) Paused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paused
}
