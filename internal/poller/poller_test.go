package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestEveryFiresImmediately(t *testing.T) {
	var calls atomic.Int32
	h := Every(context.Background(), time.Hour, func(time.Time) { calls.Add(1) })
	defer h.Stop()

	waitFor(t, func() bool { return calls.Load() == 1 })
}

func TestEveryRepeatsAndStops(t *testing.T) {
	var calls atomic.Int32
	h := Every(context.Background(), 10*time.Millisecond, func(time.Time) { calls.Add(1) })

	waitFor(t, func() bool { return calls.Load() >= 3 })

	h.Stop()
	h.Stop()
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not exit after Stop")
	}

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	if calls.Load() != after {
		t.Errorf("task kept firing after Stop: %d -> %d", after, calls.Load())
	}
}

func TestEveryStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := Every(ctx, 10*time.Millisecond, func(time.Time) {})
	cancel()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not exit after context cancel")
	}
}

func TestPauseSkipsTicks(t *testing.T) {
	var calls atomic.Int32
	h := Every(context.Background(), 10*time.Millisecond, func(time.Time) { calls.Add(1) })
	defer h.Stop()

	waitFor(t, func() bool { return calls.Load() >= 1 })
	h.Pause()
	if !h.Paused() {
		t.Fatal("expected Paused after Pause")
	}
	time.Sleep(20 * time.Millisecond)
	frozen := calls.Load()
	time.Sleep(40 * time.Millisecond)
	if calls.Load() != frozen {
		t.Errorf("calls advanced while paused: %d -> %d", frozen, calls.Load())
	}

	h.Resume()
	waitFor(t, func() bool { return calls.Load() > frozen })
}
