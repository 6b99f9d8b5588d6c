package testutil

import (
	"sync"
	"time"
)

// ManualTicker is a ticker driven by the test instead of wall time.
//
// Tick blocks until the consumer receives, so a test that calls Tick
// knows the tick was observed. Stop makes further Ticks no-ops.
//
// Thread-safety: All methods are safe for concurrent use.
type ManualTicker struct {
	ch       chan time.Time
	stopOnce sync.Once
	stopped  chan struct{}
}

// NewManualTicker creates a ticker that never fires on its own.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{
		ch:      make(chan time.Time),
		stopped: make(chan struct{}),
	}
}

// C returns the tick channel.
func (t *ManualTicker) C() <-chan time.Time {
	return t.ch
}

// Tick delivers one tick. It reports false if the ticker was stopped
// before the tick was received.
func (t *ManualTicker) Tick() bool {
	select {
	case t.ch <- time.Time{}:
		return true
	case <-t.stopped:
		return false
	}
}

// Stop stops the ticker. Safe to call more than once.
func (t *ManualTicker) Stop() {
	t.stopOnce.Do(func() { close(t.stopped) })
}

// Stopped reports whether Stop has been called.
func (t *ManualTicker) Stopped() bool {
	select {
	case <-t.stopped:
		return true
	default:
		return false
	}
}
