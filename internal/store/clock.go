package store

import "sync/atomic"

// Clock is the monotonic logical clock stamped on every inserted row.
//
// Ordering by seq keeps list results stable and independent of wall time
// or of the random ids.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
// In practice only the writer holding the store lock calls Next.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
