package testutil

import (
	"sync"
	"time"
)

// FixedClock provides a controllable wall clock for tests.
//
// Snapshots stamp LastUpdated from the engine's clock; a FixedClock keeps
// stored documents byte-identical across runs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// DefaultTime is the instant a zero-configured FixedClock starts at.
var DefaultTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// NewFixedClock creates a clock frozen at start.
// A zero start uses DefaultTime.
func NewFixedClock(start time.Time) *FixedClock {
	if start.IsZero() {
		start = DefaultTime
	}
	return &FixedClock{now: start}
}

// Now returns the frozen instant. Pass the method value to engine.WithNow.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
