package engine

// Clock counts draw rounds.
//
// Round 0 means nothing has been drawn since construction or the last reset.
// Every successful draw advances the clock by exactly one; failed draws never
// touch it. Not safe for concurrent use, like the Engine that owns it.
type Clock struct {
	round int
}

// NewClock creates a new clock starting at round 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock resuming at a specific round.
// Used when restoring a snapshot.
func NewClockAt(start int) *Clock {
	return &Clock{round: start}
}

// Next advances the clock and returns the new round.
func (c *Clock) Next() int {
	c.round++
	return c.round
}

// Peek returns the round the next draw will be stamped with.
func (c *Clock) Peek() int {
	return c.round + 1
}

// Current returns the last completed round without advancing.
func (c *Clock) Current() int {
	return c.round
}

// Reset returns the clock to round 0.
func (c *Clock) Reset() {
	c.round = 0
}
