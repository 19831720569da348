package testutil

import "sync"

// FixedSource returns the same random value every time.
//
// With value 0 the engine's weighted pick always lands on the first pooled
// id, which makes whole draw sequences computable by hand and suitable for
// golden traces.
//
// Thread-safety: FixedSource is immutable and safe for concurrent use.
type FixedSource struct {
	value float64
}

// NewFixedSource creates a source that always yields value, clamped to [0, 1).
func NewFixedSource(value float64) *FixedSource {
	if value < 0 {
		value = 0
	}
	if value >= 1 {
		value = 0.9999999999
	}
	return &FixedSource{value: value}
}

// Float64 returns the fixed value.
func (s *FixedSource) Float64() float64 {
	return s.value
}

// IntN maps the fixed value onto [0, n).
func (s *FixedSource) IntN(n int) int {
	return min(int(s.value*float64(n)), n-1)
}

// ScriptedSource returns predetermined values in order.
//
// Thread-safety: ScriptedSource is safe for concurrent use via internal mutex.
type ScriptedSource struct {
	mu     sync.Mutex
	values []float64
	idx    int
}

// NewScriptedSource creates a source that yields values in order.
//
// Example:
//
//	src := NewScriptedSource(0.1, 0.9)
//	src.Float64() // 0.1
//	src.Float64() // 0.9
//	src.Float64() // panic: all values exhausted
func NewScriptedSource(values ...float64) *ScriptedSource {
	return &ScriptedSource{values: values}
}

// Float64 returns the next scripted value.
//
// Panics if all values have been consumed. This is a fail-fast approach
// to catch tests that draw more often than they planned.
func (s *ScriptedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.values) {
		panic("ScriptedSource: all values exhausted")
	}
	v := s.values[s.idx]
	s.idx++
	return v
}

// IntN maps the next scripted value onto [0, n).
func (s *ScriptedSource) IntN(n int) int {
	return min(int(s.Float64()*float64(n)), n-1)
}

// Remaining reports how many scripted values are left.
func (s *ScriptedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values) - s.idx
}
