package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/roach88/balancedraw/internal/space"
)

// Config holds the tuning parameters of an engine. They are part of the
// deterministic snapshot ID, so changing any of them starts a fresh history.
type Config struct {
	// MinPoolSize is the smallest candidate pool the backfill step
	// guarantees (when enough non-blacklisted ids exist). Must be > 0.
	MinPoolSize int

	// MaxGapThreshold triggers outlier exclusion once max-min draw count
	// over the active set exceeds it.
	MaxGapThreshold int

	// ColdStartBoost multiplies the weight of never-drawn ids and, a second
	// time, of whitelist ids outside the universe. Finite and > 0, typically
	// > 1.
	ColdStartBoost float64

	// DecayFactor is raised to the draw count and multiplied in.
	// Must lie in (0, 1].
	DecayFactor float64
}

// DefaultConfig returns the tuning used when nothing else is specified.
func DefaultConfig() Config {
	return Config{
		MinPoolSize:     3,
		MaxGapThreshold: 5,
		ColdStartBoost:  2.0,
		DecayFactor:     0.7,
	}
}

// Validate rejects configurations the pool algorithm cannot honor.
func (c Config) Validate() error {
	if c.MinPoolSize <= 0 {
		return NewInvalidConfigurationError(
			fmt.Sprintf("min pool size must be greater than 0, got %d", c.MinPoolSize), nil)
	}
	if c.MaxGapThreshold < 0 {
		return NewInvalidConfigurationError(
			fmt.Sprintf("max gap threshold must not be negative, got %d", c.MaxGapThreshold), nil)
	}
	if !finite(c.ColdStartBoost) || c.ColdStartBoost <= 0 {
		return NewInvalidConfigurationError(
			fmt.Sprintf("cold start boost must be finite and greater than 0, got %v", c.ColdStartBoost), nil)
	}
	if !finite(c.DecayFactor) || c.DecayFactor <= 0 || c.DecayFactor > 1 {
		return NewInvalidConfigurationError(
			fmt.Sprintf("decay factor must be in (0, 1], got %v", c.DecayFactor), nil)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Params returns the tuning contribution to the deterministic ID, in order.
func (c Config) Params() []string {
	return []string{
		strconv.Itoa(c.MinPoolSize),
		strconv.Itoa(c.MaxGapThreshold),
		space.FormatFloat(c.ColdStartBoost),
		space.FormatFloat(c.DecayFactor),
	}
}
