package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/balancedraw/internal/config"
)

// Scenario is a scripted run against one engine.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Target describes the engine under test.
	Target config.Profile `yaml:"target"`

	// Source selects the random source. Defaults to fixed 0.
	Source Source `yaml:"source,omitempty"`

	// Setup steps run before Steps and are traced the same way.
	Setup []Step `yaml:"setup,omitempty"`

	Steps []Step `yaml:"steps"`

	Assertions []Assertion `yaml:"assertions"`
}

// Source picks the random source. At most one field may be set.
type Source struct {
	Fixed *float64 `yaml:"fixed,omitempty"`
	Seed  *uint64  `yaml:"seed,omitempty"`
}

// Step is one engine operation.
type Step struct {
	Op string `yaml:"op"`

	// Count is the draw_multiple batch size.
	Count int `yaml:"count,omitempty"`

	// IDs and Cells are the list operation arguments for line and grid
	// targets respectively.
	IDs   []int    `yaml:"ids,omitempty"`
	Cells []string `yaml:"cells,omitempty"`

	// Enabled is the whitelist_only switch.
	Enabled bool `yaml:"enabled,omitempty"`

	// Expect is validated against the step outcome when set. Without it any
	// error fails the scenario.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes a step outcome.
type Expect struct {
	// Error is the expected engine error code, e.g. POOL_TOO_SMALL.
	Error string `yaml:"error,omitempty"`

	// IDs or Cells are the exact drawn labels.
	IDs   []int    `yaml:"ids,omitempty"`
	Cells []string `yaml:"cells,omitempty"`
}

// Assertion validates the final engine state.
type Assertion struct {
	Type string `yaml:"type"`

	// IDs and Cells are used by pool and never_drawn.
	IDs   []int    `yaml:"ids,omitempty"`
	Cells []string `yaml:"cells,omitempty"`

	// Counts and CellCounts are used by counts.
	Counts     map[int]int    `yaml:"counts,omitempty"`
	CellCounts map[string]int `yaml:"cell_counts,omitempty"`

	// Value is used by max_gap, round and total_draws.
	Value *int `yaml:"value,omitempty"`
}

// Step operations.
const (
	OpDraw            = "draw"
	OpDrawMultiple    = "draw_multiple"
	OpReset           = "reset"
	OpBlacklistSet    = "blacklist_set"
	OpBlacklistAdd    = "blacklist_add"
	OpBlacklistRemove = "blacklist_remove"
	OpBlacklistClear  = "blacklist_clear"
	OpWhitelistSet    = "whitelist_set"
	OpWhitelistAdd    = "whitelist_add"
	OpWhitelistRemove = "whitelist_remove"
	OpWhitelistClear  = "whitelist_clear"
	OpWhitelistOnly   = "whitelist_only"
	OpSave            = "save"
	OpReload          = "reload"
)

// Assertion type constants.
const (
	AssertCounts         = "counts"
	AssertPool           = "pool"
	AssertNeverDrawn     = "never_drawn"
	AssertMaxGap         = "max_gap"
	AssertRound          = "round"
	AssertTotalDraws     = "total_draws"
	AssertProbabilitySum = "probability_sum"
)

var knownOps = map[string]bool{
	OpDraw: true, OpDrawMultiple: true, OpReset: true,
	OpBlacklistSet: true, OpBlacklistAdd: true, OpBlacklistRemove: true, OpBlacklistClear: true,
	OpWhitelistSet: true, OpWhitelistAdd: true, OpWhitelistRemove: true, OpWhitelistClear: true,
	OpWhitelistOnly: true, OpSave: true, OpReload: true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if err := s.Target.Validate(); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	if s.Source.Fixed != nil && s.Source.Seed != nil {
		return fmt.Errorf("source: fixed and seed are mutually exclusive")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("setup[%d]: %w", i, err)
		}
	}
	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(step Step) error {
	if step.Op == "" {
		return fmt.Errorf("op is required")
	}
	if !knownOps[step.Op] {
		return fmt.Errorf("unknown op %q", step.Op)
	}
	if len(step.IDs) > 0 && len(step.Cells) > 0 {
		return fmt.Errorf("ids and cells are mutually exclusive")
	}
	if step.Expect != nil && len(step.Expect.IDs) > 0 && len(step.Expect.Cells) > 0 {
		return fmt.Errorf("expect: ids and cells are mutually exclusive")
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCounts:
		if len(a.Counts) == 0 && len(a.CellCounts) == 0 {
			return fmt.Errorf("assertions[%d]: counts or cell_counts is required for counts", index)
		}
	case AssertPool:
		// An empty list asserts an empty pool.
	case AssertNeverDrawn:
		if len(a.IDs) == 0 && len(a.Cells) == 0 {
			return fmt.Errorf("assertions[%d]: ids or cells is required for never_drawn", index)
		}
	case AssertMaxGap, AssertRound, AssertTotalDraws:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertProbabilitySum:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
