package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/balancedraw/internal/config"
)

func TestRun_GoldenScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_TracesEveryStep(t *testing.T) {
	s := mustParse(t, `
name: trace
description: "setup and steps are both traced"
target: {range: {start: 1, end: 5}}
setup:
  - op: blacklist_set
    ids: [5]
steps:
  - op: draw
assertions:
  - type: total_draws
    value: 1
`)

	result, err := Run(s)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Trace, 2)
	assert.Equal(t, TraceEvent{Seq: 1, Phase: "setup", Op: OpBlacklistSet, Input: "5", Round: 0, Pool: []string{"1", "2", "3", "4"}}, result.Trace[0])
	assert.Equal(t, "step", result.Trace[1].Phase)
	assert.Equal(t, []string{"1"}, result.Trace[1].Output)
	assert.Equal(t, 1, result.Trace[1].Round)
	assert.Equal(t, "BalancedRand_Range_1_5_3_5_2_0.7", result.EngineID)
	assert.Len(t, result.Final, 5)
}

func TestRun_ExpectMismatchFails(t *testing.T) {
	s := mustParse(t, `
name: mismatch
description: "the first draw on a fixed source is the first pooled id"
target: {range: {start: 1, end: 5}}
steps:
  - op: draw
    expect: {ids: [2]}
assertions:
  - type: probability_sum
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "step 1 (draw): expected [2], got [1]")
}

func TestRun_UnexpectedErrorFails(t *testing.T) {
	s := mustParse(t, `
name: unexpected
description: "a zero batch is an invalid count"
target: {range: {start: 1, end: 5}}
steps:
  - op: draw_multiple
    count: 0
assertions:
  - type: round
    value: 0
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, "INVALID_COUNT", result.Trace[0].Error)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unexpected error")
}

func TestRun_ExpectedErrorMissing(t *testing.T) {
	s := mustParse(t, `
name: missing_error
description: "a batch of one fits any non-empty pool"
target: {range: {start: 1, end: 5}}
steps:
  - op: draw_multiple
    count: 1
    expect: {error: POOL_TOO_SMALL}
assertions:
  - type: total_draws
    value: 1
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected error POOL_TOO_SMALL, got success")
}

func TestRun_WrongErrorCode(t *testing.T) {
	s := mustParse(t, `
name: wrong_code
description: "negative batches are invalid counts, not small pools"
target: {range: {start: 1, end: 5}}
steps:
  - op: draw_multiple
    count: -1
    expect: {error: POOL_TOO_SMALL}
assertions:
  - type: round
    value: 0
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected error POOL_TOO_SMALL, got INVALID_COUNT")
}

func TestRun_SeededSourceIsReproducible(t *testing.T) {
	doc := `
name: seeded
description: "the same seed replays the same draws"
target: {range: {start: 1, end: 10}}
source: {seed: 42}
steps:
  - op: draw_multiple
    count: 5
  - op: draw_multiple
    count: 5
assertions:
  - type: total_draws
    value: 10
  - type: round
    value: 10
  - type: probability_sum
`
	first, err := Run(mustParse(t, doc))
	require.NoError(t, err)
	second, err := Run(mustParse(t, doc))
	require.NoError(t, err)

	assert.True(t, first.Pass, "errors: %v", first.Errors)
	assert.Equal(t, first.Trace, second.Trace)
	assert.Equal(t, RenderTrace("seeded", first), RenderTrace("seeded", second))
}

func TestRun_ReloadWithoutSave(t *testing.T) {
	s := mustParse(t, `
name: reload_empty
description: "reloading from an empty store starts fresh"
target: {ids: [2, 4, 6]}
steps:
  - op: draw
  - op: reload
assertions:
  - type: round
    value: 0
  - type: never_drawn
    ids: [2, 4, 6]
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, []string{"empty"}, result.Trace[1].Output)
}

func TestRun_GridRejectsIDs(t *testing.T) {
	s := mustParse(t, `
name: grid_ids
description: "grid targets are addressed by cells"
target: {grid: {rows: 2, cols: 2}}
steps:
  - op: blacklist_add
    ids: [1]
assertions:
  - type: pool
    cells: ["1:1", "1:2", "2:1", "2:2"]
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "grid targets take cells, not ids")
}

func TestRun_GridWhitelistExtension(t *testing.T) {
	s := mustParse(t, `
name: grid_extension
description: "a row beyond the grid joins the pool as an extension cell"
target: {grid: {rows: 1, cols: 2}}
steps:
  - op: whitelist_add
    cells: ["2:1", "1:3"]
assertions:
  - type: pool
    cells: ["1:1", "1:2", "2:1"]
  - type: probability_sum
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_InvalidTarget(t *testing.T) {
	s := &Scenario{
		Name:        "bad_range",
		Description: "reversed range",
		Target:      config.Profile{Range: &config.Range{Start: 5, End: 1}},
		Steps:       []Step{{Op: OpDraw}},
		Assertions:  []Assertion{{Type: AssertProbabilitySum}},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build target")
}
