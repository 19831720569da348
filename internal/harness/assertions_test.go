package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{Type: AssertRound, Expected: "3", Actual: "2"}
	assert.Equal(t, "Assertion failed: round\n  Expected: 3\n  Actual: 2", err.Error())
}

const assertionBase = `
name: assertions
description: "three draws over 1..5 on a fixed source"
target: {range: {start: 1, end: 5}}
steps:
  - op: draw_multiple
    count: 3
`

func TestEvaluateAssertions_Failures(t *testing.T) {
	// Three fixed draws give counts 1:2, 2:1 at round 3 with pool [2 3 4 5].
	tests := []struct {
		name      string
		assertion string
		want      string
	}{
		{"counts", "{type: counts, counts: {1: 1}}", "1: want 1, got 2"},
		{"pool", "{type: pool, ids: [1, 2]}", "Actual: [2 3 4 5]"},
		{"never_drawn", "{type: never_drawn, ids: [2, 3]}", "2 drawn 1 times"},
		{"max_gap", "{type: max_gap, value: 1}", "Expected: gap <= 1"},
		{"round", "{type: round, value: 4}", "Assertion failed: round"},
		{"total_draws", "{type: total_draws, value: 2}", "Actual: 3"},
		{"cells on line target", "{type: counts, counts: {1: 2}}\n  - {type: pool, cells: [\"1:1\"]}", "Expected: []"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustParse(t, assertionBase+"assertions:\n  - "+tt.assertion+"\n")
			result, err := Run(s)
			require.NoError(t, err)
			assert.False(t, result.Pass)
			require.NotEmpty(t, result.Errors)
			assert.Contains(t, result.Errors[len(result.Errors)-1], tt.want)
		})
	}
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	s := mustParse(t, assertionBase+`assertions:
  - {type: counts, counts: {1: 2, 2: 1, 3: 0}}
  - {type: pool, ids: [2, 3, 4, 5]}
  - {type: never_drawn, ids: [3, 4, 5]}
  - {type: max_gap, value: 2}
  - {type: round, value: 3}
  - {type: total_draws, value: 3}
  - {type: probability_sum}
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestEvaluateAssertions_GridCountOutsideGrid(t *testing.T) {
	s := mustParse(t, `
name: grid_bounds
description: "counts on cells outside the grid are reported"
target: {grid: {rows: 2, cols: 2}}
steps: [{op: draw}]
assertions:
  - {type: counts, cell_counts: {"3:3": 0}}
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "cell 3:3 is outside the grid")
}
