package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/balancedraw/internal/testutil"
)

func TestUpdatePool_MeanFilter(t *testing.T) {
	e := newTestEngine(t, 1, 5, DefaultConfig())

	_, err := e.DrawMultiple(context.Background(), 2, nil)
	require.NoError(t, err)

	// counts {1:2}: ceil(mean 0.4) = 1 removes id 1.
	assert.Equal(t, []int{2, 3, 4, 5}, e.Pool())
	assert.Zero(t, e.Probability(1))
}

func TestUpdatePool_OutlierExclusion(t *testing.T) {
	e := newTestEngine(t, 1, 5, DefaultConfig())

	snap := e.Snapshot()
	snap.DrawCounts = map[int]int{1: 0, 2: 3, 3: 3, 4: 3, 5: 10}
	snap.LastDrawRound = map[int]int{1: -1, 2: 17, 3: 18, 4: 19, 5: 16}
	snap.CurrentRound = 19
	snap.TotalDraws = 19
	e.Restore(snap)

	// Mean 3.8 keeps 1..4; gap 10 > 5 drops both extremes.
	assert.Equal(t, 10, e.MaxDrawCountGap())
	assert.Equal(t, []int{2, 3, 4}, e.Pool())

	snap.MinPoolSize = 4
	e.Restore(snap)
	assert.Equal(t, []int{2, 3, 4, 1}, e.Pool(), "backfill takes the least drawn id")
}

func TestUpdatePool_BackfillPrefersDrawnOverNeverDrawn(t *testing.T) {
	cfg := Config{MinPoolSize: 2, MaxGapThreshold: 5, ColdStartBoost: 2.0, DecayFactor: 0.7}
	e := newTestEngine(t, 1, 4, cfg)

	snap := e.Snapshot()
	snap.DrawCounts = map[int]int{1: 0, 2: 0, 3: 5, 4: 5}
	snap.LastDrawRound = map[int]int{1: 3, 2: -1, 3: 9, 4: 10}
	snap.CurrentRound = 10
	snap.TotalDraws = 10
	snap.Whitelist = []int{4}
	snap.WhitelistOnlyMode = true
	e.Restore(snap)

	assert.Equal(t, []int{4, 1}, e.Pool())
}

func TestUpdatePool_BlacklistAppliesImmediately(t *testing.T) {
	e := newTestEngine(t, 1, 5, DefaultConfig())

	e.AddToBlacklist([]int{3})

	assert.Equal(t, []int{1, 2, 4, 5}, e.Pool())
	assert.Zero(t, e.Probability(3))
	assert.Equal(t, 0, e.CurrentRound(), "list edits do not advance the round")

	e.RemoveFromBlacklist([]int{3})
	assert.Equal(t, []int{1, 2, 3, 4, 5}, e.Pool())
}

func TestUpdatePool_BlacklistOverridesWhitelist(t *testing.T) {
	e := newTestEngine(t, 1, 5, DefaultConfig())

	e.SetWhitelist([]int{3})
	e.SetBlacklist([]int{3})

	assert.NotContains(t, e.Pool(), 3)
	assert.Zero(t, e.Probability(3))
}

func TestUpdatePool_BlacklistDropsUnknownIDs(t *testing.T) {
	e := newTestEngine(t, 1, 5, DefaultConfig())

	e.AddToBlacklist([]int{99, 2})

	assert.Equal(t, []int{2}, e.Blacklist())
	assert.False(t, e.InBlacklist(99))
}

func TestUpdatePool_WhitelistOnly(t *testing.T) {
	e := newTestEngine(t, 1, 5, DefaultConfig())
	e.SetWhitelist([]int{2, 4})
	e.SetWhitelistOnly(true)

	assert.True(t, e.WhitelistOnly())
	assert.Equal(t, []int{2, 4, 1}, e.Pool(), "backfilled to the minimum pool size")

	e.SetWhitelistOnly(false)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, e.Pool())
}

func TestUpdatePool_WhitelistOnlyDrawsStayInWhitelist(t *testing.T) {
	cfg := Config{MinPoolSize: 1, MaxGapThreshold: 5, ColdStartBoost: 2.0, DecayFactor: 0.7}
	e := newTestEngine(t, 1, 9, cfg, WithSource(NewSeededSource(9)))
	e.SetWhitelist([]int{2, 4})
	e.SetWhitelistOnly(true)

	for i := 0; i < 100; i++ {
		id, err := e.Draw(context.Background(), nil)
		require.NoError(t, err)
		assert.Contains(t, []int{2, 4}, id)
	}
	assert.Equal(t, 100, e.DrawCount(2)+e.DrawCount(4))
}

func TestUpdatePool_RemoveFromWhitelistKeepsCounts(t *testing.T) {
	e := newTestEngine(t, 1, 3, DefaultConfig(), WithSource(testutil.NewFixedSource(0.99)))
	e.AddToWhitelist([]int{8})

	// The last pooled id carries the most weight, so 0.99 lands on 8.
	id, err := e.Draw(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 8, id)

	e.RemoveFromWhitelist([]int{8})
	assert.Equal(t, 1, e.DrawCount(8))
	assert.NotContains(t, e.Pool(), 8)
}

func TestUpdatePool_ClearLists(t *testing.T) {
	e := newTestEngine(t, 1, 5, DefaultConfig())
	e.SetBlacklist([]int{1, 2})
	e.SetWhitelist([]int{9})

	e.ClearBlacklist()
	e.ClearWhitelist()

	assert.Empty(t, e.Blacklist())
	assert.Empty(t, e.Whitelist())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, e.Pool())
}
