package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rangeEngine = "BalancedRand_Range_1_5_3_5_2_0.7"

func drawJSON(t *testing.T, store string, args ...string) DrawResult {
	t.Helper()
	resp, err := executeJSON(t, store, append([]string{"draw"}, args...)...)
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Status)

	var result DrawResult
	decodeData(t, resp, &result)
	return result
}

func statsJSON(t *testing.T, store string, args ...string) StatsResult {
	t.Helper()
	resp, err := executeJSON(t, store, append([]string{"stats"}, args...)...)
	require.NoError(t, err)

	var result StatsResult
	decodeData(t, resp, &result)
	return result
}

func TestDraw_PersistsBetweenRuns(t *testing.T) {
	store := tempStore(t)

	first := drawJSON(t, store, "--range", "1:5", "-n", "3")
	assert.Equal(t, rangeEngine, first.Engine)
	assert.Len(t, first.Drawn, 3)
	assert.Equal(t, 3, first.Round)
	assert.Equal(t, 3, first.TotalDraws)

	second := drawJSON(t, store, "--range", "1:5")
	assert.Len(t, second.Drawn, 1)
	assert.Equal(t, 4, second.Round)
	assert.Equal(t, 4, second.TotalDraws)

	stats := statsJSON(t, store, "--range", "1:5")
	assert.True(t, stats.Restored)
	assert.Equal(t, 4, stats.TotalDraws)
	require.Len(t, stats.Entries, 5)

	total := 0
	for _, e := range stats.Entries {
		total += e.DrawCount
	}
	assert.Equal(t, 4, total)
}

func TestDraw_NoSave(t *testing.T) {
	store := tempStore(t)

	drawJSON(t, store, "--range", "1:5", "--no-save")

	stats := statsJSON(t, store, "--range", "1:5")
	assert.False(t, stats.Restored)
	assert.Zero(t, stats.TotalDraws)
}

func TestDraw_SQLiteBackend(t *testing.T) {
	store := filepath.Join(t.TempDir(), "draws.db")

	resp, err := executeJSON(t, store, "--backend", "sqlite", "draw", "--ids", "3,5,9", "-n", "2")
	require.NoError(t, err)
	var drawn DrawResult
	decodeData(t, resp, &drawn)
	for _, id := range drawn.Drawn {
		assert.Contains(t, []string{"3", "5", "9"}, id)
	}

	resp, err = executeJSON(t, store, "--backend", "sqlite", "stats", "--ids", "3,5,9")
	require.NoError(t, err)
	var stats StatsResult
	decodeData(t, resp, &stats)
	assert.True(t, stats.Restored)
	assert.Equal(t, 2, stats.TotalDraws)
	assert.Equal(t, "BalancedRand_List", stats.Kind)
}

func TestDraw_Grid(t *testing.T) {
	store := tempStore(t)

	result := drawJSON(t, store, "--grid", "2x2", "-n", "2")
	assert.Equal(t, "BalancedRandPlane_2_2_3_5_2_0.7", result.Engine)
	require.Len(t, result.Drawn, 2)
	for _, cell := range result.Drawn {
		assert.Contains(t, []string{"1:1", "1:2", "2:1", "2:2"}, cell)
	}

	stats := statsJSON(t, store, "--grid", "2x2")
	assert.Equal(t, "BalancedRandPlane", stats.Kind)
	require.Len(t, stats.Entries, 4)
	assert.Equal(t, "1:1", stats.Entries[0].ID)
}

func TestDraw_TextOutput(t *testing.T) {
	out, err := execute(t, "--store", tempStore(t), "draw", "--ids", "7", "--min-pool", "1")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestDraw_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode string
		wantExit int
	}{
		{"pool too small", []string{"draw", "--range", "1:3", "-n", "5"}, "POOL_TOO_SMALL", ExitFailure},
		{"zero count", []string{"draw", "--range", "1:3", "-n", "0"}, "INVALID_COUNT", ExitFailure},
		{"reversed range", []string{"draw", "--range", "5:1"}, "INVALID_CONFIGURATION", ExitCommandError},
		{"zero min pool", []string{"draw", "--range", "1:5", "--min-pool", "0"}, "INVALID_CONFIGURATION", ExitCommandError},
		{"infinite boost", []string{"draw", "--range", "1:5", "--boost", "+Inf"}, "INVALID_CONFIGURATION", ExitCommandError},
		{"decay above one", []string{"draw", "--range", "1:5", "--decay", "1.5"}, "INVALID_CONFIGURATION", ExitCommandError},
		{"missing target", []string{"draw"}, ErrCodeInvalidTarget, ExitCommandError},
		{"two targets", []string{"draw", "--range", "1:5", "--grid", "2x2"}, ErrCodeInvalidTarget, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := executeJSON(t, tempStore(t), tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestDraw_UnreadableStore(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, os.WriteFile(store, []byte("{not json"), 0644))

	resp, err := executeJSON(t, store, "draw", "--range", "1:5")
	require.Error(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PERSISTENCE", resp.Error.Code)
}

func TestDraw_MetricsTextfile(t *testing.T) {
	store := tempStore(t)
	metrics := filepath.Join(t.TempDir(), "balancedraw.prom")

	resp, err := executeJSON(t, store, "--metrics-file", metrics, "draw", "--range", "1:5", "-n", "2")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `balancedraw_draws_total{engine="`+rangeEngine+`"} 2`)
	assert.Contains(t, string(data), "balancedraw_pool_size")
}

func TestStats_Text(t *testing.T) {
	store := tempStore(t)
	drawJSON(t, store, "--range", "1:5", "-n", "2")

	out, err := execute(t, "--store", store, "stats", "--range", "1:5")
	require.NoError(t, err)
	assert.Contains(t, out, "Engine: "+rangeEngine)
	assert.Contains(t, out, "Round 2, 2 total draws")
	assert.Contains(t, out, "PROBABILITY")
}

func TestStats_ProbabilitiesSumToOne(t *testing.T) {
	store := tempStore(t)
	drawJSON(t, store, "--range", "1:10", "-n", "4")

	stats := statsJSON(t, store, "--range", "1:10")
	sum := 0.0
	for _, e := range stats.Entries {
		if e.InPool {
			sum += e.Probability
		} else {
			assert.Zero(t, e.Probability, e.ID)
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Len(t, stats.Pool, countInPool(stats.Entries))
}

func countInPool(entries []StatEntry) int {
	n := 0
	for _, e := range entries {
		if e.InPool {
			n++
		}
	}
	return n
}

func TestReset(t *testing.T) {
	store := tempStore(t)
	drawJSON(t, store, "--range", "1:5", "-n", "3")

	out, err := execute(t, "--store", store, "reset", "--range", "1:5")
	require.NoError(t, err)
	assert.Equal(t, "✓ Reset "+rangeEngine+"\n", out)

	stats := statsJSON(t, store, "--range", "1:5")
	assert.True(t, stats.Restored)
	assert.Zero(t, stats.TotalDraws)
	assert.Zero(t, stats.Round)
	for _, e := range stats.Entries {
		assert.Zero(t, e.DrawCount)
		assert.Equal(t, -1, e.LastDrawRound)
	}
}

func TestReset_KeepsLists(t *testing.T) {
	store := tempStore(t)
	_, err := executeJSON(t, store, "blacklist", "add", "2", "--range", "1:5")
	require.NoError(t, err)

	_, err = executeJSON(t, store, "reset", "--range", "1:5")
	require.NoError(t, err)

	resp, err := executeJSON(t, store, "blacklist", "list", "--range", "1:5")
	require.NoError(t, err)
	var list ListResult
	decodeData(t, resp, &list)
	assert.Equal(t, []string{"2"}, list.Entries)
}

func listJSON(t *testing.T, store string, args ...string) ListResult {
	t.Helper()
	resp, err := executeJSON(t, store, args...)
	require.NoError(t, err)

	var result ListResult
	decodeData(t, resp, &result)
	return result
}

func TestBlacklist(t *testing.T) {
	store := tempStore(t)

	added := listJSON(t, store, "blacklist", "add", "2", "3", "9", "--range", "1:5")
	assert.Equal(t, "blacklist", added.List)
	assert.Equal(t, "add", added.Action)
	assert.Equal(t, []string{"2", "3"}, added.Entries)
	assert.NotContains(t, added.Pool, "2")
	assert.NotContains(t, added.Pool, "3")

	for range 6 {
		drawn := drawJSON(t, store, "--range", "1:5")
		assert.NotContains(t, []string{"2", "3"}, drawn.Drawn[0])
	}

	removed := listJSON(t, store, "blacklist", "remove", "3", "--range", "1:5")
	assert.Equal(t, []string{"2"}, removed.Entries)

	cleared := listJSON(t, store, "blacklist", "clear", "--range", "1:5")
	assert.Empty(t, cleared.Entries)
}

func TestBlacklist_Grid(t *testing.T) {
	store := tempStore(t)

	result := listJSON(t, store, "blacklist", "set", "1:2", "2:1", "5:5", "--grid", "2x2")
	assert.Equal(t, []string{"1:2", "2:1"}, result.Entries)
	assert.ElementsMatch(t, []string{"1:1", "2:2"}, result.Pool)

	_, err := executeJSON(t, store, "blacklist", "add", "12", "--grid", "2x2")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestWhitelist(t *testing.T) {
	store := tempStore(t)
	target := []string{"--range", "1:5", "--min-pool", "1"}

	added := listJSON(t, store, append([]string{"whitelist", "add", "50"}, target...)...)
	assert.Equal(t, []string{"50"}, added.Entries)
	assert.Contains(t, added.Pool, "50")
	assert.False(t, added.WhitelistOnly)

	only := listJSON(t, store, append([]string{"whitelist", "only", "on"}, target...)...)
	assert.True(t, only.WhitelistOnly)
	assert.Equal(t, []string{"50"}, only.Pool)

	drawn := drawJSON(t, store, target...)
	assert.Equal(t, []string{"50"}, drawn.Drawn)

	stats := statsJSON(t, store, target...)
	assert.True(t, stats.WhitelistOnly)
}

func TestWhitelistOnly_Backfills(t *testing.T) {
	store := tempStore(t)
	listJSON(t, store, "whitelist", "add", "50", "--range", "1:5")

	only := listJSON(t, store, "whitelist", "only", "on", "--range", "1:5")
	assert.Equal(t, []string{"50", "1", "2"}, only.Pool)
}

func TestWhitelist_Text(t *testing.T) {
	out, err := execute(t, "--store", tempStore(t), "whitelist", "set", "8", "9", "--range", "1:5")
	require.NoError(t, err)
	assert.Equal(t, "whitelist: 8 9\nwhitelist-only: false\n", out)
}

func TestListArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"add without ids", []string{"blacklist", "add", "--range", "1:5"}, "needs at least one id"},
		{"clear with ids", []string{"whitelist", "clear", "4", "--range", "1:5"}, "takes no ids"},
		{"only on blacklist", []string{"blacklist", "only", "on", "--range", "1:5"}, `unknown blacklist action "only"`},
		{"only without value", []string{"whitelist", "only", "--range", "1:5"}, "on or off"},
		{"unknown action", []string{"whitelist", "drop", "--range", "1:5"}, `unknown whitelist action "drop"`},
		{"bad id", []string{"blacklist", "add", "x", "--range", "1:5"}, `invalid id "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := executeJSON(t, tempStore(t), tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			require.NotNil(t, resp.Error)
			assert.Contains(t, resp.Error.Message, tt.wantErr)
		})
	}
}

func TestSnapshots(t *testing.T) {
	store := tempStore(t)

	out, err := execute(t, "--store", store, "snapshots")
	require.NoError(t, err)
	assert.Equal(t, "No snapshots in "+store+"\n", out)

	drawJSON(t, store, "--range", "1:5", "-n", "2")
	drawJSON(t, store, "--grid", "2x2")

	resp, err := executeJSON(t, store, "snapshots")
	require.NoError(t, err)
	var entries []SnapshotEntry
	decodeData(t, resp, &entries)
	require.Len(t, entries, 2)

	byID := map[string]SnapshotEntry{}
	for _, e := range entries {
		byID[e.ID] = e
	}
	assert.Equal(t, 2, byID[rangeEngine].TotalDraws)
	assert.Equal(t, "BalancedRand_Range", byID[rangeEngine].Kind)
	assert.Equal(t, 1, byID["BalancedRandPlane_2_2_3_5_2_0.7"].Round)

	out, err = execute(t, "--store", store, "snapshots")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "\n"))
}
