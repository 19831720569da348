// Package harness runs YAML draw scenarios against real balancedraw engines.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: range_balance
//	description: "What this scenario validates"
//	target:
//	  range: {start: 1, end: 5}
//	  min_pool_size: 3
//	source:
//	  fixed: 0
//	setup:
//	  - op: blacklist_set
//	    ids: [4]
//	steps:
//	  - op: draw_multiple
//	    count: 5
//	    expect:
//	      ids: [1, 1, 2, 2, 3]
//	  - op: draw_multiple
//	    count: 9
//	    expect:
//	      error: POOL_TOO_SMALL
//	assertions:
//	  - type: counts
//	    counts: {1: 2, 2: 2}
//	  - type: round
//	    value: 5
//
// The target uses the profile syntax of package config: exactly one of
// range, ids or grid plus optional tuning. Grid targets address cells as
// "ROW:COL" strings through the cells fields instead of ids.
//
// # Operations
//
// draw, draw_multiple, reset, blacklist_set, blacklist_add,
// blacklist_remove, blacklist_clear, whitelist_set, whitelist_add,
// whitelist_remove, whitelist_clear, whitelist_only, save and reload.
// save writes the engine to an in-memory store; reload builds a fresh engine
// for the same target and restores it from that store.
//
// # Assertion Types
//
//   - counts: exact draw counts for the listed ids or cells
//   - pool: exact candidate pool, in selection order
//   - never_drawn: every listed id or cell has a count of zero
//   - max_gap: the max-min draw count gap is at most value
//   - round: the current round equals value
//   - total_draws: the total draw count equals value
//   - probability_sum: probabilities sum to 1 over a non-empty pool
//
// # Deterministic Testing
//
// The random source defaults to a fixed value of 0, which makes the engine
// always pick the first pooled id. A seed selects the reproducible PCG
// source instead. Logs are discarded and time is frozen, so a scenario
// renders the same trace on every run and can be compared against a golden
// file.
package harness
