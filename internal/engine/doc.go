// Package engine implements the fairness-balanced draw engine.
//
// The engine owns per-id draw counts and last-draw rounds for a universe of
// identifiers and repeatedly selects one id so that, over many draws, the
// counts converge toward uniformity while each individual draw stays random.
//
// STATE:
//
// Every mutation (draw, reset, blacklist or whitelist change, restore) ends
// with refresh(), which recomputes the candidate pool and the probability
// snapshot from scratch. Neither is ever patched incrementally, so both are a
// pure function of counts, rounds, lists and configuration.
//
// CANDIDATE POOL (pool.go):
//
//  1. Whitelist-only mode: the whitelist, nothing else.
//  2. Otherwise universe ids whose count is <= ceil(mean) over the active set.
//  3. If max-min over the active set exceeds MaxGapThreshold, ids sitting at
//     the max or min are dropped and the filter is re-applied against the mean
//     of what remains.
//  4. Whitelist ids are appended.
//  5. Blacklisted ids are removed. Blacklist beats whitelist.
//  6. Short pools are backfilled up to MinPoolSize with the least-drawn ids.
//
// WEIGHTS (weights.go):
//
// decay^count, a cold-start boost for ids never drawn, a slow logarithmic
// staleness boost for ids that have waited more than half the active set,
// 1/(count+1), a second boost for whitelist ids outside the universe, and a
// floor of 0.01.
//
// DETERMINISM:
//
// Ids are always visited in ascending order, so a seeded Source replays a run
// exactly. Production engines use a cryptographically seeded Source.
//
// CONCURRENCY:
//
// An Engine is not safe for concurrent use. Callers sharing one engine across
// goroutines must serialize access themselves.
package engine
