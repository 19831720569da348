package engine

import (
	"cmp"
	"maps"
	"math"
	"slices"
)

// updatePool rebuilds the candidate pool. See the package documentation for
// the step order; blacklist removal always runs after whitelist insertion.
func (e *Engine) updatePool() {
	var candidates []int

	if e.whitelistOnly {
		candidates = sortedSet(e.whitelist)
	} else {
		active := e.activeIDs()
		candidates = e.atMost(e.space.IDs(), math.Ceil(e.meanCount(active)))

		if e.countGap(active) > e.cfg.MaxGapThreshold {
			lo, hi := e.countBounds(active)
			candidates = slices.DeleteFunc(candidates, func(id int) bool {
				c := e.counts[id]
				return c == lo || c == hi
			})
			if len(candidates) > 0 {
				candidates = e.atMost(candidates, math.Ceil(e.meanCount(candidates)))
			}
		}

		for _, id := range sortedSet(e.whitelist) {
			if !slices.Contains(candidates, id) {
				candidates = append(candidates, id)
			}
		}
	}

	candidates = slices.DeleteFunc(candidates, e.InBlacklist)

	if len(candidates) < e.cfg.MinPoolSize {
		candidates = e.backfill(candidates)
	}

	e.pool = candidates
}

// backfill tops the pool up to MinPoolSize with the least-drawn active ids
// that are neither pooled nor blacklisted.
func (e *Engine) backfill(candidates []int) []int {
	pooled := make(map[int]struct{}, len(candidates))
	for _, id := range candidates {
		pooled[id] = struct{}{}
	}

	var rest []int
	for _, id := range e.activeIDs() {
		if _, ok := pooled[id]; ok || e.InBlacklist(id) {
			continue
		}
		rest = append(rest, id)
	}

	slices.SortFunc(rest, func(a, b int) int {
		if c := cmp.Compare(e.counts[a], e.counts[b]); c != 0 {
			return c
		}
		if c := cmp.Compare(backfillRound(e.lastDrawRound(a)), backfillRound(e.lastDrawRound(b))); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	need := e.cfg.MinPoolSize - len(candidates)
	return append(candidates, rest[:min(need, len(rest))]...)
}

// backfillRound ranks never-drawn ids after every drawn one.
func backfillRound(round int) int {
	if round < 0 {
		return math.MaxInt
	}
	return round
}

// atMost keeps the ids whose count does not exceed limit.
func (e *Engine) atMost(ids []int, limit float64) []int {
	kept := make([]int, 0, len(ids))
	for _, id := range ids {
		if float64(e.counts[id]) <= limit {
			kept = append(kept, id)
		}
	}
	return kept
}

// activeIDs returns the universe and whitelist ids, ascending.
func (e *Engine) activeIDs() []int {
	ids := e.space.IDs()
	for _, id := range sortedSet(e.whitelist) {
		if !e.space.Contains(id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// activeCount is |universe| + |whitelist \ universe|.
func (e *Engine) activeCount() int {
	n := e.space.Len()
	for id := range e.whitelist {
		if !e.space.Contains(id) {
			n++
		}
	}
	return n
}

func (e *Engine) meanCount(ids []int) float64 {
	if len(ids) == 0 {
		return 0
	}
	total := 0
	for _, id := range ids {
		total += e.counts[id]
	}
	return float64(total) / float64(len(ids))
}

func (e *Engine) countBounds(ids []int) (lo, hi int) {
	for i, id := range ids {
		c := e.counts[id]
		if i == 0 || c < lo {
			lo = c
		}
		if i == 0 || c > hi {
			hi = c
		}
	}
	return lo, hi
}

func (e *Engine) countGap(ids []int) int {
	lo, hi := e.countBounds(ids)
	return hi - lo
}

func (e *Engine) lastDrawRound(id int) int {
	if r, ok := e.lastRound[id]; ok {
		return r
	}
	return neverDrawn
}

func sortedSet(set map[int]struct{}) []int {
	ids := slices.Collect(maps.Keys(set))
	if ids == nil {
		ids = []int{}
	}
	slices.Sort(ids)
	return ids
}
