package engine

import (
	"maps"
	"slices"
)

// IDStat is one row of engine statistics.
type IDStat struct {
	ID            int     `json:"id"`
	DrawCount     int     `json:"draw_count"`
	LastDrawRound int     `json:"last_draw_round"`
	Probability   float64 `json:"probability"`
	InPool        bool    `json:"in_pool"`
	Blacklisted   bool    `json:"blacklisted,omitempty"`
	Whitelisted   bool    `json:"whitelisted,omitempty"`
}

// Statistics returns one row per active id (universe plus whitelist),
// ascending by id.
func (e *Engine) Statistics() []IDStat {
	active := e.activeIDs()
	stats := make([]IDStat, 0, len(active))
	for _, id := range active {
		stats = append(stats, IDStat{
			ID:            id,
			DrawCount:     e.counts[id],
			LastDrawRound: e.lastDrawRound(id),
			Probability:   e.probabilities[id],
			InPool:        slices.Contains(e.pool, id),
			Blacklisted:   e.InBlacklist(id),
			Whitelisted:   e.InWhitelist(id),
		})
	}
	return stats
}

// Probabilities returns the last computed selection probability per active id.
func (e *Engine) Probabilities() map[int]float64 {
	return maps.Clone(e.probabilities)
}

// Probability returns the selection probability of id, 0 outside the pool.
func (e *Engine) Probability(id int) float64 {
	return e.probabilities[id]
}

// DrawCounts returns a copy of the per-id draw counts.
func (e *Engine) DrawCounts() map[int]int {
	return maps.Clone(e.counts)
}

// DrawCount returns how often id was drawn since the last reset.
func (e *Engine) DrawCount(id int) int {
	return e.counts[id]
}

// LastDrawRound returns the round id was last drawn in, or -1.
func (e *Engine) LastDrawRound(id int) int {
	return e.lastDrawRound(id)
}

// AverageDrawCount returns the mean draw count over the active set.
func (e *Engine) AverageDrawCount() float64 {
	return e.meanCount(e.activeIDs())
}

// MaxDrawCountGap returns max-min draw count over the active set.
func (e *Engine) MaxDrawCountGap() int {
	return e.countGap(e.activeIDs())
}

// Pool returns the current candidate pool in selection order.
func (e *Engine) Pool() []int {
	return slices.Clone(e.pool)
}

// CurrentRound returns the number of rounds since the last reset.
func (e *Engine) CurrentRound() int {
	return e.clock.Current()
}

// TotalDraws returns the number of successful draws since the last reset.
func (e *Engine) TotalDraws() int {
	return e.totalDraws
}
