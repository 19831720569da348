package engine

import "math"

// minWeight keeps every pooled id strictly selectable.
const minWeight = 0.01

type weightedID struct {
	id     int
	weight float64
}

// weights computes selection weights for the pool as of round.
func (e *Engine) weights(round int) []weightedID {
	active := e.activeCount()
	out := make([]weightedID, 0, len(e.pool))
	for _, id := range e.pool {
		if e.InBlacklist(id) {
			continue
		}
		out = append(out, weightedID{id: id, weight: e.weightOf(id, round, active)})
	}
	return out
}

func (e *Engine) weightOf(id, round, activeCount int) float64 {
	count := e.counts[id]
	weight := 1.0

	weight *= math.Pow(e.cfg.DecayFactor, float64(count))

	last := e.lastDrawRound(id)
	if last < 0 {
		weight *= e.cfg.ColdStartBoost
	} else {
		gap := round - last
		if gap > activeCount/2 {
			weight *= 1 + math.Log(float64(gap)+1)/10
		}
	}

	weight *= 1 / float64(count+1)

	if !e.space.Contains(id) && e.InWhitelist(id) {
		weight *= e.cfg.ColdStartBoost
	}

	return math.Max(weight, minWeight)
}

// pick samples one id proportionally to its weight. Degenerate weights fall
// back to a uniform pick over the pool.
func (e *Engine) pick(ws []weightedID) (int, error) {
	total := 0.0
	for _, w := range ws {
		total += w.weight
	}

	if len(ws) > 0 && total > 0 && !math.IsInf(total, 0) && !math.IsNaN(total) {
		r := e.source.Float64() * total
		for _, w := range ws {
			if r < w.weight {
				return w.id, nil
			}
			r -= w.weight
		}
		return ws[len(ws)-1].id, nil
	}

	if len(e.pool) == 0 {
		return 0, NewSelectionImpossibleError(e.id)
	}
	e.logger.Warn("degenerate weights, falling back to uniform pick", "engine", e.id)
	return e.pool[e.source.IntN(len(e.pool))], nil
}

// updateProbabilities normalizes the current weights over the pool. Active ids
// outside the pool get exactly 0.
func (e *Engine) updateProbabilities() {
	active := e.activeIDs()
	probs := make(map[int]float64, len(active))
	for _, id := range active {
		probs[id] = 0
	}

	ws := e.weights(e.clock.Current())
	total := 0.0
	for _, w := range ws {
		total += w.weight
	}
	if total > 0 {
		for _, w := range ws {
			probs[w.id] = w.weight / total
		}
	}

	e.probabilities = probs
}
