package engine

import (
	"context"
	"maps"

	"github.com/roach88/balancedraw/internal/store"
)

// Snapshot captures the persistable engine state under the engine's ID.
func (e *Engine) Snapshot() store.Snapshot {
	start, end := e.space.Bounds()
	numbers := e.space.List()
	if numbers == nil {
		numbers = []int{}
	}

	snap := store.Snapshot{
		ID:                   e.id,
		LastUpdated:          e.now().UTC(),
		DrawCounts:           maps.Clone(e.counts),
		LastDrawRound:        maps.Clone(e.lastRound),
		CurrentRound:         e.clock.Current(),
		TotalDraws:           e.totalDraws,
		CurrentProbabilities: maps.Clone(e.probabilities),
		MinPoolSize:          e.cfg.MinPoolSize,
		MaxGapThreshold:      e.cfg.MaxGapThreshold,
		ColdStartBoost:       e.cfg.ColdStartBoost,
		DecayFactor:          e.cfg.DecayFactor,
		DataType:             e.space.Kind(),
		Numbers:              numbers,
		NumberRangeStart:     start,
		NumberRangeEnd:       end,
		Blacklist:            e.Blacklist(),
		Whitelist:            e.Whitelist(),
		WhitelistOnlyMode:    e.whitelistOnly,
	}
	if e.stamp != nil {
		e.stamp(&snap)
	}
	return snap
}

// Restore applies snap in place.
//
// Lists and mode are restored first, so whitelist extension ids are known;
// then counts and rounds are copied for ids the engine already tracks. Ids the
// engine does not know are dropped, which keeps restores working when the
// universe grows. Tuning parameters are taken from the snapshot when they
// form a valid configuration. Probabilities are recomputed, not copied.
func (e *Engine) Restore(snap store.Snapshot) {
	e.blacklist = make(map[int]struct{}, len(snap.Blacklist))
	for _, id := range snap.Blacklist {
		e.blacklist[id] = struct{}{}
	}
	e.validateBlacklist()

	e.whitelist = make(map[int]struct{}, len(snap.Whitelist))
	for _, id := range snap.Whitelist {
		e.whitelist[id] = struct{}{}
	}
	e.trackWhitelist()
	e.whitelistOnly = snap.WhitelistOnlyMode

	for id, c := range snap.DrawCounts {
		if _, ok := e.counts[id]; ok {
			e.counts[id] = c
		}
	}
	for id, r := range snap.LastDrawRound {
		if _, ok := e.lastRound[id]; ok {
			e.lastRound[id] = r
		}
	}

	e.clock = NewClockAt(snap.CurrentRound)
	e.totalDraws = snap.TotalDraws

	restored := Config{
		MinPoolSize:     snap.MinPoolSize,
		MaxGapThreshold: snap.MaxGapThreshold,
		ColdStartBoost:  snap.ColdStartBoost,
		DecayFactor:     snap.DecayFactor,
	}
	if restored.Validate() == nil {
		e.cfg = restored
	}

	e.refresh()
}

// Load restores the snapshot stored under the engine's ID, if any.
// Reports whether a snapshot was found.
func (e *Engine) Load(ctx context.Context, st store.Store) (bool, error) {
	snaps, err := st.Load(ctx)
	if err != nil {
		return false, NewPersistenceError(e.id, "load", err)
	}

	snap, ok := snaps[e.id]
	if !ok {
		e.logger.Debug("no stored snapshot", "engine", e.id)
		return false, nil
	}

	e.Restore(snap)
	e.logger.Info("snapshot restored",
		"engine", e.id,
		"round", e.clock.Current(),
		"total_draws", e.totalDraws,
	)
	return true, nil
}

// Save writes the current snapshot, keeping every other stored entry.
func (e *Engine) Save(ctx context.Context, st store.Store) error {
	if err := store.Upsert(ctx, st, e.Snapshot()); err != nil {
		return NewPersistenceError(e.id, "save", err)
	}
	e.logger.Debug("snapshot saved", "engine", e.id)
	return nil
}
