package plane

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/balancedraw/internal/space"
	"github.com/roach88/balancedraw/internal/store"
)

// ProbabilitiesFromStore reads the per-cell probabilities of the first stored
// plane of the given dimensions, without building an engine. Blacklisted and
// missing cells report 0.
func ProbabilitiesFromStore(ctx context.Context, st store.Store, rows, cols int) (map[Position]float64, error) {
	snap, err := findSnapshot(ctx, st, rows, cols)
	if err != nil {
		return nil, err
	}

	out := make(map[Position]float64, rows*cols)
	for i := 0; i < rows*cols; i++ {
		pos := Position{Row: i/cols + 1, Col: i%cols + 1}
		if slices.Contains(snap.Blacklist, i) {
			out[pos] = 0
			continue
		}
		out[pos] = snap.CurrentProbabilities[i]
	}
	return out, nil
}

// DrawCountsFromStore reads the per-cell draw counts of the first stored
// plane of the given dimensions. Blacklisted and missing cells report 0.
func DrawCountsFromStore(ctx context.Context, st store.Store, rows, cols int) (map[Position]int, error) {
	snap, err := findSnapshot(ctx, st, rows, cols)
	if err != nil {
		return nil, err
	}

	out := make(map[Position]int, rows*cols)
	for i := 0; i < rows*cols; i++ {
		pos := Position{Row: i/cols + 1, Col: i%cols + 1}
		if slices.Contains(snap.Blacklist, i) {
			out[pos] = 0
			continue
		}
		out[pos] = snap.DrawCounts[i]
	}
	return out, nil
}

// findSnapshot scans snapshot IDs in ascending order so the match is stable
// when several tunings share the same dimensions.
func findSnapshot(ctx context.Context, st store.Store, rows, cols int) (store.Snapshot, error) {
	if rows <= 0 || cols <= 0 {
		return store.Snapshot{}, fmt.Errorf("invalid grid %dx%d", rows, cols)
	}

	snaps, err := st.Load(ctx)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("load snapshots: %w", err)
	}

	for _, id := range store.SortedIDs(snaps) {
		snap := snaps[id]
		if snap.DataType == space.KindPlane && snap.Rows == rows && snap.Cols == cols {
			return snap, nil
		}
	}
	return store.Snapshot{}, fmt.Errorf("%w: %dx%d", ErrSnapshotNotFound, rows, cols)
}
