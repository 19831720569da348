package store

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/roach88/balancedraw/internal/space"
)

// Store loads and saves the whole snapshot map.
type Store interface {
	Load(ctx context.Context) (map[string]Snapshot, error)
	Save(ctx context.Context, snaps map[string]Snapshot) error
}

// ClosableStore is a Store holding resources that must be released.
type ClosableStore interface {
	Store
	io.Closer
}

// Backend names a store implementation.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
)

// ValidBackends lists the accepted backend names.
var ValidBackends = []Backend{BackendJSON, BackendSQLite}

// Open returns the backend stored at path.
func Open(backend Backend, path string) (ClosableStore, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONFile(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q: must be one of %v", backend, ValidBackends)
	}
}

// Snapshot is the persisted form of one engine. Integer-keyed maps encode
// their keys as decimal strings.
type Snapshot struct {
	ID                   string          `json:"id"`
	LastUpdated          time.Time       `json:"last_updated"`
	DrawCounts           map[int]int     `json:"draw_counts"`
	LastDrawRound        map[int]int     `json:"last_draw_round"`
	CurrentRound         int             `json:"current_round"`
	TotalDraws           int             `json:"total_draws"`
	CurrentProbabilities map[int]float64 `json:"current_probabilities"`

	MinPoolSize     int     `json:"min_pool_size"`
	MaxGapThreshold int     `json:"max_gap_threshold"`
	ColdStartBoost  float64 `json:"cold_start_boost"`
	DecayFactor     float64 `json:"decay_factor"`

	DataType space.Kind `json:"data_type"`

	// Grid dimensions, 0 for non-grid snapshots.
	Rows int `json:"rows"`
	Cols int `json:"cols"`

	// Explicit list, empty for range and grid snapshots.
	Numbers []int `json:"numbers"`

	NumberRangeStart int `json:"number_range_start"`
	NumberRangeEnd   int `json:"number_range_end"`

	Blacklist         []int `json:"blacklist"`
	Whitelist         []int `json:"whitelist"`
	WhitelistOnlyMode bool  `json:"whitelist_only_mode"`
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.DrawCounts = maps.Clone(s.DrawCounts)
	c.LastDrawRound = maps.Clone(s.LastDrawRound)
	c.CurrentProbabilities = maps.Clone(s.CurrentProbabilities)
	c.Numbers = slices.Clone(s.Numbers)
	c.Blacklist = slices.Clone(s.Blacklist)
	c.Whitelist = slices.Clone(s.Whitelist)
	return c
}

// FindMatching looks up the snapshot stored under the deterministic ID for
// kind and params. Only exact matches are returned.
func FindMatching(snaps map[string]Snapshot, kind space.Kind, params ...string) (Snapshot, bool) {
	snap, ok := snaps[space.GenerateID(kind, params...)]
	return snap, ok
}

// Upsert stores snap under snap.ID, keeping every other entry. A store that
// fails to load is not overwritten.
func Upsert(ctx context.Context, st Store, snap Snapshot) error {
	snaps, err := st.Load(ctx)
	if err != nil {
		return fmt.Errorf("load before save: %w", err)
	}
	if snaps == nil {
		snaps = make(map[string]Snapshot)
	}
	snaps[snap.ID] = snap
	if err := st.Save(ctx, snaps); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// SortedIDs returns the snapshot keys in ascending order.
func SortedIDs(snaps map[string]Snapshot) []string {
	return slices.Sorted(maps.Keys(snaps))
}
