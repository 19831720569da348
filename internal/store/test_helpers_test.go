package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/balancedraw/internal/space"
)

// createTestSQLite opens a SQLite store in a temp directory.
func createTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// sampleSnapshot builds a snapshot for a range universe 1..3.
func sampleSnapshot(id string) Snapshot {
	return Snapshot{
		ID:                   id,
		LastUpdated:          time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		DrawCounts:           map[int]int{1: 2, 2: 0, 3: 1},
		LastDrawRound:        map[int]int{1: 3, 2: -1, 3: 1},
		CurrentRound:         3,
		TotalDraws:           3,
		CurrentProbabilities: map[int]float64{1: 0, 2: 0.75, 3: 0.25},
		MinPoolSize:          2,
		MaxGapThreshold:      5,
		ColdStartBoost:       2,
		DecayFactor:          0.7,
		DataType:             space.KindRange,
		Numbers:              []int{},
		NumberRangeStart:     1,
		NumberRangeEnd:       3,
		Blacklist:            []int{},
		Whitelist:            []int{9},
	}
}
