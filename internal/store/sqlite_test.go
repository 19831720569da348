package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenSQLite_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("final OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	var name string
	err = s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='snapshots'").Scan(&name)
	if err != nil {
		t.Errorf("snapshots table not found after idempotent opens: %v", err)
	}
}

func TestOpenSQLite_InvalidPath(t *testing.T) {
	_, err := OpenSQLite("/nonexistent/dir/test.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestOpenSQLite_Pragmas(t *testing.T) {
	s := createTestSQLite(t)

	if err := s.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
	if err := s.verifyPragma("synchronous", "1"); err != nil {
		t.Error(err)
	}
	if err := s.verifyPragma("busy_timeout", "5000"); err != nil {
		t.Error(err)
	}
	if err := s.verifyPragma("user_version", "1"); err != nil {
		t.Error(err)
	}
}

func TestSQLite_LoadEmpty(t *testing.T) {
	s := createTestSQLite(t)

	snaps, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("expected empty map, got %d entries", len(snaps))
	}
}

func TestSQLite_SaveReplacesWholeMap(t *testing.T) {
	s := createTestSQLite(t)
	ctx := context.Background()

	first := map[string]Snapshot{
		"a": sampleSnapshot("a"),
		"b": sampleSnapshot("b"),
	}
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	second := map[string]Snapshot{"b": sampleSnapshot("b")}
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}

	snaps, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}
	if _, ok := snaps["a"]; ok {
		t.Error("snapshot a should have been removed by the second save")
	}
	got := snaps["b"]
	if got.DrawCounts[1] != 2 || got.LastDrawRound[2] != -1 || got.TotalDraws != 3 {
		t.Errorf("unexpected snapshot contents: %+v", got)
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	if err := Upsert(ctx, s1, sampleSnapshot("keep")); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}
	s1.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	snaps, err := s2.Load(ctx)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if _, ok := snaps["keep"]; !ok {
		t.Error("snapshot did not survive reopen")
	}
}

func TestSQLite_DataTypeColumn(t *testing.T) {
	s := createTestSQLite(t)
	ctx := context.Background()

	if err := s.Save(ctx, map[string]Snapshot{"x": sampleSnapshot("x")}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	var dataType string
	if err := s.db.QueryRow("SELECT data_type FROM snapshots WHERE id = 'x'").Scan(&dataType); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if dataType != "BalancedRand_Range" {
		t.Errorf("data_type = %q, want BalancedRand_Range", dataType)
	}
}

func TestSQLite_SchemaHasNoSecondaryIndexes(t *testing.T) {
	s := createTestSQLite(t)

	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND tbl_name = 'snapshots' AND sql IS NOT NULL",
	).Scan(&n)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if n != 0 {
		t.Errorf("snapshots has %d explicit indexes, want 0", n)
	}
}
