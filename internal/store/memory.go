package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store. Loads and saves copy snapshots so callers
// never share maps with the store.
type Memory struct {
	mu    sync.Mutex
	snaps map[string]Snapshot
	saves int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{snaps: make(map[string]Snapshot)}
}

func (m *Memory) Load(ctx context.Context) (map[string]Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.snaps), nil
}

func (m *Memory) Save(ctx context.Context, snaps map[string]Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps = cloneAll(snaps)
	m.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Memory) Close() error {
	return nil
}

func cloneAll(snaps map[string]Snapshot) map[string]Snapshot {
	out := make(map[string]Snapshot, len(snaps))
	for id, snap := range snaps {
		out[id] = snap.Clone()
	}
	return out
}
