package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// JSONFile stores every snapshot in one JSON object at a fixed path.
type JSONFile struct {
	path string
}

// NewJSONFile returns a store backed by the file at path. The file is not
// touched until the first Load or Save.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the backing file path.
func (f *JSONFile) Path() string {
	return f.path
}

// Load reads the whole snapshot map. A missing or empty file yields an empty
// map; undecodable content is an error.
func (f *JSONFile) Load(ctx context.Context) (map[string]Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]Snapshot), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot file %s: %w", f.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return make(map[string]Snapshot), nil
	}

	snaps := make(map[string]Snapshot)
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, fmt.Errorf("decode snapshot file %s: %w", f.path, err)
	}
	return snaps, nil
}

// Save overwrites the file with the full map.
func (f *JSONFile) Save(ctx context.Context, snaps map[string]Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshots: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot file %s: %w", f.path, err)
	}
	return nil
}

// Close is a no-op; JSONFile holds no open handles between calls.
func (f *JSONFile) Close() error {
	return nil
}
