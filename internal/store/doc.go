// Package store persists draw engine snapshots.
//
// A store is a single logical map from deterministic snapshot ID to Snapshot.
// It is always loaded and saved whole; there is no partial update path.
// Upsert is load, replace one key, save.
//
// # Backends
//
//   - JSONFile: one pretty-printed JSON object on disk. This is the
//     interchange format and the default.
//   - SQLite: one row per snapshot, body stored as the same JSON document.
//     Save replaces the table contents inside one transaction.
//   - Memory: process-local, used by tests and the scenario harness.
//
// # Failure model
//
// A missing backing file loads as an empty map. A file that exists but
// cannot be decoded is an error; callers decide whether to continue.
// There is no crash safety: a process killed mid-save can leave a truncated
// JSON file behind.
package store
