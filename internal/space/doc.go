// Package space defines the identifier universe a draw engine runs over.
//
// A universe is built once, either from an inclusive integer range or from an
// explicit list, and is resolved into a canonical ascending, deduplicated id
// sequence. Nothing downstream branches on how the universe was declared; the
// declaration only survives in the Kind tag and in the parameters used to
// derive the deterministic persistence ID.
//
// # Deterministic IDs
//
// Snapshots are stored under "{kind}_{param1}_{param2}_...". For list
// universes only the first MaxListIDParams ids contribute to the key, so two
// large lists sharing a prefix collide. Stores written by earlier versions
// rely on this exact format, so it is kept as is.
package space
