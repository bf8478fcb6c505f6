// Package library maintains a sqlite catalog of known pattern projects.
//
// The catalog indexes .ledproj files by pattern ID so the CLI can list and
// look up patterns without parsing every project file. A file lock next to
// the database serializes access across processes; sqlite's WAL mode and a
// busy-retry loop handle contention within one.
//
// The catalog is a cache over the filesystem, never the source of truth.
// Reindex rebuilds it from the projects directory at any time.
package library
