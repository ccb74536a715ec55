// Package store provides SQLite-backed storage for bi-temporal record
// versions and their shape index.
//
// The store keeps two tables:
//   - versions: every version ever written, keyed by content-addressed ID
//   - shapes: one row per version locating it in partition P1..P4
//
// # Transaction Time
//
// Transaction time is assigned by the store from its Clock, never by the
// writer. Writing a new version of a key closes the key's open version: its
// tt_to becomes the new version's tt_from and its shape moves from P1/P2 to
// P3/P4. Versions are never deleted.
//
// # Deterministic Query Results
//
//   - All queries include ORDER BY ... COLLATE BINARY
//   - Search results are ordered by version ID
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Version IDs are computed by ir.VersionID using RFC 8785 canonical JSON and
// SHA-256 with domain separation.
package store
