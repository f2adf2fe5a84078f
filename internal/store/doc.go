// Package store provides SQLite-backed storage for entity tables and the
// query log.
//
// The store has two jobs:
//   - Entity tables: one table per ir.EntitySpec, created from the spec and
//     queried with the SQL the optimizer renders.
//   - Query log: an append-only record of every executed query (SQL,
//     bound parameters, chosen optimizer, residual size, row count).
//
// # Critical Patterns
//
// Logical Ordering
//   - The query log is ordered by seq INTEGER, never by timestamps
//   - Log reads use ORDER BY seq ASC, id ASC COLLATE BINARY
//
// Canonical Parameters
//   - Bound parameters are stored as canonical JSON (see ir.MarshalCanonical)
//   - Identical queries produce byte-identical log rows
//
// Typed Rows
//   - Result columns are converted back into IR values by the declared
//     column type, so a bool column reads as IRBool even though SQLite
//     stores it as an INTEGER
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
