// Package store provides SQLite-backed storage for depth tables.
//
// A depth table holds one record per input row: a REAL depth column followed by
// Width REAL sample columns (col0..col{Width-1}). Tables are replaced wholesale,
// never updated in place.
//
// # Operations
//
//   - ReplaceTable: drop, create, index and bulk insert in one transaction
//   - QueryRange: inclusive depth range lookup (depth BETWEEN min AND max)
//   - TableWidth: sample column count of an existing table
//   - Stats: row count and depth bounds
//
// # Ordering
//
// Range results are ordered by depth ascending, with insertion order (rowid)
// breaking ties. Renderers label the horizontal axis from the first and last
// depth, so they rely on this.
//
// # Missing values
//
// NaN samples are written as NULL and read back as NaN.
//
// # Database Configuration
//
//   - Single connection: the handle is shared by ingest and every query
//   - WAL mode for file databases
//   - synchronous=NORMAL
//   - busy_timeout=5000
//
// SQL text is produced by package querysql.
package store
