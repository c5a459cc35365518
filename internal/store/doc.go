// Package store persists engine state in SQLite and exposes the narrow
// key-value and daily-history surface the step engine depends on.
//
// The Store manages the database connection, schema initialization, a
// namespaced engine_state key-value table (ledger baselines, sedentary
// timestamps, goal dedup markers), and the daily_steps history table. The
// database is shared infrastructure: every key the engine writes carries the
// "stride." prefix so other tools can safely cohabit the file.
//
// The engine treats writes as best-effort. Callers log and continue on
// failure; nothing in the step pipeline blocks on persistence.
package store
