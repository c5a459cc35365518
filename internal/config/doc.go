// Package config loads, normalizes, and validates stride's TOML configuration.
//
// Configuration lives at ~/.config/stride/config.toml by default, with a
// project-local stride.toml fallback for development. Load applies repository
// defaults first, then overlays the file, expands ~ in path fields, and
// validates the result so downstream packages never re-check ranges.
//
// Sections map to subsystems: [paths] for on-disk locations, [tracking] for
// signal-source and ledger tuning, [sedentary] for the inactivity monitor,
// [notifications] for ntfy delivery, [logging] for output format and
// retention.
package config
