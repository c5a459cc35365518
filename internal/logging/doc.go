// Package logging assembles the structured slog loggers used across the
// stride daemon and CLI.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes typed attribute helpers plus standardized field
// constants so engine components tag log lines consistently (component, signal
// source, step counts, ledger date). A no-op logger is provided for tests and
// wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape and routing guarantees.
package logging
