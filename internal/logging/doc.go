// Package logging assembles the structured slog loggers used across nvcheck.
//
// It owns the console and JSON handlers, centralizes level plumbing, and
// provides attr helpers plus a no-op logger so wiring code cannot fail.
// Prefer these constructors over hand-rolled slog setup so every component
// emits the same shape.
package logging
