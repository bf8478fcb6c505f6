// Package logging assembles the structured slog loggers used across ledproj.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and provides component-tagged and no-op loggers for wiring code
// and tests. Prefer these constructors over hand-rolled slog setup so every
// subsystem emits log lines with the same shape.
package logging
