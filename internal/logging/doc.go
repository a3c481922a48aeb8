// Package logging assembles the structured slog loggers used across loom.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with workflow IDs, stages, and correlation IDs without threading
// attributes by hand. A no-op logger is provided for tests and wiring code
// that cannot fail.
package logging
