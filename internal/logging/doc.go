// Package logging builds the slog loggers used across synopsis.
//
// It offers console and JSON handlers selected from configuration, typed
// attribute helpers so call sites stay terse, component loggers for
// per-subsystem prefixes, and a no-op logger for tests. When a log directory
// is configured, output is mirrored to a synopsis.log file.
package logging
