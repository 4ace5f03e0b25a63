// Package logging defines the structured-logging interface used by the
// taskkeeper client. The only implementation wraps log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Warn(ctx, "indexed backend unavailable", "path", path, "err", err)
type Logger interface {
	// Debug logs verbose diagnostics (query results, debounce activity).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions, such as a backend fallback.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures that were swallowed at a boundary.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
