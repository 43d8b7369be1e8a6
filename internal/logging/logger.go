// Package logging defines the structured-logging interface the service
// is written against. The only implementation today wraps slog, but the
// interface keeps handlers and services decoupled from the backend.
package logging

import "context"

// Logger is a leveled, context-aware logger. Variadic args are
// alternating key-value pairs:
//
//	log.Info(ctx, "server started", "addr", addr)
type Logger interface {
	// Debug logs diagnostic detail, normally disabled in production.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs normal operational events.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs suspicious but recoverable conditions, such as a
	// request carrying an invalid bearer token.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger whose entries always carry the given
	// key-value pairs.
	With(args ...any) Logger
}
