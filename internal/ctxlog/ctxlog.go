// Package ctxlog passes a request-scoped slog.Logger through
// context.Context so the provisioning pipeline can log with the
// delivery id and issue key attached without threading a logger
// argument everywhere.
package ctxlog

import (
	"context"
	"log/slog"
)

type key struct{}

var loggerKey = key{}

// With returns a new context carrying the provided logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// From extracts the logger from the context, falling back to
// slog.Default when none was attached.
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
