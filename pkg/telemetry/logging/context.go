package logging

import (
	"context"
	"log/slog"
)

type contextKey string

// BuildIDKey is the context key for the build id.
const BuildIDKey contextKey = "build_id"

// WithBuildID adds a build id to the context.
func WithBuildID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, BuildIDKey, id)
}

// GetBuildID retrieves the build id from the context.
func GetBuildID(ctx context.Context) string {
	if id, ok := ctx.Value(BuildIDKey).(string); ok {
		return id
	}
	return ""
}

// WithContext returns logger annotated with the ids carried by ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if id := GetBuildID(ctx); id != "" {
		return logger.With(string(BuildIDKey), id)
	}
	return logger
}
