// Package infrastructure provides the shared logging setup and
// trace-id context plumbing used across the service.
package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"spendlens/internal/config"
)

var (
	globalLogger     *slog.Logger
	globalLoggerOnce sync.Once
)

type contextKey string

// traceIDContextKey is the key for storing the trace ID in a context.
const traceIDContextKey contextKey = "trace_id"

// InitializeLogger creates and configures the global slog logger.
// Called once during application startup; later calls return the same
// instance.
func InitializeLogger(cfg config.LoggingConfig) *slog.Logger {
	globalLoggerOnce.Do(func() {
		globalLogger = createLogger(cfg)
		slog.SetDefault(globalLogger)
	})
	return globalLogger
}

// GetLogger returns the global logger, falling back to slog's default
// before initialization.
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

func createLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	var output io.Writer = os.Stdout
	if strings.EqualFold(cfg.Output, "stderr") {
		output = os.Stderr
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}
	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithTraceID stores a trace ID in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDContextKey, traceID)
}

// GetTraceID retrieves the trace ID from the context, or "".
func GetTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDContextKey).(string); ok {
		return v
	}
	return ""
}
