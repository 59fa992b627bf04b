package common

import (
	"context"
	"log"
)

// StageLogger provides structured logging for orchestrator stage execution.
// Kept deliberately minimal (no external logging backend) — every call site
// funnels through this interface and a context key, so stages never import
// a concrete logging library directly.
type StageLogger interface {
	Log(level, message string, fields map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger StageLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) StageLogger {
	if logger, ok := ctx.Value(loggerKey).(StageLogger); ok {
		return logger
	}
	return &noOpLogger{}
}

// StdLogger logs through the standard library "log" package, one line per
// call carrying the level, message and fields.
type StdLogger struct{}

func (StdLogger) Log(level, message string, fields map[string]interface{}) {
	log.Printf("level=%s msg=%q fields=%v", level, message, fields)
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, fields map[string]interface{}) {
	// Do nothing
}
