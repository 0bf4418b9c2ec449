// Package observability carries request and analysis identifiers through a
// context so every log line of an operation can be correlated.
package observability

import (
	"context"
	"log/slog"

	"github.com/anorak1709/research-usecase-generator/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	RequestID  string
	AnalysisID string
	Stage      string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithRequestID adds an HTTP request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	lc := extractLogContext(ctx)
	lc.RequestID = requestID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithAnalysisID adds an analysis ID to the context.
func WithAnalysisID(ctx context.Context, analysisID string) context.Context {
	lc := extractLogContext(ctx)
	lc.AnalysisID = analysisID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a pipeline stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := extractLogContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

// Attrs returns the non-empty context fields as slog attributes.
func Attrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}
	if lc.RequestID != "" {
		attrs = append(attrs, logfields.RequestID(lc.RequestID))
	}
	if lc.AnalysisID != "" {
		attrs = append(attrs, logfields.AnalysisID(lc.AnalysisID))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	return attrs
}

// Logger returns base enriched with the context fields. A nil base uses
// slog.Default.
func Logger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	attrs := Attrs(ctx)
	if len(attrs) == 0 {
		return base
	}
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return base.With(args...)
}
