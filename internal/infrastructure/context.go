package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NewRunID creates a new unique run identifier using UUID v4
func NewRunID() string {
	return uuid.New().String()
}

// ContextWithRunID returns ctx carrying runID as its trace id, generating
// one when runID is empty. The effective id is returned alongside.
func ContextWithRunID(ctx context.Context, runID string) (context.Context, string) {
	if runID == "" {
		runID = NewRunID()
	}
	return WithTraceID(ctx, runID), runID
}

// EnsureTraceID ensures the context has a trace ID, generating one if needed
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) == "" {
		return WithTraceID(ctx, NewRunID())
	}
	return ctx
}

// WithComponent creates a logger with a component field
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	return logger.With("component", component)
}

// WithError creates a logger with an error field
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With("error", err.Error())
}
