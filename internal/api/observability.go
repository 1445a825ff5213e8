package api

import (
	"context"
	"log/slog"
)

// CallEvent records metadata about a single backend call.
type CallEvent struct {
	Method    string
	Path      string
	RequestID string
	Status    int
	Attempts  int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about backend calls.
type Observer interface {
	OnCallComplete(ctx context.Context, event CallEvent)
}

// LogObserver writes call events to a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(ctx context.Context, e CallEvent) {
	attrs := []any{
		"method", e.Method,
		"path", e.Path,
		"request_id", e.RequestID,
		"status", e.Status,
		"attempts", e.Attempts,
		"latency_ms", e.LatencyMs,
	}
	if !e.Success {
		o.logger.WarnContext(ctx, "api_call", append(attrs, "error_code", e.ErrorCode)...)
		return
	}
	o.logger.DebugContext(ctx, "api_call", attrs...)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(context.Context, CallEvent) {}
