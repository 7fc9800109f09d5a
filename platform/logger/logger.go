// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithTenant returns a logger with the tenant slug attached.
func (l *Logger) WithTenant(tenant string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("tenant", tenant)),
	}
}

// WithCallID returns a logger with the call ID attached.
func (l *Logger) WithCallID(callID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("call_id", callID)),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// TurnEvent logs a dialog turn outcome.
func (l *Logger) TurnEvent(callID, tenant, state string, slotsFilled int) {
	l.Info("dialog_turn",
		slog.String("call_id", callID),
		slog.String("tenant", tenant),
		slog.String("state", state),
		slog.Int("slots_filled", slotsFilled),
	)
}

// ToolEvent logs a dispatched tool execution.
func (l *Logger) ToolEvent(tenant, tool string, err error) {
	if err != nil {
		l.Warn("tool_dispatch",
			slog.String("tenant", tenant),
			slog.String("tool", tool),
			slog.String("error", err.Error()),
		)
		return
	}
	l.Info("tool_dispatch",
		slog.String("tenant", tenant),
		slog.String("tool", tool),
	)
}

// EmailEvent logs an outbound notification attempt.
func (l *Logger) EmailEvent(to, subject string, err error) {
	if err != nil {
		l.Warn("email_send",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
		return
	}
	l.Info("email_send",
		slog.String("to", to),
		slog.String("subject", subject),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
