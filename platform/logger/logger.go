// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// DeviceIDKey is the context key for the client device ID
	DeviceIDKey contextKey = "device_id"
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

// WithContext returns a logger with context values extracted.
// Supports request_id and device_id from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = newLogger.WithRequestID(requestID)
	}

	if deviceID, ok := ctx.Value(DeviceIDKey).(string); ok && deviceID != "" {
		newLogger = newLogger.WithDeviceID(deviceID)
	}

	return newLogger
}

// WithRequestID returns a logger with request ID
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("request_id", requestID)),
	}
}

// WithDeviceID returns a logger with the client device ID
func (l *Logger) WithDeviceID(deviceID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("device_id", deviceID)),
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

// SearchOutcome logs the internal outcome of a generative search call.
// The external contract folds failures into an empty result set, so this is
// the only place the distinct failure modes remain observable.
func (l *Logger) SearchOutcome(query, locale, outcome string, results int) {
	l.Info("search_outcome",
		slog.String("query", query),
		slog.String("locale", locale),
		slog.String("outcome", outcome),
		slog.Int("results", results),
	)
}

// UpstreamError logs a failed call to an external provider.
func (l *Logger) UpstreamError(provider, operation string, err error) {
	l.Error("upstream_error",
		slog.String("provider", provider),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// CoverMiss logs a cover lookup that resolved without an image.
// Cover resolution is a soft failure path; misses are expected.
func (l *Logger) CoverMiss(name, reason string) {
	l.Debug("cover_miss",
		slog.String("name", name),
		slog.String("reason", reason),
	)
}

// StaleEnrichment logs a cover patch dropped because its batch was superseded.
func (l *Logger) StaleEnrichment(batchID string, index int) {
	l.Debug("stale_enrichment_dropped",
		slog.String("batch_id", batchID),
		slog.Int("index", index),
	)
}
