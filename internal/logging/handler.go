// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

// Package logging provides structured logging with OpenTelemetry trace
// context and redaction of secret-bearing attributes.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gobwas/glob"
	"go.opentelemetry.io/otel/trace"
)

// secretPatterns match attribute keys whose values must never reach the
// log output. Matching is case-insensitive on the key.
var secretPatterns = []glob.Glob{
	glob.MustCompile("*password*"),
	glob.MustCompile("*credential*"),
	glob.MustCompile("*token*"),
	glob.MustCompile("*secret*"),
}

const redactedValue = "[redacted]"

// appHandler wraps a slog.Handler to add trace context and redact secrets.
type appHandler struct {
	handler slog.Handler
	service string
	version string
}

// Handle adds trace context to the log record and redacts secret attrs.
func (h *appHandler) Handle(ctx context.Context, r slog.Record) error {
	nr := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		nr.AddAttrs(redactAttr(a))
		return true
	})

	nr.AddAttrs(
		slog.String("service", h.service),
		slog.String("version", h.version),
	)

	// Extract trace context if present
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		nr.AddAttrs(slog.String("trace_id", spanCtx.TraceID().String()))
	}
	if spanCtx.HasSpanID() {
		nr.AddAttrs(slog.String("span_id", spanCtx.SpanID().String()))
	}

	//nolint:wrapcheck // Handler interface requires unwrapped error passthrough
	return h.handler.Handle(ctx, nr)
}

// Enabled returns true if the level is enabled.
func (h *appHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs returns a new handler with the given attributes, redacted.
func (h *appHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &appHandler{
		handler: h.handler.WithAttrs(redacted),
		service: h.service,
		version: h.version,
	}
}

// WithGroup returns a new handler with the given group.
func (h *appHandler) WithGroup(name string) slog.Handler {
	return &appHandler{
		handler: h.handler.WithGroup(name),
		service: h.service,
		version: h.version,
	}
}

// redactAttr replaces values of secret-bearing keys and recurses into
// groups.
func redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		redacted := make([]any, 0, len(members))
		for _, m := range members {
			redacted = append(redacted, redactAttr(m))
		}
		return slog.Group(a.Key, redacted...)
	}
	key := strings.ToLower(a.Key)
	for _, pattern := range secretPatterns {
		if pattern.Match(key) {
			return slog.String(a.Key, redactedValue)
		}
	}
	return a
}

// ParseLevel maps a configuration string to a slog.Level. Unknown values
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup creates a configured slog.Logger.
// format: "json" or "text" (defaults to "json" if empty)
// If w is nil, writes to os.Stderr.
func Setup(service, version, level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	var baseHandler slog.Handler
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	if format == "text" {
		baseHandler = slog.NewTextHandler(w, opts)
	} else {
		baseHandler = slog.NewJSONHandler(w, opts)
	}

	handler := &appHandler{
		handler: baseHandler,
		service: service,
		version: version,
	}

	return slog.New(handler)
}

// SetDefault sets up and configures the default logger.
func SetDefault(service, version, level, format string) {
	logger := Setup(service, version, level, format, nil)
	slog.SetDefault(logger)
}
