// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestHandlerAttrs(t *testing.T) {
	t.Run("adds service and version", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("attenda", "1.2.3", "info", "json", &buf)
		logger.Info("hello")

		entry := logLine(t, &buf)
		assert.Equal(t, "attenda", entry["service"])
		assert.Equal(t, "1.2.3", entry["version"])
	})

	t.Run("adds trace context when present", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("attenda", "1.2.3", "info", "json", &buf)

		traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
		require.NoError(t, err)
		spanID, err := trace.SpanIDFromHex("0102030405060708")
		require.NoError(t, err)
		ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: traceID,
			SpanID:  spanID,
		}))

		logger.InfoContext(ctx, "traced")
		entry := logLine(t, &buf)
		assert.Equal(t, traceID.String(), entry["trace_id"])
		assert.Equal(t, spanID.String(), entry["span_id"])
	})

	t.Run("respects the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("attenda", "1.2.3", "warn", "json", &buf)
		logger.Info("dropped")
		assert.Zero(t, buf.Len())
	})
}

func TestHandlerRedaction(t *testing.T) {
	t.Run("redacts secret-bearing keys", func(t *testing.T) {
		for _, key := range []string{"password", "user_password", "loginCredentials", "bearer_token", "sealing_secret"} {
			var buf bytes.Buffer
			logger := Setup("attenda", "1.2.3", "info", "json", &buf)
			logger.Info("event", key, "hunter2")

			entry := logLine(t, &buf)
			assert.Equal(t, "[redacted]", entry[key], key)
			assert.NotContains(t, buf.String(), "hunter2", key)
		}
	})

	t.Run("redacts inside groups", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("attenda", "1.2.3", "info", "json", &buf)
		logger.Info("event", slog.Group("auth", slog.String("token", "tok-123"), slog.String("user", "ada")))

		assert.NotContains(t, buf.String(), "tok-123")
		assert.Contains(t, buf.String(), "ada")
	})

	t.Run("redacts WithAttrs attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("attenda", "1.2.3", "info", "json", &buf).With("api_token", "tok-456")
		logger.Info("event")

		assert.NotContains(t, buf.String(), "tok-456")
		assert.Contains(t, buf.String(), "[redacted]")
	})

	t.Run("leaves ordinary keys alone", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("attenda", "1.2.3", "info", "json", &buf)
		logger.Info("event", "user_id", int64(7))

		entry := logLine(t, &buf)
		assert.Equal(t, float64(7), entry["user_id"])
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
