// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

// Package errutil provides helpers for working with oops-coded errors.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// Code returns the oops code attached to err, or "" for nil and uncoded
// errors. Callers use it to map domain errors to user-facing messages and
// exit statuses without string matching.
func Code(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	var code any = oopsErr.Code()
	if s, isStr := code.(string); isStr {
		return s
	}
	return ""
}

// HasCode reports whether err carries the given oops code.
func HasCode(err error, code string) bool {
	return code != "" && Code(err) == code
}

// LogError logs an error with structured context. For oops errors the code
// and context map are attached as attributes; secrets never reach the log
// because error context is built without them.
func LogError(logger *slog.Logger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{
			"error", oopsErr.Error(),
		}
		if code := Code(err); code != "" {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		logger.Error(msg, attrs...)
		return
	}
	logger.Error(msg, "error", err)
}
