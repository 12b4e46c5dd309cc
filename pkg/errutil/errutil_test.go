// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package errutil_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attenda/attenda/pkg/errutil"
)

func TestCode(t *testing.T) {
	t.Run("returns code for oops error", func(t *testing.T) {
		err := oops.Code("LOGIN_FAILED").Errorf("backend rejected login")
		assert.Equal(t, "LOGIN_FAILED", errutil.Code(err))
	})

	t.Run("returns empty for plain error", func(t *testing.T) {
		assert.Equal(t, "", errutil.Code(errors.New("plain")))
	})

	t.Run("returns empty for nil", func(t *testing.T) {
		assert.Equal(t, "", errutil.Code(nil))
	})
}

func TestHasCode(t *testing.T) {
	err := oops.Code("AUTH_STORAGE_ERROR").Errorf("backend write failed")
	assert.True(t, errutil.HasCode(err, "AUTH_STORAGE_ERROR"))
	assert.False(t, errutil.HasCode(err, "LOGIN_FAILED"))
	assert.False(t, errutil.HasCode(nil, ""))
}

func TestLogError(t *testing.T) {
	t.Run("logs oops error with code and context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		err := oops.Code("LOGIN_FAILED").With("strategy", "email").Errorf("rejected")
		errutil.LogError(logger, "login failed", err)

		out := buf.String()
		require.NotEmpty(t, out)
		assert.Contains(t, out, "LOGIN_FAILED")
		assert.Contains(t, out, "strategy")
	})

	t.Run("logs plain error", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		errutil.LogError(logger, "boom", errors.New("plain failure"))
		assert.Contains(t, buf.String(), "plain failure")
	})
}
