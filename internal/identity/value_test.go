// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package identity_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attenda/attenda/internal/identity"
	"github.com/attenda/attenda/pkg/errutil"
)

func TestNewEmail(t *testing.T) {
	t.Run("accepts well formed address", func(t *testing.T) {
		email, err := identity.NewEmail("worker@example.com")
		require.NoError(t, err)
		assert.Equal(t, "worker@example.com", email.String())
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		email, err := identity.NewEmail("  worker@example.com ")
		require.NoError(t, err)
		assert.Equal(t, "worker@example.com", email.String())
	})

	t.Run("rejects empty address", func(t *testing.T) {
		_, err := identity.NewEmail("")
		errutil.AssertErrorCode(t, err, "AUTH_REQUIRED_FIELD")
	})

	t.Run("rejects missing domain", func(t *testing.T) {
		_, err := identity.NewEmail("worker@")
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_FIELD_FORMAT")
	})

	t.Run("rejects missing tld", func(t *testing.T) {
		_, err := identity.NewEmail("worker@example")
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_FIELD_FORMAT")
	})

	t.Run("rejects quote characters", func(t *testing.T) {
		for _, raw := range []string{`o'brien@example.com`, `a"b@example.com`, "a`b@example.com"} {
			_, err := identity.NewEmail(raw)
			errutil.AssertErrorCode(t, err, "AUTH_INVALID_FIELD_FORMAT")
		}
	})

	t.Run("rejects overlong address", func(t *testing.T) {
		raw := strings.Repeat("a", identity.MaxEmailLength) + "@example.com"
		_, err := identity.NewEmail(raw)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_FIELD_FORMAT")
	})
}

func TestNewEntityID(t *testing.T) {
	t.Run("accepts positive", func(t *testing.T) {
		id, err := identity.NewEntityID(42)
		require.NoError(t, err)
		assert.Equal(t, int64(42), id.Int64())
	})

	t.Run("rejects zero and negative", func(t *testing.T) {
		for _, raw := range []int64{0, -1, -99} {
			_, err := identity.NewEntityID(raw)
			errutil.AssertErrorCode(t, err, "AUTH_INVALID_FIELD_FORMAT")
		}
	})
}

func TestParseActiveFlag(t *testing.T) {
	t.Run("accepts bools", func(t *testing.T) {
		v, err := identity.ParseActiveFlag(true)
		require.NoError(t, err)
		assert.True(t, v)
	})

	t.Run("accepts json numbers", func(t *testing.T) {
		v, err := identity.ParseActiveFlag(float64(1))
		require.NoError(t, err)
		assert.True(t, v)

		v, err = identity.ParseActiveFlag(float64(0))
		require.NoError(t, err)
		assert.False(t, v)
	})

	t.Run("accepts legacy strings", func(t *testing.T) {
		v, err := identity.ParseActiveFlag("TRUE")
		require.NoError(t, err)
		assert.True(t, v)
	})

	t.Run("nil means inactive", func(t *testing.T) {
		v, err := identity.ParseActiveFlag(nil)
		require.NoError(t, err)
		assert.False(t, v)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := identity.ParseActiveFlag("maybe")
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_FIELD_FORMAT")

		_, err = identity.ParseActiveFlag(float64(7))
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_FIELD_FORMAT")
	})
}
