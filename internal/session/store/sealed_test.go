// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package store

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealer(t *testing.T) {
	t.Run("rejects short keys", func(t *testing.T) {
		_, err := NewSealer([]byte("too-short"))
		require.Error(t, err)
	})

	t.Run("rejects non-hex config keys", func(t *testing.T) {
		_, err := NewSealerFromHex("zz not hex")
		require.Error(t, err)
	})

	t.Run("accepts hex config keys", func(t *testing.T) {
		s, err := NewSealerFromHex("4242424242424242424242424242424242424242424242424242424242424242")
		require.NoError(t, err)
		require.NotNil(t, s)
	})

	t.Run("seal then open round trips", func(t *testing.T) {
		s, err := NewSealer(testKey)
		require.NoError(t, err)

		sealed, err := s.Seal([]byte(`{"password":"hunter2"}`))
		require.NoError(t, err)
		assert.NotContains(t, sealed, "hunter2")

		plaintext, err := s.Open(sealed)
		require.NoError(t, err)
		assert.Equal(t, `{"password":"hunter2"}`, string(plaintext))
	})

	t.Run("nonces never repeat", func(t *testing.T) {
		s, err := NewSealer(testKey)
		require.NoError(t, err)

		a, err := s.Seal([]byte("same"))
		require.NoError(t, err)
		b, err := s.Seal([]byte("same"))
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("tampering fails authentication", func(t *testing.T) {
		s, err := NewSealer(testKey)
		require.NoError(t, err)

		sealed, err := s.Seal([]byte("payload"))
		require.NoError(t, err)

		_, err = s.Open(sealed[:len(sealed)-4] + "AAA=")
		require.Error(t, err)
	})

	t.Run("wrong key fails authentication", func(t *testing.T) {
		s1, err := NewSealer(testKey)
		require.NoError(t, err)
		s2, err := NewSealer(bytes.Repeat([]byte{0x07}, 32))
		require.NoError(t, err)

		sealed, err := s1.Seal([]byte("payload"))
		require.NoError(t, err)
		_, err = s2.Open(sealed)
		require.Error(t, err)
	})

	t.Run("rejects truncated values", func(t *testing.T) {
		s, err := NewSealer(testKey)
		require.NoError(t, err)

		_, err = s.Open("not base64!!")
		require.Error(t, err)
		_, err = s.Open("AAAA")
		require.Error(t, err)
	})
}
