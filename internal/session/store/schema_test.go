// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, SchemaID, schema["$id"])
	assert.Equal(t, "Attenda Session Document", schema["title"])
}

func TestValidateDocument(t *testing.T) {
	t.Run("accepts a stored document", func(t *testing.T) {
		doc := SessionDocument{
			Version:        DocumentVersion,
			Authentication: toAuthenticationDoc(authenticatedSession(t).WithBlankedPassword()),
		}
		raw, err := json.Marshal(doc)
		require.NoError(t, err)
		require.NoError(t, validateDocument(raw))
	})

	t.Run("rejects invalid json", func(t *testing.T) {
		require.Error(t, validateDocument([]byte(`{"version":`)))
	})

	t.Run("rejects wrong shapes", func(t *testing.T) {
		require.Error(t, validateDocument([]byte(`{"version": 1, "authentication": "x"}`)))
	})
}

func TestVersionCompatible(t *testing.T) {
	assert.True(t, versionCompatible(DocumentVersion))
	assert.True(t, versionCompatible("1.9.3"))
	assert.False(t, versionCompatible("2.0.0"))
	assert.False(t, versionCompatible("0.9.0"))
	assert.False(t, versionCompatible("not-a-version"))
	assert.False(t, versionCompatible(""))
}
