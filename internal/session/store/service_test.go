// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attenda/attenda/internal/identity"
	"github.com/attenda/attenda/pkg/errutil"
)

var testKey = bytes.Repeat([]byte{0x42}, 32)

func newTestService(t *testing.T, opts ...Option) (*Service, *MemoryKV, *MemoryKV) {
	t.Helper()
	secrets := NewMemoryKV()
	state := NewMemoryKV()
	sealer, err := NewSealer(testKey)
	require.NoError(t, err)

	svc, err := NewService(secrets, state, sealer, slog.New(slog.DiscardHandler), opts...)
	require.NoError(t, err)
	return svc, secrets, state
}

func authenticatedSession(t *testing.T) *identity.Authentication {
	t.Helper()
	employee, err := identity.NewEmployee(7, "Technician", "full-time", "PR-0042", "2023-04-01", true)
	require.NoError(t, err)
	person, err := identity.NewPerson(3, "Ada", "Lovelace", "X1234567", "+34600000000", "Calle Mayor 1", "1990-12-10", employee)
	require.NoError(t, err)

	email, err := identity.NewEmail("ada@example.com")
	require.NoError(t, err)
	user, err := identity.NewUser(1, email, "Ada Lovelace", true, person)
	require.NoError(t, err)

	state, err := identity.NewAuthState(user, "bearer-token-xyz", true)
	require.NoError(t, err)
	creds, err := identity.NewLoginCredentials(email, "s3cret-pass")
	require.NoError(t, err)

	return identity.NewAuthentication(state, creds, nil, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
}

func TestStoreAuthentication(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects nil entity", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		err := svc.StoreAuthentication(ctx, nil)
		errutil.AssertErrorCode(t, err, "AUTH_ENTITY_REQUIRED")
	})

	t.Run("rejects unauthenticated session", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		auth := authenticatedSession(t).WithAuthenticated(false)
		err := svc.StoreAuthentication(ctx, auth)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_STATE")
	})

	t.Run("rejects missing credentials", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		auth := authenticatedSession(t)
		auth.LoginCredentials = nil
		err := svc.StoreAuthentication(ctx, auth)
		errutil.AssertErrorCode(t, err, "AUTH_REQUIRED_ALL_FIELDS")
	})

	t.Run("writes both tiers", func(t *testing.T) {
		svc, secrets, state := newTestService(t)
		require.NoError(t, svc.StoreAuthentication(ctx, authenticatedSession(t)))
		assert.Equal(t, 1, secrets.Len())
		assert.Equal(t, 1, state.Len())
	})

	t.Run("full-state tier never holds the password", func(t *testing.T) {
		svc, _, state := newTestService(t)
		require.NoError(t, svc.StoreAuthentication(ctx, authenticatedSession(t)))

		raw, ok, err := state.Get(ctx, DefaultStateKey)
		require.NoError(t, err)
		require.True(t, ok)
		assert.NotContains(t, raw, "s3cret-pass")

		var doc SessionDocument
		require.NoError(t, json.Unmarshal([]byte(raw), &doc))
		require.NotNil(t, doc.Authentication.LoginCredentials)
		assert.Equal(t, "ada@example.com", doc.Authentication.LoginCredentials.Email)
		assert.Empty(t, doc.Authentication.LoginCredentials.Password)
	})

	t.Run("secrets tier holds exactly credentials and timestamp", func(t *testing.T) {
		svc, secrets, _ := newTestService(t)
		require.NoError(t, svc.StoreAuthentication(ctx, authenticatedSession(t)))

		sealed, ok, err := secrets.Get(ctx, DefaultSecretsKey)
		require.NoError(t, err)
		require.True(t, ok)
		assert.NotContains(t, sealed, "s3cret-pass")

		plaintext, err := svc.sealer.Open(sealed)
		require.NoError(t, err)

		var payload map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(plaintext, &payload))
		assert.Len(t, payload, 2)
		assert.Contains(t, payload, "loginCredentials")
		assert.Contains(t, payload, "createdAt")

		var doc SecretsDocument
		require.NoError(t, json.Unmarshal(plaintext, &doc))
		assert.Equal(t, "ada@example.com", doc.LoginCredentials.Email)
		assert.Equal(t, "s3cret-pass", doc.LoginCredentials.Password)
	})

	t.Run("backend write failure wipes both tiers", func(t *testing.T) {
		secrets := NewMemoryKV()
		sealer, err := NewSealer(testKey)
		require.NoError(t, err)
		svc, err := NewService(secrets, &failingKV{}, sealer, slog.New(slog.DiscardHandler))
		require.NoError(t, err)

		err = svc.StoreAuthentication(ctx, authenticatedSession(t))
		errutil.AssertErrorCode(t, err, "AUTH_STORAGE_ERROR")
		assert.Equal(t, 0, secrets.Len())
	})
}

func TestGetAuthentication(t *testing.T) {
	ctx := context.Background()

	t.Run("absent reads as no session", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		auth, err := svc.GetAuthentication(ctx)
		require.NoError(t, err)
		assert.Nil(t, auth)
	})

	t.Run("round trip rebuilds the graph with a blanked password", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		stored := authenticatedSession(t)
		require.NoError(t, svc.StoreAuthentication(ctx, stored))

		auth, err := svc.GetAuthentication(ctx)
		require.NoError(t, err)
		require.NotNil(t, auth)

		assert.True(t, auth.IsAuthenticated())
		assert.Equal(t, "bearer-token-xyz", auth.AuthState.Token)
		assert.Equal(t, stored.CreatedAt, auth.CreatedAt)

		user := auth.AuthState.User
		require.True(t, user.HasEmployee())
		assert.Equal(t, int64(1), user.ID.Int64())
		assert.Equal(t, int64(3), user.Person.ID.Int64())
		assert.Equal(t, int64(7), user.Person.Employee.ID.Int64())
		assert.Equal(t, "PR-0042", user.Person.Employee.PayrollNumber)

		require.NotNil(t, auth.LoginCredentials)
		assert.Equal(t, "ada@example.com", auth.LoginCredentials.Email.String())
		assert.Empty(t, auth.LoginCredentials.Password)
	})

	t.Run("malformed document wipes both tiers", func(t *testing.T) {
		svc, secrets, state := newTestService(t)
		require.NoError(t, svc.StoreAuthentication(ctx, authenticatedSession(t)))
		require.NoError(t, state.Set(ctx, DefaultStateKey, `{"version": 17`))

		auth, err := svc.GetAuthentication(ctx)
		require.NoError(t, err)
		assert.Nil(t, auth)
		assert.Equal(t, 0, secrets.Len())
		assert.Equal(t, 0, state.Len())
	})

	t.Run("schema-invalid document wipes both tiers", func(t *testing.T) {
		svc, secrets, state := newTestService(t)
		require.NoError(t, svc.StoreAuthentication(ctx, authenticatedSession(t)))
		require.NoError(t, state.Set(ctx, DefaultStateKey, `{"version": 17, "authentication": "nope"}`))

		auth, err := svc.GetAuthentication(ctx)
		require.NoError(t, err)
		assert.Nil(t, auth)
		assert.Equal(t, 0, secrets.Len())
		assert.Equal(t, 0, state.Len())
	})

	t.Run("incompatible major version wipes both tiers", func(t *testing.T) {
		svc, secrets, state := newTestService(t)
		require.NoError(t, svc.StoreAuthentication(ctx, authenticatedSession(t)))

		raw, ok, err := state.Get(ctx, DefaultStateKey)
		require.NoError(t, err)
		require.True(t, ok)
		var doc SessionDocument
		require.NoError(t, json.Unmarshal([]byte(raw), &doc))
		doc.Version = "2.0.0"
		updated, err := json.Marshal(doc)
		require.NoError(t, err)
		require.NoError(t, state.Set(ctx, DefaultStateKey, string(updated)))

		auth, err := svc.GetAuthentication(ctx)
		require.NoError(t, err)
		assert.Nil(t, auth)
		assert.Equal(t, 0, secrets.Len())
	})

	t.Run("minor version drift stays readable", func(t *testing.T) {
		svc, _, state := newTestService(t)
		require.NoError(t, svc.StoreAuthentication(ctx, authenticatedSession(t)))

		raw, _, err := state.Get(ctx, DefaultStateKey)
		require.NoError(t, err)
		var doc SessionDocument
		require.NoError(t, json.Unmarshal([]byte(raw), &doc))
		doc.Version = "1.3.0"
		updated, err := json.Marshal(doc)
		require.NoError(t, err)
		require.NoError(t, state.Set(ctx, DefaultStateKey, string(updated)))

		auth, err := svc.GetAuthentication(ctx)
		require.NoError(t, err)
		assert.NotNil(t, auth)
	})

	t.Run("broken employee chain reads as no session", func(t *testing.T) {
		svc, secrets, state := newTestService(t)
		require.NoError(t, svc.StoreAuthentication(ctx, authenticatedSession(t)))

		raw, _, err := state.Get(ctx, DefaultStateKey)
		require.NoError(t, err)
		var doc SessionDocument
		require.NoError(t, json.Unmarshal([]byte(raw), &doc))
		doc.Authentication.AuthState.User.Person.Employee = nil
		updated, err := json.Marshal(doc)
		require.NoError(t, err)
		require.NoError(t, state.Set(ctx, DefaultStateKey, string(updated)))

		auth, err := svc.GetAuthentication(ctx)
		require.NoError(t, err)
		assert.Nil(t, auth)
		assert.Equal(t, 0, secrets.Len())
	})

	t.Run("legacy numeric active flags rehydrate", func(t *testing.T) {
		svc, _, state := newTestService(t)
		require.NoError(t, svc.StoreAuthentication(ctx, authenticatedSession(t)))

		raw, _, err := state.Get(ctx, DefaultStateKey)
		require.NoError(t, err)
		var doc SessionDocument
		require.NoError(t, json.Unmarshal([]byte(raw), &doc))
		doc.Authentication.AuthState.User.Active = float64(1)
		doc.Authentication.AuthState.User.Person.Employee.Active = "true"
		updated, err := json.Marshal(doc)
		require.NoError(t, err)
		require.NoError(t, state.Set(ctx, DefaultStateKey, string(updated)))

		auth, err := svc.GetAuthentication(ctx)
		require.NoError(t, err)
		require.NotNil(t, auth)
		assert.True(t, auth.AuthState.User.Active)
		assert.True(t, auth.AuthState.User.Person.Employee.Active)
	})

	t.Run("backend read failure is a storage error", func(t *testing.T) {
		sealer, err := NewSealer(testKey)
		require.NoError(t, err)
		svc, err := NewService(NewMemoryKV(), &failingKV{}, sealer, slog.New(slog.DiscardHandler))
		require.NoError(t, err)

		_, err = svc.GetAuthentication(context.Background())
		errutil.AssertErrorCode(t, err, "AUTH_STORAGE_ERROR")
	})
}

func TestGetCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("absent reads as no credentials", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		creds, _, err := svc.GetCredentials(ctx)
		require.NoError(t, err)
		assert.Nil(t, creds)
	})

	t.Run("round trip returns the raw pair", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		stored := authenticatedSession(t)
		require.NoError(t, svc.StoreAuthentication(ctx, stored))

		creds, createdAt, err := svc.GetCredentials(ctx)
		require.NoError(t, err)
		require.NotNil(t, creds)
		assert.Equal(t, "ada@example.com", creds.Email.String())
		assert.Equal(t, "s3cret-pass", creds.Password)
		assert.Equal(t, stored.CreatedAt, createdAt)
	})

	t.Run("tampered payload wipes both tiers", func(t *testing.T) {
		svc, secrets, state := newTestService(t)
		require.NoError(t, svc.StoreAuthentication(ctx, authenticatedSession(t)))
		require.NoError(t, secrets.Set(ctx, DefaultSecretsKey, "bm90LXNlYWxlZA=="))

		creds, _, err := svc.GetCredentials(ctx)
		require.NoError(t, err)
		assert.Nil(t, creds)
		assert.Equal(t, 0, secrets.Len())
		assert.Equal(t, 0, state.Len())
	})

	t.Run("backend read failure is a read storage error", func(t *testing.T) {
		sealer, err := NewSealer(testKey)
		require.NoError(t, err)
		svc, err := NewService(&failingKV{}, NewMemoryKV(), sealer, slog.New(slog.DiscardHandler))
		require.NoError(t, err)

		_, _, err = svc.GetCredentials(context.Background())
		errutil.AssertErrorCode(t, err, "AUTH_GET_STORAGE_ERROR")
	})
}

func TestClearSession(t *testing.T) {
	ctx := context.Background()

	t.Run("flips the authenticated marker and keeps the rest", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		require.NoError(t, svc.StoreAuthentication(ctx, authenticatedSession(t)))
		require.NoError(t, svc.ClearSession(ctx))

		auth, err := svc.GetAuthentication(ctx)
		require.NoError(t, err)
		require.NotNil(t, auth)
		assert.False(t, auth.IsAuthenticated())
		assert.True(t, auth.AuthState.User.HasEmployee())

		// The secrets tier survives a soft clear so biometric re-login
		// still has credentials to replay.
		creds, _, err := svc.GetCredentials(ctx)
		require.NoError(t, err)
		require.NotNil(t, creds)
		assert.Equal(t, "s3cret-pass", creds.Password)
	})

	t.Run("clearing an absent session is a no-op", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		require.NoError(t, svc.ClearSession(ctx))
	})
}

func TestWipe(t *testing.T) {
	ctx := context.Background()

	svc, secrets, state := newTestService(t)
	require.NoError(t, svc.StoreAuthentication(ctx, authenticatedSession(t)))
	require.NoError(t, svc.Wipe(ctx))

	assert.Equal(t, 0, secrets.Len())
	assert.Equal(t, 0, state.Len())

	auth, err := svc.GetAuthentication(ctx)
	require.NoError(t, err)
	assert.Nil(t, auth)
}

func TestWipeObserver(t *testing.T) {
	ctx := context.Background()

	obs := &recordingObserver{}
	svc, _, state := newTestService(t, WithWipeObserver(obs))
	require.NoError(t, svc.StoreAuthentication(ctx, authenticatedSession(t)))
	require.NoError(t, state.Set(ctx, DefaultStateKey, "not json"))

	_, err := svc.GetAuthentication(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"state_schema_invalid"}, obs.reasons)
}

type recordingObserver struct {
	reasons []string
}

func (r *recordingObserver) RecordStorageWipe(reason string) {
	r.reasons = append(r.reasons, reason)
}

// failingKV fails every operation, standing in for a broken backend.
type failingKV struct{}

func (f *failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("backend unavailable")
}

func (f *failingKV) Set(context.Context, string, string) error {
	return errors.New("backend unavailable")
}

func (f *failingKV) Delete(context.Context, string) error {
	return errors.New("backend unavailable")
}
