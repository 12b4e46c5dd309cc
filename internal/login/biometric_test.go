// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package login

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attenda/attenda/internal/biometric"
	"github.com/attenda/attenda/internal/session/store"
	"github.com/attenda/attenda/pkg/errutil"
)

type fakePlatform struct {
	hardware    bool
	enrolled    bool
	challengeOK bool

	hardwareErr  error
	challengeErr error
	challenges   int
}

func (f *fakePlatform) HardwareSupported(context.Context) (bool, error) {
	return f.hardware, f.hardwareErr
}

func (f *fakePlatform) Enrolled(context.Context) (bool, error) {
	return f.enrolled, nil
}

func (f *fakePlatform) Challenge(context.Context, string) (bool, error) {
	f.challenges++
	return f.challengeOK, f.challengeErr
}

func newBiometricHarness(t *testing.T, platform *fakePlatform) (*BiometricRepository, *CredentialRepository, *fakeAPI, *store.Service) {
	t.Helper()
	api := newFakeAPI()
	sessions := newSessionStore(t)
	logger := slog.New(slog.DiscardHandler)

	creds, err := NewCredentialRepository(api, sessions, logger)
	require.NoError(t, err)
	bio, err := biometric.NewService(platform)
	require.NoError(t, err)
	repo, err := NewBiometricRepository(bio, sessions, creds, logger)
	require.NoError(t, err)
	return repo, creds, api, sessions
}

func TestBiometricLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("no hardware", func(t *testing.T) {
		repo, _, _, _ := newBiometricHarness(t, &fakePlatform{})
		_, err := repo.Login(ctx)
		errutil.AssertErrorCode(t, err, "BIOMETRIC_UNAVAILABLE")
	})

	t.Run("hardware without enrollment", func(t *testing.T) {
		repo, _, _, _ := newBiometricHarness(t, &fakePlatform{hardware: true})
		_, err := repo.Login(ctx)
		errutil.AssertErrorCode(t, err, "BIOMETRIC_UNAVAILABLE")
	})

	t.Run("probe failure", func(t *testing.T) {
		repo, _, _, _ := newBiometricHarness(t, &fakePlatform{hardwareErr: errors.New("sensor offline")})
		_, err := repo.Login(ctx)
		errutil.AssertErrorCode(t, err, "BIOMETRIC_UNAVAILABLE")
	})

	t.Run("rejected challenge never touches the secrets tier", func(t *testing.T) {
		platform := &fakePlatform{hardware: true, enrolled: true}
		repo, _, api, _ := newBiometricHarness(t, platform)

		_, err := repo.Login(ctx)
		errutil.AssertErrorCode(t, err, "BIOMETRIC_AUTH_FAILED")
		assert.Equal(t, 1, platform.challenges)
		assert.Zero(t, api.loginCalls)
	})

	t.Run("platform challenge error", func(t *testing.T) {
		platform := &fakePlatform{hardware: true, enrolled: true, challengeErr: errors.New("dialog crashed")}
		repo, _, _, _ := newBiometricHarness(t, platform)
		_, err := repo.Login(ctx)
		errutil.AssertErrorCode(t, err, "BIOMETRIC_AUTH_FAILED")
	})

	t.Run("no stored secrets", func(t *testing.T) {
		platform := &fakePlatform{hardware: true, enrolled: true, challengeOK: true}
		repo, _, _, _ := newBiometricHarness(t, platform)
		_, err := repo.Login(ctx)
		errutil.AssertErrorCode(t, err, "AUTH_GET_STORAGE_ERROR")
	})

	t.Run("replays stored credentials through the normal flow", func(t *testing.T) {
		platform := &fakePlatform{hardware: true, enrolled: true, challengeOK: true}
		repo, creds, api, sessions := newBiometricHarness(t, platform)

		_, err := creds.Login(ctx, "ada@example.com", "Valid1!")
		require.NoError(t, err)
		direct, err := sessions.GetAuthentication(ctx)
		require.NoError(t, err)

		auth, err := repo.Login(ctx)
		require.NoError(t, err)
		require.NotNil(t, auth)

		// The biometric path replays the same pair against the backend.
		assert.Equal(t, 2, api.loginCalls)
		assert.Equal(t, "ada@example.com", api.lastLogin.UserEmail)
		assert.Equal(t, "Valid1!", api.lastLogin.UserPassword)

		replayed, err := sessions.GetAuthentication(ctx)
		require.NoError(t, err)
		assert.Equal(t, direct.AuthState.User, replayed.AuthState.User)
		assert.Equal(t, direct.LoginCredentials, replayed.LoginCredentials)
	})
}
