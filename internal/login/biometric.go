// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package login

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/attenda/attenda/internal/biometric"
	"github.com/attenda/attenda/internal/identity"
)

// challengeReason is the prompt text shown by the platform dialog.
const challengeReason = "Unlock your stored credentials to sign in"

// credentialLogin is the slice of CredentialRepository the biometric
// strategy delegates to after unlocking the stored pair.
type credentialLogin interface {
	Login(ctx context.Context, email, password string) (*identity.Authentication, error)
}

// BiometricRepository performs biometric-unlock login: pass the platform
// challenge, recover the sealed credentials, then run the normal
// credential flow with them.
type BiometricRepository struct {
	bio         *biometric.Service
	store       SessionStore
	credentials credentialLogin
	logger      *slog.Logger
}

// NewBiometricRepository creates a BiometricRepository.
func NewBiometricRepository(bio *biometric.Service, store SessionStore, credentials credentialLogin, logger *slog.Logger) (*BiometricRepository, error) {
	if bio == nil {
		return nil, oops.Errorf("biometric repository requires the biometric service")
	}
	if store == nil {
		return nil, oops.Errorf("biometric repository requires a session store")
	}
	if credentials == nil {
		return nil, oops.Errorf("biometric repository requires the credential strategy")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BiometricRepository{bio: bio, store: store, credentials: credentials, logger: logger}, nil
}

// Login runs the biometric flow. The challenge happens before the secrets
// read so a rejected user learns nothing about whether credentials are
// stored.
func (r *BiometricRepository) Login(ctx context.Context) (*identity.Authentication, error) {
	available, err := r.bio.Available(ctx)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, oops.Code("BIOMETRIC_UNAVAILABLE").
			Errorf("biometric hardware or enrollment is missing")
	}

	if err := r.bio.Authenticate(ctx, challengeReason); err != nil {
		return nil, err
	}

	creds, _, err := r.store.GetCredentials(ctx)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, oops.Code("AUTH_GET_STORAGE_ERROR").
			Errorf("no stored credentials for biometric login")
	}

	r.logger.Debug("biometric challenge passed, replaying stored credentials")
	return r.credentials.Login(ctx, creds.Email.String(), creds.Password)
}
