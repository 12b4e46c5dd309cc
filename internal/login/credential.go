// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

// Package login implements the two interchangeable login strategies:
// credential-based and biometric-unlock. Both go through the same remote
// contract and validation path; biometric login only automates re-entry
// of a previously accepted password, it never bypasses the backend.
package login

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/attenda/attenda/internal/identity"
	"github.com/attenda/attenda/internal/transport"
)

// Endpoint paths on the attendance backend.
const (
	loginPath   = "/auth/login"
	sessionPath = "/auth/session"
)

// SessionStore is the storage surface the strategies need.
type SessionStore interface {
	StoreAuthentication(ctx context.Context, auth *identity.Authentication) error
	GetAuthentication(ctx context.Context) (*identity.Authentication, error)
	GetCredentials(ctx context.Context) (*identity.LoginCredentials, time.Time, error)
}

// CredentialRepository performs credential-based login against the remote
// backend and persists the resulting session.
type CredentialRepository struct {
	api    transport.API
	store  SessionStore
	logger *slog.Logger
}

// NewCredentialRepository creates a CredentialRepository.
func NewCredentialRepository(api transport.API, store SessionStore, logger *slog.Logger) (*CredentialRepository, error) {
	if api == nil {
		return nil, oops.Errorf("credential repository requires a transport")
	}
	if store == nil {
		return nil, oops.Errorf("credential repository requires a session store")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialRepository{api: api, store: store, logger: logger}, nil
}

// Login validates the credentials, exchanges them with the backend, maps
// the session reply into the entity graph, and persists both storage
// tiers. Validation runs entirely before the first remote call.
func (r *CredentialRepository) Login(ctx context.Context, rawEmail, password string) (*identity.Authentication, error) {
	if rawEmail == "" && password == "" {
		return nil, oops.Code("AUTH_REQUIRED_ALL_FIELDS").
			Errorf("email and password are required")
	}
	email, err := identity.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, oops.Code("AUTH_REQUIRED_FIELD").
			With("field", "password").
			Errorf("password cannot be empty")
	}
	if err := screenPassword(password); err != nil {
		return nil, err
	}

	token, err := r.exchange(ctx, email, password)
	if err != nil {
		return nil, err
	}
	r.api.SetBearerToken(token)

	user, err := r.fetchProfile(ctx)
	if err != nil {
		r.api.RemoveBearerToken()
		return nil, err
	}

	state, err := identity.NewAuthState(user, token, true)
	if err != nil {
		r.api.RemoveBearerToken()
		return nil, err
	}
	creds, err := identity.NewLoginCredentials(email, password)
	if err != nil {
		r.api.RemoveBearerToken()
		return nil, err
	}

	auth := identity.NewAuthentication(state, creds, nil, time.Now().UTC())
	if prefs := r.storedPreferences(ctx); prefs != nil {
		auth = auth.WithBiometricsPreferences(*prefs)
	}

	if err := r.store.StoreAuthentication(ctx, auth); err != nil {
		r.api.RemoveBearerToken()
		return nil, err
	}
	r.logger.Info("login succeeded", "user_id", user.ID.Int64())
	return auth, nil
}

// exchange posts the credentials and returns the bearer token.
func (r *CredentialRepository) exchange(ctx context.Context, email identity.Email, password string) (string, error) {
	resp, err := r.api.Post(ctx, loginPath, loginRequest{
		UserEmail:    email.String(),
		UserPassword: password,
	})
	if err != nil {
		return "", oops.Code("LOGIN_FAILED").Wrap(err)
	}
	if !resp.OK() {
		return "", oops.Code("LOGIN_FAILED").
			With("status", resp.StatusCode).
			Errorf("login rejected by backend")
	}

	var reply loginResponse
	if err := resp.Decode(&reply); err != nil {
		return "", oops.Code("LOGIN_FAILED").Wrap(err)
	}
	if reply.Token == "" {
		return "", oops.Code("LOGIN_NO_TOKEN").
			Errorf("login reply carries no token")
	}
	return reply.Token, nil
}

// fetchProfile reads the authenticated session graph. A user without an
// employee record cannot attend and is rejected here.
func (r *CredentialRepository) fetchProfile(ctx context.Context) (*identity.User, error) {
	resp, err := r.api.Get(ctx, sessionPath)
	if err != nil {
		return nil, oops.Code("LOGIN_FAILED").Wrap(err)
	}
	if !resp.OK() {
		return nil, oops.Code("LOGIN_FAILED").
			With("status", resp.StatusCode).
			Errorf("session fetch rejected by backend")
	}

	var reply sessionResponse
	if err := resp.Decode(&reply); err != nil {
		return nil, oops.Code("LOGIN_NO_AUTH_STATUS").Wrap(err)
	}
	user, err := mapRemoteUser(reply.User)
	if err != nil {
		return nil, err
	}
	if !user.HasEmployee() {
		return nil, oops.Code("LOGIN_NO_AUTH_STATUS").
			With("user_id", user.ID.Int64()).
			Errorf("user has no employee profile")
	}
	return user, nil
}

// storedPreferences returns previously stored biometric preferences so the
// opt-in survives across logins. Read problems are treated as no prior
// preferences: the storage layer already wiped and logged.
func (r *CredentialRepository) storedPreferences(ctx context.Context) *identity.BiometricsPreferences {
	prior, err := r.store.GetAuthentication(ctx)
	if err != nil || prior == nil {
		return nil
	}
	return prior.BiometricsPreferences
}
