// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package identity

import (
	"time"

	"github.com/samber/oops"
)

// LoginCredentials pairs a validated email with its password. Instances are
// only ever persisted to the secrets tier; the full-state tier stores a
// blanked copy.
type LoginCredentials struct {
	Email    Email  `json:"email"`
	Password string `json:"password"`
}

// NewLoginCredentials creates validated LoginCredentials.
func NewLoginCredentials(email Email, password string) (*LoginCredentials, error) {
	if email == "" {
		return nil, oops.Code("AUTH_REQUIRED_FIELD").
			With("field", "email").
			Errorf("email cannot be empty")
	}
	if password == "" {
		return nil, oops.Code("AUTH_REQUIRED_FIELD").
			With("field", "password").
			Errorf("password cannot be empty")
	}
	return &LoginCredentials{Email: email, Password: password}, nil
}

// Blanked returns a copy with the password removed.
func (c *LoginCredentials) Blanked() *LoginCredentials {
	if c == nil {
		return nil
	}
	return &LoginCredentials{Email: c.Email}
}

// BiometricsPreferences records the user's biometric opt-in state. It is
// independent of hardware capability: a user may have enabled biometrics on
// a device that later lost enrollment.
type BiometricsPreferences struct {
	IsConfigured       bool `json:"isConfigured"`
	IsEnabled          bool `json:"isEnabled"`
	HasPromptBeenShown bool `json:"hasPromptBeenShown"`
}

// DefaultBiometricsPreferences is the record seeded after a first
// successful login, so the opt-in prompt is offered exactly once.
func DefaultBiometricsPreferences() BiometricsPreferences {
	return BiometricsPreferences{}
}

// AuthState is the authenticated-session projection: the user graph, the
// bearer token, and transient UI markers.
type AuthState struct {
	User            *User  `json:"user,omitempty"`
	Token           string `json:"token"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	Loading         bool   `json:"loading,omitempty"`
	Error           string `json:"error,omitempty"`
}

// NewAuthState creates a validated AuthState. An authenticated state must
// carry a token; an unauthenticated one may be empty.
func NewAuthState(user *User, token string, isAuthenticated bool) (*AuthState, error) {
	if isAuthenticated && token == "" {
		return nil, oops.Code("AUTH_INVALID_STATE").
			Errorf("authenticated state requires a token")
	}
	return &AuthState{
		User:            user,
		Token:           token,
		IsAuthenticated: isAuthenticated,
	}, nil
}

// Authentication is the root aggregate. Instances are value-like: every
// mutation goes through a With* copy, never an in-place edit. The
// authoritative record lives in the storage tiers; in-memory instances are
// short-lived projections.
type Authentication struct {
	AuthState             *AuthState             `json:"authState,omitempty"`
	LoginCredentials      *LoginCredentials      `json:"loginCredentials,omitempty"`
	BiometricsPreferences *BiometricsPreferences `json:"biometricsPreferences,omitempty"`
	CreatedAt             time.Time              `json:"createdAt"`
}

// NewAuthentication creates an Authentication aggregate. A zero createdAt
// is stamped with the current time.
func NewAuthentication(state *AuthState, credentials *LoginCredentials, preferences *BiometricsPreferences, createdAt time.Time) *Authentication {
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &Authentication{
		AuthState:             state,
		LoginCredentials:      credentials,
		BiometricsPreferences: preferences,
		CreatedAt:             createdAt,
	}
}

// IsAuthenticated reports whether the aggregate carries an authenticated
// state.
func (a *Authentication) IsAuthenticated() bool {
	return a != nil && a.AuthState != nil && a.AuthState.IsAuthenticated
}

// clone returns a deep copy.
func (a *Authentication) clone() *Authentication {
	cp := &Authentication{CreatedAt: a.CreatedAt}
	if a.AuthState != nil {
		st := *a.AuthState
		st.User = a.AuthState.User.clone()
		cp.AuthState = &st
	}
	if a.LoginCredentials != nil {
		c := *a.LoginCredentials
		cp.LoginCredentials = &c
	}
	if a.BiometricsPreferences != nil {
		p := *a.BiometricsPreferences
		cp.BiometricsPreferences = &p
	}
	return cp
}

// WithBiometricsPreferences returns a copy carrying the given preferences.
func (a *Authentication) WithBiometricsPreferences(p BiometricsPreferences) *Authentication {
	cp := a.clone()
	cp.BiometricsPreferences = &p
	return cp
}

// WithBlankedPassword returns a copy whose credentials, if any, have the
// password removed. Used before writing to the full-state tier.
func (a *Authentication) WithBlankedPassword() *Authentication {
	cp := a.clone()
	cp.LoginCredentials = cp.LoginCredentials.Blanked()
	return cp
}

// WithAuthenticated returns a copy with the isAuthenticated marker set.
// Flipping it to false is the soft-logout path that keeps the cached
// profile around.
func (a *Authentication) WithAuthenticated(v bool) *Authentication {
	cp := a.clone()
	if cp.AuthState == nil {
		cp.AuthState = &AuthState{}
	}
	cp.AuthState.IsAuthenticated = v
	return cp
}
