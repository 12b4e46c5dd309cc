// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

// Package session orchestrates login: the location gate, strategy
// selection, use-case execution, and first-login preference seeding.
package session

import (
	"context"
	"time"

	"github.com/attenda/attenda/internal/identity"
)

// StrategyKind names a login strategy.
type StrategyKind string

// The supported strategies.
const (
	StrategyEmail     StrategyKind = "email"
	StrategyBiometric StrategyKind = "biometric"
)

// LoginPort is the shared contract both strategies implement once bound
// to their inputs.
type LoginPort interface {
	Login(ctx context.Context) (*identity.Authentication, error)
}

// StateReader reads the persisted full-state tier.
type StateReader interface {
	GetAuthentication(ctx context.Context) (*identity.Authentication, error)
}

// CredentialsReader reads the persisted secrets tier.
type CredentialsReader interface {
	GetCredentials(ctx context.Context) (*identity.LoginCredentials, time.Time, error)
}

// SessionWriter covers the mutations the controller performs outside a
// login: preference seeding and the two logout shapes.
type SessionWriter interface {
	StoreAuthentication(ctx context.Context, auth *identity.Authentication) error
	ClearSession(ctx context.Context) error
	Wipe(ctx context.Context) error
}

// Store is the full storage surface the controller consumes.
type Store interface {
	StateReader
	CredentialsReader
	SessionWriter
}
