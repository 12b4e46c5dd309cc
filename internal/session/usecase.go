// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package session

import (
	"context"
	"time"

	"github.com/attenda/attenda/internal/identity"
)

// LoginUseCase executes a selected login strategy.
type LoginUseCase struct {
	port LoginPort
}

// NewLoginUseCase wraps a strategy in its use case.
func NewLoginUseCase(port LoginPort) *LoginUseCase {
	return &LoginUseCase{port: port}
}

// Execute runs the login.
func (u *LoginUseCase) Execute(ctx context.Context) (*identity.Authentication, error) {
	return u.port.Login(ctx)
}

// GetAuthStateUseCase reads the persisted session, if any.
type GetAuthStateUseCase struct {
	reader StateReader
}

// NewGetAuthStateUseCase creates the read-back use case.
func NewGetAuthStateUseCase(reader StateReader) *GetAuthStateUseCase {
	return &GetAuthStateUseCase{reader: reader}
}

// Execute returns the stored Authentication or nil when absent.
func (u *GetAuthStateUseCase) Execute(ctx context.Context) (*identity.Authentication, error) {
	return u.reader.GetAuthentication(ctx)
}

// GetAuthCredentialsUseCase reads the stored credential pair.
type GetAuthCredentialsUseCase struct {
	reader CredentialsReader
}

// NewGetAuthCredentialsUseCase creates the secrets read-back use case.
func NewGetAuthCredentialsUseCase(reader CredentialsReader) *GetAuthCredentialsUseCase {
	return &GetAuthCredentialsUseCase{reader: reader}
}

// Execute returns the stored credentials or nil when absent.
func (u *GetAuthCredentialsUseCase) Execute(ctx context.Context) (*identity.LoginCredentials, time.Time, error) {
	return u.reader.GetCredentials(ctx)
}
