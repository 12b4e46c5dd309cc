// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package session

import (
	"context"

	"github.com/samber/oops"

	"github.com/attenda/attenda/internal/identity"
)

// CredentialLogin is the credential strategy surface.
type CredentialLogin interface {
	Login(ctx context.Context, email, password string) (*identity.Authentication, error)
}

// BiometricLogin is the biometric strategy surface.
type BiometricLogin interface {
	Login(ctx context.Context) (*identity.Authentication, error)
}

// Factory selects a login strategy by kind and binds its inputs, yielding
// a uniform LoginPort. Stateless; safe for concurrent use.
type Factory struct {
	credentials CredentialLogin
	biometric   BiometricLogin
}

// NewFactory creates a Factory over the two strategies.
func NewFactory(credentials CredentialLogin, biometric BiometricLogin) (*Factory, error) {
	if credentials == nil {
		return nil, oops.Errorf("factory requires the credential strategy")
	}
	if biometric == nil {
		return nil, oops.Errorf("factory requires the biometric strategy")
	}
	return &Factory{credentials: credentials, biometric: biometric}, nil
}

// Select returns the port for the requested strategy. The email and
// password arguments are only consulted for StrategyEmail.
func (f *Factory) Select(kind StrategyKind, email, password string) (LoginPort, error) {
	switch kind {
	case StrategyEmail:
		return &credentialPort{repo: f.credentials, email: email, password: password}, nil
	case StrategyBiometric:
		return &biometricPort{repo: f.biometric}, nil
	default:
		return nil, oops.Code("LOGIN_INVALID_TYPE").
			With("type", string(kind)).
			Errorf("unknown login type")
	}
}

type credentialPort struct {
	repo     CredentialLogin
	email    string
	password string
}

func (p *credentialPort) Login(ctx context.Context) (*identity.Authentication, error) {
	return p.repo.Login(ctx, p.email, p.password)
}

type biometricPort struct {
	repo BiometricLogin
}

func (p *biometricPort) Login(ctx context.Context) (*identity.Authentication, error) {
	return p.repo.Login(ctx)
}
