// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

// Package biometric probes device biometric capability and runs the
// platform challenge. Availability requires both hardware support and an
// enrolled identity; preference state (whether the user opted in) lives in
// the identity model, not here.
package biometric

import (
	"context"

	"github.com/samber/oops"
)

// Platform is the device collaborator. Challenge blocks until the platform
// dialog settles; it cannot be aborted mid-flight.
type Platform interface {
	// HardwareSupported reports whether the device has biometric hardware.
	HardwareSupported(ctx context.Context) (bool, error)

	// Enrolled reports whether at least one biometric identity is enrolled.
	Enrolled(ctx context.Context) (bool, error)

	// Challenge shows the platform prompt and reports whether the user
	// passed it. A platform failure is returned as an error.
	Challenge(ctx context.Context, reason string) (bool, error)
}

// Service exposes capability probing and the challenge with domain errors.
type Service struct {
	platform Platform
}

// NewService creates a Service.
func NewService(platform Platform) (*Service, error) {
	if platform == nil {
		return nil, oops.Errorf("biometric service requires a platform")
	}
	return &Service{platform: platform}, nil
}

// Available reports whether biometric login can be offered: hardware
// support and enrollment are independent checks and both must hold.
func (s *Service) Available(ctx context.Context) (bool, error) {
	supported, err := s.platform.HardwareSupported(ctx)
	if err != nil {
		return false, oops.Code("BIOMETRIC_UNAVAILABLE").
			With("probe", "hardware").
			Wrap(err)
	}
	if !supported {
		return false, nil
	}
	enrolled, err := s.platform.Enrolled(ctx)
	if err != nil {
		return false, oops.Code("BIOMETRIC_UNAVAILABLE").
			With("probe", "enrollment").
			Wrap(err)
	}
	return enrolled, nil
}

// Authenticate runs the platform challenge. Rejection, cancellation and
// platform errors all normalize to BIOMETRIC_AUTH_FAILED.
func (s *Service) Authenticate(ctx context.Context, reason string) error {
	ok, err := s.platform.Challenge(ctx, reason)
	if err != nil {
		return oops.Code("BIOMETRIC_AUTH_FAILED").Wrap(err)
	}
	if !ok {
		return oops.Code("BIOMETRIC_AUTH_FAILED").
			Errorf("biometric challenge rejected")
	}
	return nil
}
