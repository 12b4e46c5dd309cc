// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package main

import (
	"context"
	"time"

	"github.com/attenda/attenda/internal/biometric"
	"github.com/attenda/attenda/internal/config"
	"github.com/attenda/attenda/internal/geo"
	"github.com/attenda/attenda/internal/session/store"
	"github.com/attenda/attenda/internal/transport"
)

// AppDeps contains injectable dependencies for the CLI commands.
// All fields with nil values will use their default implementations.
type AppDeps struct {
	// GeoProvider supplies location fixes.
	// Default: a manual provider fed by the --lat/--lon/--fix-accuracy flags.
	GeoProvider geo.Provider

	// BiometricPlatform is the device biometric collaborator.
	// Default: no hardware (biometric login is unavailable from the CLI).
	BiometricPlatform biometric.Platform

	// API is the backend transport.
	// Default: transport.NewClient from the api config section.
	API transport.API

	// TierFactory opens the two storage tiers for the configured backend.
	// Default: openTiers.
	TierFactory func(ctx context.Context, cfg *config.Config) (secrets, state store.KV, cleanup func(), err error)
}

// manualProvider is the default CLI location source: the operator supplies
// the fix on the command line. Permission and service checks always pass;
// the accuracy gate still applies to the supplied fix.
type manualProvider struct {
	latitude  float64
	longitude float64
	accuracy  float64
}

func (p *manualProvider) ServicesEnabled(context.Context) (bool, error) {
	return true, nil
}

func (p *manualProvider) CheckPermission(context.Context) (geo.Permission, error) {
	return geo.PermissionGranted, nil
}

func (p *manualProvider) RequestPermission(context.Context) (geo.Permission, error) {
	return geo.PermissionGranted, nil
}

func (p *manualProvider) CurrentPosition(context.Context) (geo.Coordinates, error) {
	return geo.Coordinates{
		Latitude:  p.latitude,
		Longitude: p.longitude,
		Accuracy:  p.accuracy,
		Timestamp: time.Now(),
	}, nil
}

// noBiometrics is the default CLI biometric platform: no hardware.
type noBiometrics struct{}

func (noBiometrics) HardwareSupported(context.Context) (bool, error) { return false, nil }
func (noBiometrics) Enrolled(context.Context) (bool, error)          { return false, nil }
func (noBiometrics) Challenge(context.Context, string) (bool, error) { return false, nil }
