// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

// Package geo acquires and validates device location fixes. A login must
// never proceed without a fix that passes the accuracy gate; coordinates
// are consumed once per attempt and never persisted.
package geo

import (
	"context"
	"time"

	"github.com/samber/oops"
)

// DefaultAccuracyThreshold is the policy default for the maximum accepted
// fix error radius, in meters.
const DefaultAccuracyThreshold = 30.0

// Permission is the platform location-permission state.
type Permission int

// Permission states reported by the platform.
const (
	PermissionDenied Permission = iota
	PermissionDeniedForever
	PermissionGranted
)

// Coordinates is a transient location fix. Accuracy is the estimated error
// radius in meters; Altitude is optional.
type Coordinates struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
	Altitude  *float64
	Timestamp time.Time
}

// Provider is the platform collaborator for location services. None of the
// calls are cancellable mid-flight; context is passed for deadline
// propagation only.
type Provider interface {
	// ServicesEnabled reports whether device location services are on.
	ServicesEnabled(ctx context.Context) (bool, error)

	// CheckPermission returns the current permission state without prompting.
	CheckPermission(ctx context.Context) (Permission, error)

	// RequestPermission prompts the user and returns the resulting state.
	RequestPermission(ctx context.Context) (Permission, error)

	// CurrentPosition acquires a best-effort fix.
	CurrentPosition(ctx context.Context) (Coordinates, error)
}

// Gate runs the location state sequence and enforces the accuracy policy.
type Gate struct {
	provider  Provider
	threshold float64
}

// NewGate creates a Gate. A non-positive threshold falls back to
// DefaultAccuracyThreshold.
func NewGate(provider Provider, threshold float64) (*Gate, error) {
	if provider == nil {
		return nil, oops.Errorf("geo gate requires a provider")
	}
	if threshold <= 0 {
		threshold = DefaultAccuracyThreshold
	}
	return &Gate{provider: provider, threshold: threshold}, nil
}

// Threshold returns the configured accuracy threshold in meters.
func (g *Gate) Threshold() float64 { return g.threshold }

// Acquire runs the full sequence: services enabled -> permission ->
// fix -> accuracy validation. Any stage failure aborts the caller's login
// attempt; the caller override, when positive, replaces the configured
// threshold for this call only.
func (g *Gate) Acquire(ctx context.Context, override float64) (Coordinates, error) {
	enabled, err := g.provider.ServicesEnabled(ctx)
	if err != nil {
		return Coordinates{}, oops.Code("LOCATION_SERVICES_DISABLED").
			With("stage", "services_probe").
			Wrap(err)
	}
	if !enabled {
		return Coordinates{}, oops.Code("LOCATION_SERVICES_DISABLED").
			Errorf("location services are disabled")
	}

	perm, err := g.provider.CheckPermission(ctx)
	if err != nil {
		return Coordinates{}, oops.Code("LOCATION_PERMISSION_DENIED").
			With("stage", "permission_check").
			Wrap(err)
	}
	if perm == PermissionDenied {
		perm, err = g.provider.RequestPermission(ctx)
		if err != nil {
			return Coordinates{}, oops.Code("LOCATION_PERMISSION_DENIED").
				With("stage", "permission_request").
				Wrap(err)
		}
	}
	if perm != PermissionGranted {
		return Coordinates{}, oops.Code("LOCATION_PERMISSION_DENIED").
			Errorf("location permission denied")
	}

	fix, err := g.provider.CurrentPosition(ctx)
	if err != nil {
		return Coordinates{}, oops.Code("LOCATION_NOT_ACCURATE").
			With("stage", "fix_acquisition").
			Wrap(err)
	}

	threshold := g.threshold
	if override > 0 {
		threshold = override
	}
	if err := ValidateAccuracy(fix, threshold); err != nil {
		return Coordinates{}, err
	}
	return fix, nil
}

// ValidateAccuracy checks a fix against the required error radius. A fix
// exactly at the threshold passes.
func ValidateAccuracy(fix Coordinates, required float64) error {
	if required <= 0 {
		required = DefaultAccuracyThreshold
	}
	if fix.Accuracy <= 0 {
		return oops.Code("LOCATION_NOT_ACCURATE").
			Errorf("fix reports no accuracy estimate")
	}
	if fix.Accuracy > required {
		return oops.Code("LOCATION_NOT_ACCURATE").
			With("accuracy_m", fix.Accuracy).
			With("required_m", required).
			Errorf("fix accuracy %.0fm exceeds required %.0fm", fix.Accuracy, required)
	}
	return nil
}
