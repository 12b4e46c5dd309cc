// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package session

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/attenda/attenda/internal/geo"
	"github.com/attenda/attenda/internal/identity"
)

// LoginObserver is notified of login outcomes. Wired to metrics.
type LoginObserver interface {
	RecordLoginAttempt(strategy, outcome string)
	RecordLocationRejection()
}

// LoginRequest carries one login attempt's inputs. Email and password are
// empty for the biometric strategy. AccuracyOverride, when positive,
// replaces the default accuracy threshold for this attempt only.
type LoginRequest struct {
	Kind             StrategyKind
	Email            string
	Password         string
	AccuracyOverride float64
}

// Controller is the composition root for one login surface: it gates on a
// validated location fix, selects the strategy, runs it, and seeds default
// biometric preferences after a first successful login.
//
// A single attempt is allowed in flight at a time. Concurrent calls fail
// fast instead of racing the storage tiers.
type Controller struct {
	gate     *geo.Gate
	factory  *Factory
	store    Store
	logger   *slog.Logger
	observer LoginObserver

	inFlight atomic.Bool
}

// ControllerOption customizes a Controller.
type ControllerOption func(*Controller)

// WithLoginObserver wires login outcome notifications.
func WithLoginObserver(o LoginObserver) ControllerOption {
	return func(c *Controller) { c.observer = o }
}

// NewController creates a Controller.
func NewController(gate *geo.Gate, factory *Factory, store Store, logger *slog.Logger, opts ...ControllerOption) (*Controller, error) {
	if gate == nil {
		return nil, oops.Errorf("controller requires the location gate")
	}
	if factory == nil {
		return nil, oops.Errorf("controller requires the strategy factory")
	}
	if store == nil {
		return nil, oops.Errorf("controller requires the session store")
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{gate: gate, factory: factory, store: store, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Login runs one complete attempt: location gate, strategy selection,
// login, preference seeding. The steps are strictly sequential; a gate
// failure aborts the attempt before any credential is touched.
func (c *Controller) Login(ctx context.Context, req LoginRequest) (*identity.Authentication, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, oops.Code("LOGIN_FAILED").
			Errorf("a login attempt is already in flight")
	}
	defer c.inFlight.Store(false)

	attemptID := ulid.Make().String()
	logger := c.logger.With("attempt_id", attemptID, "strategy", string(req.Kind))

	fix, err := c.gate.Acquire(ctx, req.AccuracyOverride)
	if err != nil {
		logger.Warn("location gate rejected login", "error", err)
		if c.observer != nil {
			c.observer.RecordLocationRejection()
		}
		return nil, err
	}
	// The fix gates the attempt and is then discarded; coordinates are
	// never persisted.
	logger.Debug("location fix accepted", "accuracy_m", fix.Accuracy)

	port, err := c.factory.Select(req.Kind, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	auth, err := NewLoginUseCase(port).Execute(ctx)
	if err != nil {
		c.recordAttempt(req.Kind, "failure")
		return nil, err
	}
	c.recordAttempt(req.Kind, "success")

	auth, err = c.seedPreferences(ctx, auth)
	if err != nil {
		return nil, err
	}
	logger.Info("login attempt completed")
	return auth, nil
}

// GetAuthState returns the persisted session, nil when absent.
func (c *Controller) GetAuthState(ctx context.Context) (*identity.Authentication, error) {
	return NewGetAuthStateUseCase(c.store).Execute(ctx)
}

// GetAuthCredentials returns the stored credential pair, nil when absent.
func (c *Controller) GetAuthCredentials(ctx context.Context) (*identity.LoginCredentials, error) {
	creds, _, err := NewGetAuthCredentialsUseCase(c.store).Execute(ctx)
	return creds, err
}

// Logout performs the soft logout, keeping the cached profile and sealed
// credentials around.
func (c *Controller) Logout(ctx context.Context) error {
	return c.store.ClearSession(ctx)
}

// Wipe performs the hard logout: both tiers are deleted.
func (c *Controller) Wipe(ctx context.Context) error {
	return c.store.Wipe(ctx)
}

// seedPreferences stores default biometric preferences after a successful
// login when none exist yet, so the opt-in prompt is offered exactly once.
func (c *Controller) seedPreferences(ctx context.Context, auth *identity.Authentication) (*identity.Authentication, error) {
	if auth == nil || auth.BiometricsPreferences != nil {
		return auth, nil
	}
	seeded := auth.WithBiometricsPreferences(identity.DefaultBiometricsPreferences())
	if err := c.store.StoreAuthentication(ctx, seeded); err != nil {
		return nil, err
	}
	return seeded, nil
}

func (c *Controller) recordAttempt(kind StrategyKind, outcome string) {
	if c.observer != nil {
		c.observer.RecordLoginAttempt(string(kind), outcome)
	}
}
