// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/attenda/attenda/internal/identity"
)

// Default tier keys. Both tiers are independent namespaces even when they
// share a backend.
const (
	DefaultSecretsKey = "attenda:session:secrets"
	DefaultStateKey   = "attenda:session:state"
)

// WipeObserver is notified when a defensive wipe runs. Wired to metrics.
type WipeObserver interface {
	RecordStorageWipe(reason string)
}

// Service is the dual-tier local storage for authentication state.
//
// The secrets tier holds exactly {loginCredentials, createdAt}, sealed at
// rest. The full-state tier holds the whole Authentication graph with the
// password blanked. The tiers have no transactional coupling: a crash
// between the two writes is tolerated by read-side corruption recovery,
// which treats anything partial or malformed as "no session" and wipes
// both tiers.
type Service struct {
	secrets    KV
	state      KV
	sealer     *Sealer
	secretsKey string
	stateKey   string
	logger     *slog.Logger
	observer   WipeObserver
}

// Option customizes a Service.
type Option func(*Service)

// WithKeys overrides the tier keys.
func WithKeys(secretsKey, stateKey string) Option {
	return func(s *Service) {
		s.secretsKey = secretsKey
		s.stateKey = stateKey
	}
}

// WithWipeObserver wires defensive-wipe notifications.
func WithWipeObserver(o WipeObserver) Option {
	return func(s *Service) { s.observer = o }
}

// NewService creates the storage service.
func NewService(secrets, state KV, sealer *Sealer, logger *slog.Logger, opts ...Option) (*Service, error) {
	if secrets == nil || state == nil {
		return nil, oops.Errorf("storage service requires both tiers")
	}
	if sealer == nil {
		return nil, oops.Errorf("storage service requires a sealer")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		secrets:    secrets,
		state:      state,
		sealer:     sealer,
		secretsKey: DefaultSecretsKey,
		stateKey:   DefaultStateKey,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// StoreAuthentication persists auth to both tiers: the sealed secrets
// payload first, then the redacted full-state document. The write
// precondition is an authenticated state; anything else is rejected before
// either tier is touched.
func (s *Service) StoreAuthentication(ctx context.Context, auth *identity.Authentication) error {
	if auth == nil {
		return oops.Code("AUTH_ENTITY_REQUIRED").
			Errorf("authentication entity is required")
	}
	if !auth.IsAuthenticated() {
		return oops.Code("AUTH_INVALID_STATE").
			Errorf("only authenticated sessions may be persisted")
	}
	if auth.LoginCredentials == nil {
		return oops.Code("AUTH_REQUIRED_ALL_FIELDS").
			Errorf("login credentials are required to persist a session")
	}

	secretsPayload, err := json.Marshal(SecretsDocument{
		LoginCredentials: &CredentialsDoc{
			Email:    auth.LoginCredentials.Email.String(),
			Password: auth.LoginCredentials.Password,
		},
		CreatedAt: auth.CreatedAt,
	})
	if err != nil {
		return oops.Code("AUTH_STORAGE_ERROR").Wrap(err)
	}
	sealed, err := s.sealer.Seal(secretsPayload)
	if err != nil {
		return err
	}
	if err := s.secrets.Set(ctx, s.secretsKey, sealed); err != nil {
		s.wipeBoth(ctx, "secrets_write_failed")
		return oops.Code("AUTH_STORAGE_ERROR").Wrap(err)
	}

	statePayload, err := json.Marshal(SessionDocument{
		Version:        DocumentVersion,
		Authentication: toAuthenticationDoc(auth.WithBlankedPassword()),
	})
	if err != nil {
		s.wipeBoth(ctx, "state_encode_failed")
		return oops.Code("AUTH_STORAGE_ERROR").Wrap(err)
	}
	if err := s.state.Set(ctx, s.stateKey, string(statePayload)); err != nil {
		s.wipeBoth(ctx, "state_write_failed")
		return oops.Code("AUTH_STORAGE_ERROR").Wrap(err)
	}
	return nil
}

// GetAuthentication reads the full-state tier and rebuilds the entity
// graph level by level through the identity constructors, so value object
// validation re-runs on every stored scalar. Corrupt, partial, or
// incompatible data yields (nil, nil) after both tiers are wiped: absence,
// never a degraded session.
func (s *Service) GetAuthentication(ctx context.Context) (*identity.Authentication, error) {
	raw, ok, err := s.state.Get(ctx, s.stateKey)
	if err != nil {
		s.wipeBoth(ctx, "state_read_failed")
		return nil, oops.Code("AUTH_STORAGE_ERROR").Wrap(err)
	}
	if !ok {
		return nil, nil
	}

	if err := validateDocument([]byte(raw)); err != nil {
		s.wipeBoth(ctx, "state_schema_invalid")
		return nil, nil
	}

	var doc SessionDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		s.wipeBoth(ctx, "state_decode_failed")
		return nil, nil
	}
	if !versionCompatible(doc.Version) {
		s.wipeBoth(ctx, "state_version_incompatible")
		return nil, nil
	}

	auth, err := rebuildAuthentication(doc.Authentication)
	if err != nil {
		s.wipeBoth(ctx, "state_rehydrate_failed")
		return nil, nil
	}
	return auth, nil
}

// GetCredentials reads and unseals the secrets tier. Absence is
// (nil, zero, nil); corruption wipes both tiers and also reads as absence.
// Only a backend failure surfaces as an error.
func (s *Service) GetCredentials(ctx context.Context) (*identity.LoginCredentials, time.Time, error) {
	raw, ok, err := s.secrets.Get(ctx, s.secretsKey)
	if err != nil {
		s.wipeBoth(ctx, "secrets_read_failed")
		return nil, time.Time{}, oops.Code("AUTH_GET_STORAGE_ERROR").Wrap(err)
	}
	if !ok {
		return nil, time.Time{}, nil
	}

	plaintext, err := s.sealer.Open(raw)
	if err != nil {
		s.wipeBoth(ctx, "secrets_unseal_failed")
		return nil, time.Time{}, nil
	}

	var doc SecretsDocument
	if err := json.Unmarshal(plaintext, &doc); err != nil {
		s.wipeBoth(ctx, "secrets_decode_failed")
		return nil, time.Time{}, nil
	}
	if doc.LoginCredentials == nil {
		s.wipeBoth(ctx, "secrets_incomplete")
		return nil, time.Time{}, nil
	}

	email, err := identity.NewEmail(doc.LoginCredentials.Email)
	if err != nil {
		s.wipeBoth(ctx, "secrets_invalid_email")
		return nil, time.Time{}, nil
	}
	creds, err := identity.NewLoginCredentials(email, doc.LoginCredentials.Password)
	if err != nil {
		s.wipeBoth(ctx, "secrets_invalid_credentials")
		return nil, time.Time{}, nil
	}
	return creds, doc.CreatedAt, nil
}

// ClearSession is the soft logout: it flips isAuthenticated to false in
// the full-state tier and keeps everything else, including the sealed
// secrets, so "remember me" and biometric re-login keep working.
func (s *Service) ClearSession(ctx context.Context) error {
	raw, ok, err := s.state.Get(ctx, s.stateKey)
	if err != nil {
		s.wipeBoth(ctx, "state_read_failed")
		return oops.Code("AUTH_STORAGE_ERROR").Wrap(err)
	}
	if !ok {
		return nil
	}

	var doc SessionDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil || doc.Authentication == nil || doc.Authentication.AuthState == nil {
		s.wipeBoth(ctx, "state_decode_failed")
		return nil
	}
	doc.Authentication.AuthState.IsAuthenticated = false

	payload, err := json.Marshal(doc)
	if err != nil {
		s.wipeBoth(ctx, "state_encode_failed")
		return oops.Code("AUTH_STORAGE_ERROR").Wrap(err)
	}
	if err := s.state.Set(ctx, s.stateKey, string(payload)); err != nil {
		s.wipeBoth(ctx, "state_write_failed")
		return oops.Code("AUTH_STORAGE_ERROR").Wrap(err)
	}
	return nil
}

// Wipe is the hard logout: both tiers are deleted.
func (s *Service) Wipe(ctx context.Context) error {
	secretsErr := s.secrets.Delete(ctx, s.secretsKey)
	stateErr := s.state.Delete(ctx, s.stateKey)
	if secretsErr != nil || stateErr != nil {
		return oops.Code("AUTH_STORAGE_ERROR").
			Errorf("wipe failed (secrets: %v, state: %v)", secretsErr, stateErr)
	}
	return nil
}

// wipeBoth is the defensive cleanup run on any read/write anomaly. Errors
// here are logged and swallowed: the wipe is best-effort and the caller
// already has a more specific failure to report.
func (s *Service) wipeBoth(ctx context.Context, reason string) {
	if err := s.secrets.Delete(ctx, s.secretsKey); err != nil {
		s.logger.Warn("secrets tier wipe failed", "reason", reason, "error", err)
	}
	if err := s.state.Delete(ctx, s.stateKey); err != nil {
		s.logger.Warn("state tier wipe failed", "reason", reason, "error", err)
	}
	s.logger.Info("storage tiers wiped", "reason", reason)
	if s.observer != nil {
		s.observer.RecordStorageWipe(reason)
	}
}
