// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

// Package identity holds the session/credential domain model.
//
// # Value Objects
//
// Scalar wrappers (Email, EntityID, ActiveFlag) validate at construction
// and reject malformed input before it can enter an entity:
//   - NewEmail - RFC-shaped, quote-free email address
//   - NewEntityID - strictly positive numeric identifier
//   - ParseActiveFlag - tolerant bool decoding of remote active markers
//
// # Entities
//
// Entities (Authentication, User, Person, Employee) are immutable property
// bags built through their constructors. Direct struct initialization
// bypasses validation and may create invalid state; storage rehydration and
// remote-response mapping must always go through the constructors so value
// object validation re-runs on every field.
//
// Mutation happens by full-field copy: the With* methods on Authentication
// return a new instance and never edit the receiver.
package identity
