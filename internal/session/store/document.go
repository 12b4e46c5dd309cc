// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package store

import (
	"time"
)

// DocumentVersion is the version stamped into full-state documents. Stored
// documents whose major version differs are treated as corrupt and wiped;
// minor/patch drift stays readable.
const DocumentVersion = "1.0.0"

// SessionDocument is the full-state tier envelope. The persisted form is
// this struct as JSON; the schema generated from it is what the read path
// validates against before any entity is rebuilt.
type SessionDocument struct {
	Version        string             `json:"version"`
	Authentication *AuthenticationDoc `json:"authentication"`
}

// AuthenticationDoc mirrors identity.Authentication in its wire shape.
type AuthenticationDoc struct {
	AuthState             *AuthStateDoc   `json:"authState,omitempty"`
	LoginCredentials      *CredentialsDoc `json:"loginCredentials,omitempty"`
	BiometricsPreferences *PreferencesDoc `json:"biometricsPreferences,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
}

// AuthStateDoc mirrors identity.AuthState.
type AuthStateDoc struct {
	User            *UserDoc `json:"user,omitempty"`
	Token           string   `json:"token"`
	IsAuthenticated bool     `json:"isAuthenticated"`
}

// UserDoc mirrors identity.User. Active is declared as any because older
// backend releases persisted 0/1 and "true"/"false" markers.
type UserDoc struct {
	ID     int64      `json:"id"`
	Email  string     `json:"email"`
	Name   string     `json:"name,omitempty"`
	Active any        `json:"active,omitempty"`
	Person *PersonDoc `json:"person,omitempty"`
}

// PersonDoc mirrors identity.Person.
type PersonDoc struct {
	ID         int64        `json:"id"`
	FirstName  string       `json:"firstName,omitempty"`
	LastName   string       `json:"lastName,omitempty"`
	DocumentID string       `json:"documentId,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	Address    string       `json:"address,omitempty"`
	BirthDate  string       `json:"birthDate,omitempty"`
	Employee   *EmployeeDoc `json:"employee,omitempty"`
}

// EmployeeDoc mirrors identity.Employee.
type EmployeeDoc struct {
	ID            int64  `json:"id"`
	Position      string `json:"position,omitempty"`
	ContractType  string `json:"contractType,omitempty"`
	PayrollNumber string `json:"payrollNumber,omitempty"`
	HiredAt       string `json:"hiredAt,omitempty"`
	Active        any    `json:"active,omitempty"`
}

// CredentialsDoc mirrors identity.LoginCredentials. In the full-state tier
// the password is always empty; the raw pair only ever appears inside the
// sealed secrets payload.
type CredentialsDoc struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PreferencesDoc mirrors identity.BiometricsPreferences.
type PreferencesDoc struct {
	IsConfigured       bool `json:"isConfigured"`
	IsEnabled          bool `json:"isEnabled"`
	HasPromptBeenShown bool `json:"hasPromptBeenShown"`
}

// SecretsDocument is the secrets-tier payload before sealing: exactly the
// login credentials and the record timestamp, nothing else.
type SecretsDocument struct {
	LoginCredentials *CredentialsDoc `json:"loginCredentials"`
	CreatedAt        time.Time       `json:"createdAt"`
}
