// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package store

import (
	"github.com/samber/oops"

	"github.com/attenda/attenda/internal/identity"
)

// toAuthenticationDoc projects the aggregate into its full-state wire
// shape. Callers blank the password first; this function does not.
func toAuthenticationDoc(a *identity.Authentication) *AuthenticationDoc {
	if a == nil {
		return nil
	}
	doc := &AuthenticationDoc{CreatedAt: a.CreatedAt}
	if a.AuthState != nil {
		doc.AuthState = &AuthStateDoc{
			User:            toUserDoc(a.AuthState.User),
			Token:           a.AuthState.Token,
			IsAuthenticated: a.AuthState.IsAuthenticated,
		}
	}
	if a.LoginCredentials != nil {
		doc.LoginCredentials = &CredentialsDoc{
			Email:    a.LoginCredentials.Email.String(),
			Password: a.LoginCredentials.Password,
		}
	}
	if a.BiometricsPreferences != nil {
		doc.BiometricsPreferences = &PreferencesDoc{
			IsConfigured:       a.BiometricsPreferences.IsConfigured,
			IsEnabled:          a.BiometricsPreferences.IsEnabled,
			HasPromptBeenShown: a.BiometricsPreferences.HasPromptBeenShown,
		}
	}
	return doc
}

func toUserDoc(u *identity.User) *UserDoc {
	if u == nil {
		return nil
	}
	doc := &UserDoc{
		ID:     u.ID.Int64(),
		Email:  u.Email.String(),
		Name:   u.Name,
		Active: u.Active,
	}
	if p := u.Person; p != nil {
		doc.Person = &PersonDoc{
			ID:         p.ID.Int64(),
			FirstName:  p.FirstName,
			LastName:   p.LastName,
			DocumentID: p.DocumentID,
			Phone:      p.Phone,
			Address:    p.Address,
			BirthDate:  p.BirthDate,
		}
		if e := p.Employee; e != nil {
			doc.Person.Employee = &EmployeeDoc{
				ID:            e.ID.Int64(),
				Position:      e.Position,
				ContractType:  e.ContractType,
				PayrollNumber: e.PayrollNumber,
				HiredAt:       e.HiredAt,
				Active:        e.Active,
			}
		}
	}
	return doc
}

// rebuildAuthentication turns a stored document back into the entity
// graph, level by level through the identity constructors so every scalar
// is revalidated. A document without a populated auth state, or with a
// broken user -> person -> employee chain, is rejected: the read path
// treats that as no session.
func rebuildAuthentication(doc *AuthenticationDoc) (*identity.Authentication, error) {
	if doc == nil || doc.AuthState == nil || doc.AuthState.User == nil {
		return nil, oops.Code("AUTH_INVALID_STATE").
			Errorf("stored session lacks a populated auth state")
	}

	user, err := rebuildUser(doc.AuthState.User)
	if err != nil {
		return nil, err
	}
	if !user.HasEmployee() {
		return nil, oops.Code("AUTH_INVALID_STATE").
			Errorf("stored session user has no employee record")
	}

	state, err := identity.NewAuthState(user, doc.AuthState.Token, doc.AuthState.IsAuthenticated)
	if err != nil {
		return nil, err
	}

	var creds *identity.LoginCredentials
	if doc.LoginCredentials != nil {
		email, err := identity.NewEmail(doc.LoginCredentials.Email)
		if err != nil {
			return nil, err
		}
		// The full-state tier only ever holds the blanked projection,
		// which the credentials constructor would reject.
		creds = &identity.LoginCredentials{Email: email}
	}

	var prefs *identity.BiometricsPreferences
	if doc.BiometricsPreferences != nil {
		prefs = &identity.BiometricsPreferences{
			IsConfigured:       doc.BiometricsPreferences.IsConfigured,
			IsEnabled:          doc.BiometricsPreferences.IsEnabled,
			HasPromptBeenShown: doc.BiometricsPreferences.HasPromptBeenShown,
		}
	}

	return identity.NewAuthentication(state, creds, prefs, doc.CreatedAt), nil
}

func rebuildUser(doc *UserDoc) (*identity.User, error) {
	id, err := identity.NewEntityID(doc.ID)
	if err != nil {
		return nil, err
	}
	email, err := identity.NewEmail(doc.Email)
	if err != nil {
		return nil, err
	}
	active, err := identity.ParseActiveFlag(doc.Active)
	if err != nil {
		return nil, err
	}

	var person *identity.Person
	if doc.Person != nil {
		person, err = rebuildPerson(doc.Person)
		if err != nil {
			return nil, err
		}
	}
	return identity.NewUser(id, email, doc.Name, active, person)
}

func rebuildPerson(doc *PersonDoc) (*identity.Person, error) {
	id, err := identity.NewEntityID(doc.ID)
	if err != nil {
		return nil, err
	}

	var employee *identity.Employee
	if doc.Employee != nil {
		employee, err = rebuildEmployee(doc.Employee)
		if err != nil {
			return nil, err
		}
	}
	return identity.NewPerson(id, doc.FirstName, doc.LastName, doc.DocumentID, doc.Phone, doc.Address, doc.BirthDate, employee)
}

func rebuildEmployee(doc *EmployeeDoc) (*identity.Employee, error) {
	id, err := identity.NewEntityID(doc.ID)
	if err != nil {
		return nil, err
	}
	active, err := identity.ParseActiveFlag(doc.Active)
	if err != nil {
		return nil, err
	}
	return identity.NewEmployee(id, doc.Position, doc.ContractType, doc.PayrollNumber, doc.HiredAt, active)
}
