// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package login

import (
	"github.com/samber/oops"

	"github.com/attenda/attenda/internal/identity"
)

// loginRequest is the credential payload for the login endpoint.
type loginRequest struct {
	UserEmail    string `json:"userEmail"`
	UserPassword string `json:"userPassword"`
}

// loginResponse is the login endpoint reply. Only the token matters here;
// the profile graph comes from the session endpoint afterwards.
type loginResponse struct {
	Token string `json:"token"`
}

// sessionResponse is the session endpoint reply carrying the profile
// graph of the authenticated user.
type sessionResponse struct {
	User *remoteUser `json:"user"`
}

// remoteUser mirrors the backend user shape. Active is declared as any
// because older backend releases emit 0/1 and "true"/"false" markers.
type remoteUser struct {
	ID     int64         `json:"id"`
	Email  string        `json:"email"`
	Name   string        `json:"name"`
	Active any           `json:"active"`
	Person *remotePerson `json:"person"`
}

type remotePerson struct {
	ID         int64           `json:"id"`
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	DocumentID string          `json:"documentId"`
	Phone      string          `json:"phone"`
	Address    string          `json:"address"`
	BirthDate  string          `json:"birthDate"`
	Employee   *remoteEmployee `json:"employee"`
}

type remoteEmployee struct {
	ID            int64  `json:"id"`
	Position      string `json:"position"`
	ContractType  string `json:"contractType"`
	PayrollNumber string `json:"payrollNumber"`
	HiredAt       string `json:"hiredAt"`
	Active        any    `json:"active"`
}

// mapRemoteUser rebuilds the entity graph from the session reply through
// the identity constructors, so every remote scalar is validated. A
// malformed field fails the whole login.
func mapRemoteUser(doc *remoteUser) (*identity.User, error) {
	if doc == nil {
		return nil, oops.Code("LOGIN_NO_AUTH_STATUS").
			Errorf("session reply carries no user")
	}

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
		person, err = mapRemotePerson(doc.Person)
		if err != nil {
			return nil, err
		}
	}
	return identity.NewUser(id, email, doc.Name, active, person)
}

func mapRemotePerson(doc *remotePerson) (*identity.Person, error) {
	id, err := identity.NewEntityID(doc.ID)
	if err != nil {
		return nil, err
	}

	var employee *identity.Employee
	if doc.Employee != nil {
		employee, err = mapRemoteEmployee(doc.Employee)
		if err != nil {
			return nil, err
		}
	}
	return identity.NewPerson(id, doc.FirstName, doc.LastName, doc.DocumentID, doc.Phone, doc.Address, doc.BirthDate, employee)
}

func mapRemoteEmployee(doc *remoteEmployee) (*identity.Employee, error) {
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
