// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package identity

import (
	"github.com/samber/oops"
)

// Employee carries the employment record attached to a Person. An employee
// without a valid numeric identifier is rejected; the remaining fields are
// free-form payroll/contract metadata the backend owns.
type Employee struct {
	ID            EntityID `json:"id"`
	Position      string   `json:"position,omitempty"`
	ContractType  string   `json:"contractType,omitempty"`
	PayrollNumber string   `json:"payrollNumber,omitempty"`
	HiredAt       string   `json:"hiredAt,omitempty"`
	Active        bool     `json:"active"`
}

// NewEmployee creates a validated Employee.
func NewEmployee(id EntityID, position, contractType, payrollNumber, hiredAt string, active bool) (*Employee, error) {
	if id <= 0 {
		return nil, oops.Code("AUTH_INVALID_FIELD_FORMAT").
			With("entity", "employee").
			Errorf("employee requires a positive identifier")
	}
	return &Employee{
		ID:            id,
		Position:      position,
		ContractType:  contractType,
		PayrollNumber: payrollNumber,
		HiredAt:       hiredAt,
		Active:        active,
	}, nil
}

// Person carries the personal record attached to a User and owns at most
// one Employee.
type Person struct {
	ID         EntityID  `json:"id"`
	FirstName  string    `json:"firstName,omitempty"`
	LastName   string    `json:"lastName,omitempty"`
	DocumentID string    `json:"documentId,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	BirthDate  string    `json:"birthDate,omitempty"`
	Employee   *Employee `json:"employee,omitempty"`
}

// NewPerson creates a validated Person. The employee is optional at this
// level; domain rules requiring one are enforced by the login flow.
func NewPerson(id EntityID, firstName, lastName, documentID, phone, address, birthDate string, employee *Employee) (*Person, error) {
	if id <= 0 {
		return nil, oops.Code("AUTH_INVALID_FIELD_FORMAT").
			With("entity", "person").
			Errorf("person requires a positive identifier")
	}
	return &Person{
		ID:         id,
		FirstName:  firstName,
		LastName:   lastName,
		DocumentID: documentID,
		Phone:      phone,
		Address:    address,
		BirthDate:  birthDate,
		Employee:   employee,
	}, nil
}

// User is the root of the entity graph and owns at most one Person.
type User struct {
	ID     EntityID `json:"id"`
	Email  Email    `json:"email"`
	Name   string   `json:"name,omitempty"`
	Active bool     `json:"active"`
	Person *Person  `json:"person,omitempty"`
}

// NewUser creates a validated User.
func NewUser(id EntityID, email Email, name string, active bool, person *Person) (*User, error) {
	if id <= 0 {
		return nil, oops.Code("AUTH_INVALID_FIELD_FORMAT").
			With("entity", "user").
			Errorf("user requires a positive identifier")
	}
	if email == "" {
		return nil, oops.Code("AUTH_REQUIRED_FIELD").
			With("entity", "user").
			With("field", "email").
			Errorf("user requires an email")
	}
	return &User{
		ID:     id,
		Email:  email,
		Name:   name,
		Active: active,
		Person: person,
	}, nil
}

// HasEmployee reports whether the graph chain user -> person -> employee is
// intact. A broken chain means the session cannot attend and is treated as
// absent by storage rehydration.
func (u *User) HasEmployee() bool {
	return u != nil && u.Person != nil && u.Person.Employee != nil
}

// clone returns a deep copy of the user graph.
func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	if u.Person != nil {
		p := *u.Person
		if u.Person.Employee != nil {
			e := *u.Person.Employee
			p.Employee = &e
		}
		cp.Person = &p
	}
	return &cp
}
