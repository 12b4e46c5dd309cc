// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package identity

import (
	"regexp"
	"strings"

	"github.com/samber/oops"
)

// MaxEmailLength bounds accepted email addresses. RFC 5321 limits the path
// to 254 octets; anything longer is rejected outright.
const MaxEmailLength = 254

// emailRegex matches addresses of the shape local@domain.tld. It is
// deliberately stricter than RFC 5322: quoted local parts and address
// literals are not used by the backend and are rejected here.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email is a validated email address.
type Email string

// NewEmail validates and returns an Email.
// Quote characters are rejected even though the pattern already excludes
// them, so the intent survives future pattern edits.
func NewEmail(raw string) (Email, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", oops.Code("AUTH_REQUIRED_FIELD").
			With("field", "email").
			Errorf("email cannot be empty")
	}
	if len(raw) > MaxEmailLength {
		return "", oops.Code("AUTH_INVALID_FIELD_FORMAT").
			With("field", "email").
			With("max", MaxEmailLength).
			Errorf("email must be at most %d characters", MaxEmailLength)
	}
	if strings.ContainsAny(raw, `'"`+"`") {
		return "", oops.Code("AUTH_INVALID_FIELD_FORMAT").
			With("field", "email").
			Errorf("email must not contain quote characters")
	}
	if !emailRegex.MatchString(raw) {
		return "", oops.Code("AUTH_INVALID_FIELD_FORMAT").
			With("field", "email").
			Errorf("email has an invalid format")
	}
	return Email(raw), nil
}

// String returns the address as a plain string.
func (e Email) String() string { return string(e) }

// EntityID is a validated, strictly positive numeric identifier.
type EntityID int64

// NewEntityID validates and returns an EntityID.
func NewEntityID(raw int64) (EntityID, error) {
	if raw <= 0 {
		return 0, oops.Code("AUTH_INVALID_FIELD_FORMAT").
			With("field", "id").
			With("value", raw).
			Errorf("identifier must be a positive integer")
	}
	return EntityID(raw), nil
}

// Int64 returns the identifier as a plain int64.
func (id EntityID) Int64() int64 { return int64(id) }

// ParseActiveFlag decodes the active markers the backend emits. Older API
// versions return 0/1 or "true"/"false" instead of a JSON bool.
func ParseActiveFlag(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case float64:
		// encoding/json decodes numbers as float64.
		switch v {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
	case nil:
		return false, nil
	}
	return false, oops.Code("AUTH_INVALID_FIELD_FORMAT").
		With("field", "active").
		Errorf("active flag has an unrecognized representation")
}
