// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package login

import (
	"regexp"

	"github.com/samber/oops"
)

// injectionPatterns is the denylist of SQL-injection signatures screened
// out of passwords before any remote call. Defense in depth only: the
// backend owns real protection through parameterized queries. Patterns are
// matched case-insensitively against the raw input.
var injectionPatterns = []*regexp.Regexp{
	// Boolean tautologies: ' OR '1'='1, " OR 1=1, or 'a'='a
	regexp.MustCompile(`(?i)['"]\s*(or|and)\s+['"]?\w+['"]?\s*=\s*['"]?\w+`),
	regexp.MustCompile(`(?i)\b(or|and)\s+\d+\s*=\s*\d+`),
	// Comment markers cutting off the rest of the statement: admin' --
	regexp.MustCompile(`--`),
	regexp.MustCompile(`/\*`),
	regexp.MustCompile(`(?i)['"]\s*#`),
	// Stacked queries: '; DROP TABLE users
	regexp.MustCompile(`(?i);\s*(select|insert|update|delete|drop|alter|create|truncate|exec)\b`),
	// Blind-injection timing probes.
	regexp.MustCompile(`(?i)\b(sleep|benchmark|waitfor|pg_sleep)\s*\(`),
	regexp.MustCompile(`(?i)\bwaitfor\s+delay\b`),
	// UNION-based extraction.
	regexp.MustCompile(`(?i)\bunion\s+(all\s+)?select\b`),
}

// screenPassword rejects passwords matching any known injection signature.
// It runs before any remote call and never logs or attaches the password
// itself.
func screenPassword(password string) error {
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(password) {
			return oops.Code("AUTH_INVALID_FIELD_FORMAT").
				With("field", "password").
				Errorf("password contains a disallowed pattern")
		}
	}
	return nil
}
