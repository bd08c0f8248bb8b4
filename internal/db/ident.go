// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"fmt"
	"regexp"
)

// MaxIdentLength is the longest identifier accepted; 63 is the Postgres limit
// and the smallest among the supported engines.
const MaxIdentLength = 63

// ErrInvalidIdent is returned for table names that cannot be interpolated
// into SQL safely.
var ErrInvalidIdent = errors.New("invalid identifier")

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdent checks that name is a plain identifier. Table names cannot be
// bound as statement parameters, so they are restricted to an allow-listed
// character set before they ever reach a query.
func ValidateIdent(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidIdent)
	}
	if len(name) > MaxIdentLength {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidIdent, name, MaxIdentLength)
	}
	if !identPattern.MatchString(name) {
		return fmt.Errorf("%w: %q may only contain letters, digits and underscores and must not start with a digit", ErrInvalidIdent, name)
	}
	return nil
}
