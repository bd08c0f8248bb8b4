// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicate is returned when a statement violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// ErrReadOnly is returned when the engine refuses writes, e.g. a SQLite file
// without write permission.
var ErrReadOnly = errors.New("database is read-only")

// MapDBError inspects low-level driver errors and maps common failure classes
// to package-level sentinel errors. The original error stays reachable through
// errors.Unwrap so callers keep the driver detail. This is a string-based
// mapping to avoid depending on driver error types here.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	le := strings.ToLower(err.Error())
	switch {
	// MySQL duplicate entry (1062), Postgres unique violation (23505), SQLite unique constraint
	case strings.Contains(le, "duplicate") || strings.Contains(le, "unique") || strings.Contains(le, "23505") || strings.Contains(le, "1062"):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	// SQLite SQLITE_READONLY, Postgres read_only_sql_transaction (25006)
	case strings.Contains(le, "readonly") || strings.Contains(le, "read-only") || strings.Contains(le, "25006"):
		return fmt.Errorf("%w: %w", ErrReadOnly, err)
	}
	return err
}
