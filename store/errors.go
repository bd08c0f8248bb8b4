// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by every data operation called before a
	// successful Initialize (or after Close).
	ErrNotInitialized = errors.New("store is not initialized")

	// ErrNotArray is returned by Push and Pull when the stored value exists
	// but is not an array.
	ErrNotArray = errors.New("provided key does not return an array")

	// ErrConflict is returned by Push and Pull when concurrent writers kept
	// changing the key for more than Config.MaxRetries attempts.
	ErrConflict = errors.New("concurrent modification, retries exhausted")

	// ErrInvalidKey is returned for keys and filters the SQL layer cannot
	// carry unchanged: invalid UTF-8 or a NUL byte.
	ErrInvalidKey = errors.New("key must be valid UTF-8 without NUL bytes")
)

// OperationError reports a statement the engine rejected or failed to run.
type OperationError struct {
	Op  string
	Key string
	Err error
}

func (e *OperationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// DecodeError reports stored text that is not a valid JSON document.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode value of %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
