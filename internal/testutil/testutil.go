// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

// Package testutil holds small helpers shared by package tests.
package testutil

import (
	"errors"
	"path/filepath"
	"testing"
)

// ErrFailingWriter is returned by FailingWriter once its budget is used up.
var ErrFailingWriter = errors.New("testutil: write failed")

// FailingWriter accepts Budget bytes and fails every write after that. It
// lets tests exercise flush and encode error paths without a broken disk.
type FailingWriter struct {
	Budget  int
	written int
}

func (w *FailingWriter) Write(p []byte) (int, error) {
	if w.written+len(p) > w.Budget {
		n := w.Budget - w.written
		w.written = w.Budget
		return n, ErrFailingWriter
	}
	w.written += len(p)
	return len(p), nil
}

// SQLiteDir returns a fresh directory for database files, removed when the
// test ends.
func SQLiteDir(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "data")
}
