// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

// Package store keeps JSON documents under string keys in a single
// two-column table (key, value) of an embedded SQLite database, or of a
// Postgres or MySQL server.
//
// A Store is bound to one database and one table by New and becomes usable
// after Initialize, which creates the table when it is missing:
//
//	st, err := store.New(store.Config{Dir: "data"})
//	if err != nil { ... }
//	if err := st.Initialize(ctx); err != nil { ... }
//	defer st.Close()
//
//	st.Set(ctx, "user:1", map[string]any{"name": "a"})
//	v, _ := st.Get(ctx, "user:1")
//
// Values are encoded with encoding/json on write and come back as Value, a
// JSON document that reports its Kind and decodes on demand. Push and Pull
// treat a value as an array and update it with a compare-and-swap, so
// concurrent writers on the same key do not lose each other's elements.
//
// Errors: every operation before Initialize returns ErrNotInitialized.
// Statements the engine rejects come back as *OperationError, stored text
// that is not JSON as *DecodeError. Push and Pull on a non-array return an
// error wrapping ErrNotArray.
package store
