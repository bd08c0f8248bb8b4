// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"fmt"

	"github.com/monoxity/monoxity/internal/db"
	"github.com/monoxity/monoxity/internal/logging"
	"github.com/uptrace/bun"
)

// Push appends value to the array stored under key. A missing key starts out
// as the empty array. With dedupe set, repeated elements are dropped from the
// result, keeping the first occurrence of each. Push fails with ErrNotArray if
// key holds anything other than an array.
func (s *Store) Push(ctx context.Context, key string, value any, dedupe bool) (Entry, error) {
	bdb, err := s.handle()
	if err != nil {
		return Entry{}, err
	}
	if err := checkKey(key); err != nil {
		return Entry{}, err
	}
	v, err := ValueOf(value)
	if err != nil {
		return Entry{}, err
	}
	return s.modifyArray(ctx, bdb, "push", key, func(items []Value) ([]Value, bool) {
		items = append(items, v)
		if dedupe {
			items = uniqueValues(items)
		}
		return items, true
	})
}

// Pull removes the first element of the array under key that equals value.
// When no element matches, nothing is written and the current array is
// returned. Pull fails with ErrNotArray if key holds anything other than an
// array.
func (s *Store) Pull(ctx context.Context, key string, value any) (Entry, error) {
	bdb, err := s.handle()
	if err != nil {
		return Entry{}, err
	}
	if err := checkKey(key); err != nil {
		return Entry{}, err
	}
	v, err := ValueOf(value)
	if err != nil {
		return Entry{}, err
	}
	return s.modifyArray(ctx, bdb, "pull", key, func(items []Value) ([]Value, bool) {
		for i, it := range items {
			if it.Equal(v) {
				return append(items[:i:i], items[i+1:]...), true
			}
		}
		return items, false
	})
}

// modifyArray applies fn to the array under key and writes the result back
// with a compare-and-swap on the text that was read. fn reports whether it
// changed anything; unchanged arrays are not written. When another writer got
// in between, the read-modify-write is retried up to Config.MaxRetries times.
func (s *Store) modifyArray(ctx context.Context, bdb *bun.DB, op, key string, fn func([]Value) ([]Value, bool)) (Entry, error) {
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return Entry{}, err
		}
		text, found, err := s.loadRaw(ctx, bdb, key)
		if err != nil {
			return Entry{}, opError(op, key, err)
		}
		var items []Value
		if found {
			cur, err := decodeStored(key, text)
			if err != nil {
				return Entry{}, err
			}
			if items, err = cur.Array(); err != nil {
				return Entry{}, fmt.Errorf("%s %q: %w", op, key, err)
			}
		}

		result, modified := fn(items)
		next := arrayOf(result)
		// MySQL reports zero affected rows for an update that keeps the
		// value, which would look like a lost race.
		if !modified || (found && next.String() == text.String) {
			return Entry{Key: key, Value: next}, nil
		}

		var n int64
		if found {
			n, err = db.ExecAffected(ctx, bdb, s.dialect.CompareAndSwap(s.cfg.Table), next.String(), key, text.String)
		} else {
			n, err = db.ExecAffected(ctx, bdb, s.dialect.InsertIfAbsent(s.cfg.Table), key, next.String())
		}
		if err != nil {
			return Entry{}, opError(op, key, err)
		}
		if n > 0 {
			return Entry{Key: key, Value: next}, nil
		}
		logging.Debugf("%s %q: concurrent update, retrying (attempt %d/%d)", op, key, attempt, s.cfg.MaxRetries)
	}
	return Entry{}, fmt.Errorf("%s %q: %w", op, key, ErrConflict)
}
