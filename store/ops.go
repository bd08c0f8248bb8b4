// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/monoxity/monoxity/internal/db"
	"github.com/uptrace/bun"
)

// row maps one record of a key-value table. The table name in the tag is only
// a placeholder; queries always name the bound table via ModelTableExpr.
type row struct {
	bun.BaseModel `bun:"table:monoxity,alias:kv"`

	Key   string         `bun:"key,pk"`
	Value sql.NullString `bun:"value"`
}

// selectRows starts a query on the bound table with the substring filter on
// key applied when filter is not empty.
func (s *Store) selectRows(bdb bun.IDB, model any, filter string) *bun.SelectQuery {
	q := bdb.NewSelect().Model(model).ModelTableExpr(s.dialect.Quote(s.cfg.Table) + " AS kv")
	if filter != "" {
		q = q.Where(s.dialect.Contains(s.dialect.Column("kv", db.KeyColumn)), filter)
	}
	return q
}

// loadRaw reads the stored text of key. found is false when no row exists.
func (s *Store) loadRaw(ctx context.Context, bdb bun.IDB, key string) (sql.NullString, bool, error) {
	var r row
	err := s.selectRows(bdb, &r, "").
		Where(s.dialect.Column("kv", db.KeyColumn)+" = ?", key).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.NullString{}, false, nil
	}
	if err != nil {
		return sql.NullString{}, false, err
	}
	return r.Value, true, nil
}

// decodeStored turns stored text into a Value. A SQL NULL reads as JSON null.
func decodeStored(key string, text sql.NullString) (Value, error) {
	if !text.Valid {
		return nullValue, nil
	}
	v, err := ParseValue(text.String)
	if err != nil {
		return Value{}, &DecodeError{Key: key, Err: err}
	}
	return v, nil
}

// checkKey rejects text that would not reach the engine byte for byte: the
// query formatter drops NUL and replaces invalid UTF-8, so distinct keys
// could share a row.
func checkKey(key string) error {
	if strings.IndexByte(key, 0) >= 0 || !utf8.ValidString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func opError(op, key string, err error) error {
	return &OperationError{Op: op, Key: key, Err: db.MapDBError(err)}
}

// Set stores value under key, replacing whatever was there. value is encoded
// with ValueOf.
func (s *Store) Set(ctx context.Context, key string, value any) (Entry, error) {
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
	if _, err := db.ExecRaw(ctx, bdb, s.dialect.Upsert(s.cfg.Table), key, v.String()); err != nil {
		return Entry{}, opError("set", key, err)
	}
	return Entry{Key: key, Value: v}, nil
}

// Get returns the value stored under key. When the key does not exist the
// first def is returned, or the Absent Value if none is given.
func (s *Store) Get(ctx context.Context, key string, def ...Value) (Value, error) {
	bdb, err := s.handle()
	if err != nil {
		return Value{}, err
	}
	if err := checkKey(key); err != nil {
		return Value{}, err
	}
	text, found, err := s.loadRaw(ctx, bdb, key)
	if err != nil {
		return Value{}, opError("get", key, err)
	}
	if !found {
		if len(def) > 0 {
			return def[0], nil
		}
		return Value{}, nil
	}
	return decodeStored(key, text)
}

// Has reports whether a row exists for key.
func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	bdb, err := s.handle()
	if err != nil {
		return false, err
	}
	if err := checkKey(key); err != nil {
		return false, err
	}
	ok, err := s.selectRows(bdb, (*row)(nil), "").
		Where(s.dialect.Column("kv", db.KeyColumn)+" = ?", key).
		Exists(ctx)
	if err != nil {
		return false, opError("has", key, err)
	}
	return ok, nil
}

// GetAll returns every entry, or only those whose key contains filter. The
// match is case-sensitive. Order is whatever the engine returns.
func (s *Store) GetAll(ctx context.Context, filter string) ([]Entry, error) {
	return s.list(ctx, "get all", 0, filter)
}

// GetFirst is GetAll capped at limit entries. A limit of zero or less means
// DefaultFirstLimit.
func (s *Store) GetFirst(ctx context.Context, limit int, filter string) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultFirstLimit
	}
	return s.list(ctx, "get first", limit, filter)
}

func (s *Store) list(ctx context.Context, op string, limit int, filter string) ([]Entry, error) {
	bdb, err := s.handle()
	if err != nil {
		return nil, err
	}
	if err := checkKey(filter); err != nil {
		return nil, err
	}
	var rows []row
	q := s.selectRows(bdb, &rows, filter)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, opError(op, "", err)
	}
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		v, err := decodeStored(r.Key, r.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Key: r.Key, Value: v})
	}
	return out, nil
}

// Keys returns the keys containing filter, or all keys for an empty filter.
func (s *Store) Keys(ctx context.Context, filter string) ([]string, error) {
	bdb, err := s.handle()
	if err != nil {
		return nil, err
	}
	if err := checkKey(filter); err != nil {
		return nil, err
	}
	keys := []string{}
	if err := s.selectRows(bdb, (*row)(nil), filter).Column(db.KeyColumn).Scan(ctx, &keys); err != nil {
		return nil, opError("keys", "", err)
	}
	return keys, nil
}

// Delete removes key. A missing key is not an error; the returned count tells
// whether a row was removed.
func (s *Store) Delete(ctx context.Context, key string) (int64, error) {
	bdb, err := s.handle()
	if err != nil {
		return 0, err
	}
	if err := checkKey(key); err != nil {
		return 0, err
	}
	n, err := db.ExecAffected(ctx, bdb, s.dialect.DeleteKey(s.cfg.Table), key)
	if err != nil {
		return 0, opError("delete", key, err)
	}
	return n, nil
}

// Destroy removes every row. The table itself stays.
func (s *Store) Destroy(ctx context.Context) (int64, error) {
	bdb, err := s.handle()
	if err != nil {
		return 0, err
	}
	n, err := db.ExecAffected(ctx, bdb, s.dialect.DeleteAll(s.cfg.Table))
	if err != nil {
		return 0, opError("destroy", "", err)
	}
	return n, nil
}

// RowCount returns the number of rows in the table.
func (s *Store) RowCount(ctx context.Context) (int64, error) {
	bdb, err := s.handle()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := db.QueryRawInto(ctx, bdb, &n, s.dialect.Count(s.cfg.Table)); err != nil {
		return 0, opError("row count", "", err)
	}
	return n, nil
}

// Maintain runs engine maintenance (VACUUM and friends) for the database.
func (s *Store) Maintain(ctx context.Context) error {
	bdb, err := s.handle()
	if err != nil {
		return err
	}
	if err := db.RunMaintenance(ctx, bdb, s.dialect, s.cfg.Table); err != nil {
		return opError("maintain", "", err)
	}
	return nil
}
