// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/monoxity/monoxity/internal/db"
	"github.com/monoxity/monoxity/internal/logging"
	"github.com/uptrace/bun"
)

// KeyValueStore is the set of operations offered on one key-value table.
type KeyValueStore interface {
	// --- Lifecycle ---
	Initialize(ctx context.Context) error
	Ready() bool
	Close() error

	// --- Reads ---
	Get(ctx context.Context, key string, def ...Value) (Value, error)
	Has(ctx context.Context, key string) (bool, error)
	GetAll(ctx context.Context, filter string) ([]Entry, error)
	GetFirst(ctx context.Context, limit int, filter string) ([]Entry, error)
	Keys(ctx context.Context, filter string) ([]string, error)
	RowCount(ctx context.Context) (int64, error)

	// --- Writes ---
	Set(ctx context.Context, key string, value any) (Entry, error)
	Push(ctx context.Context, key string, value any, dedupe bool) (Entry, error)
	Pull(ctx context.Context, key string, value any) (Entry, error)
	Delete(ctx context.Context, key string) (int64, error)
	Destroy(ctx context.Context) (int64, error)

	// --- Housekeeping ---
	Maintain(ctx context.Context) error
}

// *Store implements KeyValueStore
var _ KeyValueStore = (*Store)(nil)

// Store is a key-value table inside one database. The database and table are
// fixed by New; the connection is established by Initialize.
//
// A Store is safe for concurrent use. Operations share one connection pool and
// do not serialize against each other; only Initialize and Close take the
// write lock.
type Store struct {
	cfg     Config
	dialect db.Dialect
	dsn     string

	mu    sync.RWMutex
	bdb   *bun.DB
	ready bool
}

// New validates cfg and returns an uninitialized Store. Zero fields of cfg are
// taken from DefaultConfig. New does not touch the database.
func New(cfg Config) (*Store, error) {
	cfg = cfg.withDefaults()
	d, dsn, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	return &Store{cfg: cfg, dialect: d, dsn: dsn}, nil
}

// Config returns the resolved configuration the store is bound to.
func (s *Store) Config() Config { return s.cfg }

// Table returns the bound table name.
func (s *Store) Table() string { return s.cfg.Table }

// Dialect returns the database engine behind the store.
func (s *Store) Dialect() db.Dialect { return s.dialect }

// Ready reports whether Initialize has completed successfully.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Initialize opens the database (creating the SQLite file if needed), makes
// sure the table exists and checks that it has the expected key and value
// columns. The store becomes ready only when every step succeeds. Calling
// Initialize again reuses the open connection and re-runs the checks.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ready = false
	bdb := s.bdb
	fresh := bdb == nil
	if fresh {
		if s.dialect == db.SQLite && s.cfg.DSN == "" && s.cfg.Dir != "" {
			if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
				return &OperationError{Op: "initialize", Err: err}
			}
		}
		var err error
		bdb, err = db.Open(s.dialect, s.dsn)
		if err != nil {
			return &OperationError{Op: "initialize", Err: err}
		}
	}

	if err := s.prepare(ctx, bdb); err != nil {
		if fresh {
			_ = bdb.Close()
		}
		return &OperationError{Op: "initialize", Err: db.MapDBError(err)}
	}

	s.bdb = bdb
	s.ready = true
	logging.Debugf("store %s/%s initialized", s.dialect, s.cfg.Table)
	return nil
}

func (s *Store) prepare(ctx context.Context, bdb *bun.DB) error {
	if err := bdb.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if _, err := db.ExecRaw(ctx, bdb, s.dialect.CreateTable(s.cfg.Table)); err != nil {
		return fmt.Errorf("create table %s: %w", s.cfg.Table, err)
	}
	rows, err := bdb.QueryContext(ctx, s.dialect.ColumnCheck(s.cfg.Table))
	if err != nil {
		return fmt.Errorf("table %s does not have key and value columns: %w", s.cfg.Table, err)
	}
	defer func() { _ = rows.Close() }()
	return rows.Err()
}

// Close releases the connection. The store may be initialized again later.
//
// Operations started after Close fail with ErrNotInitialized. Statements
// already running are allowed to finish, but an operation that passed the
// readiness check and has not yet issued its next statement (a Push or Pull
// between retries, for one) fails with an *OperationError wrapping
// "sql: database is closed".
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = false
	if s.bdb == nil {
		return nil
	}
	err := s.bdb.Close()
	s.bdb = nil
	return err
}

// handle returns the connection if the store is ready.
func (s *Store) handle() (*bun.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return nil, ErrNotInitialized
	}
	return s.bdb, nil
}
