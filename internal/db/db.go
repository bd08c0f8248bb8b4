// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package db // import "github.com/monoxity/monoxity/internal/db"

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	// SQL drivers for the server backends.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

// Pool defaults, conservative for small deployments.
const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 60 * time.Second
)

// SQLiteFileDSN builds the DSN used for file-backed SQLite databases. WAL and
// a busy timeout let several handles on the same file wait for each other
// instead of failing with SQLITE_BUSY.
func SQLiteFileDSN(path string) string {
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// IsMemoryDSN reports whether dsn points at an in-memory SQLite database.
func IsMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory") || strings.HasPrefix(dsn, "file::memory:")
}

// Open opens a sql.DB for the dialect and DSN and wraps it in a *bun.DB with
// the matching bun dialect. It does not contact the server; callers ping when
// they need to know the database is reachable.
func Open(d Dialect, dsn string) (*bun.DB, error) {
	start := time.Now()
	sqlDB, err := sqlOpenFunc(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen := envInt("MONOXITY_DB_MAX_OPEN_CONNS", defaultMaxOpenConns)
	maxIdle := envInt("MONOXITY_DB_MAX_IDLE_CONNS", defaultMaxIdleConns)

	// Every connection to an in-memory SQLite database gets its own private
	// database, so the pool must not grow past one.
	if d == SQLite && IsMemoryDSN(dsn) {
		maxOpen = 1
		maxIdle = 1
	}
	connMax := defaultConnMaxLifetime
	if n := envInt("MONOXITY_DB_CONN_MAX_LIFETIME_SECONDS", -1); n >= 0 {
		connMax = time.Duration(n) * time.Second
	}
	connIdle := defaultConnMaxIdleTime
	if n := envInt("MONOXITY_DB_CONN_MAX_IDLE_SECONDS", -1); n >= 0 {
		connIdle = time.Duration(n) * time.Second
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(connMax)
	sqlDB.SetConnMaxIdleTime(connIdle)

	dbLogf("opened %s driver in %s (conn max open=%d, idle=%s, maxLifetime=%s)", d.DriverName(), time.Since(start), maxOpen, connIdle, connMax)
	return createBunDB(sqlDB, d), nil
}

// createBunDB constructs a *bun.DB for the provided *sql.DB and dialect.
func createBunDB(sqlDB *sql.DB, d Dialect) *bun.DB {
	return bun.NewDB(sqlDB, d.bunDialect())
}

// envInt reads a non-negative integer from the environment, falling back to
// def when the variable is unset or malformed.
func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		dbLogf("ignoring invalid %s=%q", name, v)
		return def
	}
	return n
}
