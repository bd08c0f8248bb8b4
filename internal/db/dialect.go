// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

// Dialect names a supported database engine.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// Column names of every key-value table.
const (
	KeyColumn   = "key"
	ValueColumn = "value"
)

// ErrUnsupportedDriver is returned for database types we cannot open.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// ParseDialect resolves a user supplied driver name. The empty string selects
// SQLite.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, name)
	}
}

// DriverName returns the database/sql driver registered for the dialect.
// The pgx stdlib registers itself as "pgx".
func (d Dialect) DriverName() string {
	if d == Postgres {
		return "pgx"
	}
	return string(d)
}

func (d Dialect) bunDialect() schema.Dialect {
	switch d {
	case Postgres:
		return pgdialect.New()
	case MySQL:
		return mysqldialect.New()
	default:
		return sqlitedialect.New()
	}
}

// Quote quotes a validated identifier for the dialect.
func (d Dialect) Quote(ident string) string {
	if d == MySQL {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}

// Column returns a qualified, quoted column reference such as "kv"."key".
func (d Dialect) Column(alias, column string) string {
	if alias == "" {
		return d.Quote(column)
	}
	return d.Quote(alias) + "." + d.Quote(column)
}

// CreateTable renders the DDL for a key-value table. MySQL cannot index TEXT
// without a prefix length, so the key there is a VARCHAR(191). Both MySQL
// columns use a binary collation so key lookups, substring filters and
// compare-and-swap match byte for byte like on the other engines.
func (d Dialect) CreateTable(table string) string {
	k, v := d.Quote(KeyColumn), d.Quote(ValueColumn)
	if d == MySQL {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s VARCHAR(191) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL PRIMARY KEY, %s LONGTEXT CHARACTER SET utf8mb4 COLLATE utf8mb4_bin)", d.Quote(table), k, v)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s TEXT PRIMARY KEY, %s TEXT)", d.Quote(table), k, v)
}

// ColumnCheck renders a query that touches both columns without returning rows. It
// fails on tables that exist with a different shape. The columns are
// qualified because SQLite reads an unknown double-quoted bare name as a
// string literal.
func (d Dialect) ColumnCheck(table string) string {
	return fmt.Sprintf("SELECT %s, %s FROM %s WHERE 1 = 0", d.Column(table, KeyColumn), d.Column(table, ValueColumn), d.Quote(table))
}

// Upsert renders an insert-or-replace. Placeholders: key, value.
func (d Dialect) Upsert(table string) string {
	k, v := d.Quote(KeyColumn), d.Quote(ValueColumn)
	if d == MySQL {
		return fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?) ON DUPLICATE KEY UPDATE %s = VALUES(%s)", d.Quote(table), k, v, v, v)
	}
	return fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?) ON CONFLICT (%s) DO UPDATE SET %s = excluded.%s", d.Quote(table), k, v, k, v, v)
}

// InsertIfAbsent renders an insert that leaves an existing row untouched and
// reports zero affected rows in that case. Placeholders: key, value.
func (d Dialect) InsertIfAbsent(table string) string {
	k, v := d.Quote(KeyColumn), d.Quote(ValueColumn)
	if d == MySQL {
		return fmt.Sprintf("INSERT IGNORE INTO %s (%s, %s) VALUES (?, ?)", d.Quote(table), k, v)
	}
	return fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?) ON CONFLICT (%s) DO NOTHING", d.Quote(table), k, v, k)
}

// CompareAndSwap renders an update that only applies while the stored value
// still equals the expected one. Placeholders: new value, key, expected value.
func (d Dialect) CompareAndSwap(table string) string {
	k, v := d.Quote(KeyColumn), d.Quote(ValueColumn)
	return fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ? AND %s = ?", d.Quote(table), v, k, v)
}

// DeleteKey renders a single-row delete. Placeholder: key.
func (d Dialect) DeleteKey(table string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = ?", d.Quote(table), d.Quote(KeyColumn))
}

// DeleteAll renders a delete of every row. The table itself is kept.
func (d Dialect) DeleteAll(table string) string {
	return "DELETE FROM " + d.Quote(table)
}

// Count renders a row count.
func (d Dialect) Count(table string) string {
	return "SELECT COUNT(*) FROM " + d.Quote(table)
}

// Contains renders a case-sensitive substring match on column with a single
// placeholder for the needle. LIKE is avoided because SQLite folds ASCII case
// and the needle would need wildcard escaping.
func (d Dialect) Contains(column string) string {
	if d == Postgres {
		return "strpos(" + column + ", ?) > 0"
	}
	return "instr(" + column + ", ?) > 0"
}
