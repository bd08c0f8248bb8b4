// Package db contains the backend layer used by the monoxity store.
//
// It owns everything that differs between database engines so the store
// package can stay engine-agnostic:
//
// Opening
//   - `Open` maps a `Dialect` to its database/sql driver ("sqlite" is the
//     pure Go modernc.org/sqlite driver, "postgres" is pgx's stdlib driver,
//     "mysql" is go-sql-driver/mysql), applies connection pool defaults and
//     wraps the handle in a *bun.DB with the matching bun dialect.
//   - Pool defaults can be tuned with the MONOXITY_DB_* environment
//     variables. In-memory SQLite DSNs always use a single connection.
//
// Statements
//   - `Dialect` renders the handful of statements the store needs (table
//     creation, upsert, insert-if-absent, compare-and-swap update, substring
//     match). Table and column names are quoted by the dialect and must pass
//     `ValidateIdent` first; values always travel as bun placeholders.
//   - `ExecRaw` and `QueryRawInto` run raw statements on a *bun.DB or
//     *bun.Tx.
//
// Errors
//   - `MapDBError` folds driver-specific constraint errors into package
//     sentinels such as `ErrDuplicate`.
//
// Testing notes
//   - Prefer a file-backed SQLite database under t.TempDir(). Postgres and
//     MySQL tests run only when POSTGRES_DSN / MYSQL_DSN are set.
package db
