// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// RunMaintenance performs engine-specific maintenance for the database behind
// bdb. For SQLite this runs PRAGMA optimize, VACUUM, a WAL checkpoint and an
// integrity check. For Postgres it runs VACUUM ANALYZE on table, for MySQL
// OPTIMIZE TABLE.
func RunMaintenance(ctx context.Context, bdb *bun.DB, d Dialect, table string) error {
	if err := ValidateIdent(table); err != nil {
		return err
	}
	switch d {
	case SQLite:
		// PRAGMA optimize may not be supported in some environments; treat
		// optimize errors as non-fatal.
		if _, err := ExecRaw(ctx, bdb, "PRAGMA optimize"); err != nil {
			dbLogf("sqlite optimize failed (ignored): %v", err)
		}
		if _, err := ExecRaw(ctx, bdb, "VACUUM"); err != nil {
			return fmt.Errorf("sqlite vacuum failed: %w", err)
		}
		// WAL checkpoint; ignore errors if not in WAL mode.
		_, _ = ExecRaw(ctx, bdb, "PRAGMA wal_checkpoint(TRUNCATE)")
		var res string
		if err := QueryRawInto(ctx, bdb, &res, "PRAGMA integrity_check"); err != nil {
			return fmt.Errorf("sqlite integrity_check failed: %w", err)
		}
		if res != "ok" {
			return fmt.Errorf("sqlite integrity_check failed: %s", res)
		}
	case Postgres:
		if _, err := ExecRaw(ctx, bdb, "VACUUM ANALYZE "+d.Quote(table)); err != nil {
			return fmt.Errorf("postgres vacuum failed: %w", err)
		}
	case MySQL:
		if _, err := ExecRaw(ctx, bdb, "OPTIMIZE TABLE "+d.Quote(table)); err != nil {
			return fmt.Errorf("mysql optimize failed: %w", err)
		}
	default:
		return fmt.Errorf("%w: no maintenance for %q", ErrUnsupportedDriver, d)
	}
	dbLogf("maintenance on %s/%s finished", d, table)
	return nil
}
