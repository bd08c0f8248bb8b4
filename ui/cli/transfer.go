// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/monoxity/monoxity/internal/i18n"
	"github.com/monoxity/monoxity/internal/logging"
	"github.com/monoxity/monoxity/store"
	"github.com/spf13/cobra"
)

// defaultBackupName is used when backup is called without a file name.
func defaultBackupName(table string, now time.Time) string {
	return fmt.Sprintf("monoxity-%s-%s.json.zst", table, now.Format("2006-01-02"))
}

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [output-file]",
		Short: "Write a compressed (zstd) JSON backup of the table",
		Long: `Dumps every entry of the table into a single Zstandard-compressed JSON file.

If an output file is given, '.zst' is appended unless already present.
Without one, 'monoxity-<table>-YYYY-MM-DD.json.zst' is used.

Examples:
  # Backup to a default file (e.g. monoxity-monoxity-2026-10-19.json.zst)
  monoxity backup

  # Backup to a specific file
  monoxity backup my-backup.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
			outputFile := defaultBackupName(st.Table(), time.Now())
			if len(args) == 1 {
				outputFile = args[0]
				if !strings.HasSuffix(outputFile, ".zst") {
					outputFile += ".zst"
				}
			}
			outf, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("could not create backup file: %w", err)
			}
			n, err := st.Export(cmd.Context(), outf)
			if cerr := outf.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(outputFile)
				return fmt.Errorf("backup failed: %w", err)
			}
			logging.Infof("backup of %s written to %s", st.Table(), outputFile)
			f, err := a.format(cmd)
			if err != nil {
				return err
			}
			return printMessage(cmd.OutOrStdout(), f,
				map[string]any{"file": outputFile, "entries": n},
				i18n.T("cli.backup.done"), n, outputFile)
		}),
	}
}

func newRestoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <backup-file>",
		Short: "Restore entries from a backup file",
		Long: `Reads a backup written by 'monoxity backup' and stores its entries in the
configured table. Existing keys are overwritten, other keys are kept. With
--full the table is emptied first.`,
		Args: cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
			full, _ := cmd.Flags().GetBool("full")
			inf, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("could not open backup file: %w", err)
			}
			defer func() { _ = inf.Close() }()

			b, err := store.ReadBackup(inf)
			if err != nil {
				return err
			}
			if b.Table != "" && b.Table != st.Table() {
				logging.Warnf(i18n.T("cli.restore.other_table"), b.Table, st.Table())
			}
			n, err := st.Restore(cmd.Context(), b, full)
			if err != nil {
				return fmt.Errorf("restore stopped after %d entries: %w", n, err)
			}
			f, err := a.format(cmd)
			if err != nil {
				return err
			}
			return printMessage(cmd.OutOrStdout(), f,
				map[string]any{"file": args[0], "entries": n},
				i18n.T("cli.restore.done"), n, args[0])
		}),
	}
	cmd.Flags().Bool("full", false, "Delete every existing row before restoring")
	return cmd
}

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy every entry into another database or table",
		Long: `Copies the configured table into a destination store. The destination
starts from the current store settings; the --to-* flags override them.

Examples:
  # SQLite file to Postgres
  monoxity migrate --to-driver postgres --to-dsn postgres://user:pw@localhost/kv

  # Into another table of the same file
  monoxity migrate --to-table archive`,
		Args: cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
			dstCfg, err := migrateTarget(cmd, a.cfg.Store)
			if err != nil {
				return err
			}
			dst, err := openStoreWith(cmd.Context(), dstCfg)
			if err != nil {
				return fmt.Errorf("could not open destination: %w", err)
			}
			defer func() { _ = dst.Close() }()

			n, err := st.CopyTo(cmd.Context(), dst)
			if err != nil {
				return fmt.Errorf("migrate stopped after %d entries: %w", n, err)
			}
			f, err := a.format(cmd)
			if err != nil {
				return err
			}
			return printMessage(cmd.OutOrStdout(), f,
				map[string]any{"entries": n, "driver": string(dst.Dialect()), "table": dst.Table()},
				i18n.T("cli.migrate.done"), n, dst.Dialect(), dst.Table())
		}),
	}
	cmd.Flags().String("to-driver", "", "Destination driver")
	cmd.Flags().String("to-dsn", "", "Destination connection string")
	cmd.Flags().String("to-table", "", "Destination table")
	cmd.Flags().String("to-file", "", "Destination SQLite file name")
	cmd.Flags().String("to-dir", "", "Destination SQLite directory")
	return cmd
}

// migrateTarget derives the destination config from src and the --to-*
// flags. A destination that resolves to the source table is rejected, however
// it was spelled.
func migrateTarget(cmd *cobra.Command, src store.Config) (store.Config, error) {
	dst := src
	changed := false
	override := func(flag string, field *string) {
		if cmd.Flags().Changed(flag) {
			*field, _ = cmd.Flags().GetString(flag)
			changed = true
		}
	}
	override("to-driver", &dst.Driver)
	override("to-dsn", &dst.DSN)
	override("to-table", &dst.Table)
	override("to-file", &dst.FileName)
	override("to-dir", &dst.Dir)
	if cmd.Flags().Changed("to-driver") && !cmd.Flags().Changed("to-dsn") {
		dst.DSN = ""
	}
	if !changed || dst.SameTable(src) {
		return dst, fmt.Errorf("migrate needs a destination that differs from the source (use --to-driver, --to-dsn, --to-table, --to-file or --to-dir)")
	}
	return dst, nil
}
