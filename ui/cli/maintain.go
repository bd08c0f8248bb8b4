// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"time"

	"github.com/monoxity/monoxity/internal/i18n"
	"github.com/monoxity/monoxity/store"
	"github.com/spf13/cobra"
)

func newMaintainCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintain",
		Short: "Run engine maintenance (VACUUM, integrity check) on the database",
		Long: `Runs maintenance for the configured database:

  sqlite    PRAGMA optimize, VACUUM, WAL checkpoint and integrity_check
  postgres  VACUUM ANALYZE on the table
  mysql     OPTIMIZE TABLE on the table`,
		Args: cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
			ctx := cmd.Context()
			if secs, _ := cmd.Flags().GetInt("timeout"); secs > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(secs)*time.Second)
				defer cancel()
			}
			start := time.Now()
			if err := st.Maintain(ctx); err != nil {
				return err
			}
			f, err := a.format(cmd)
			if err != nil {
				return err
			}
			took := time.Since(start).Round(time.Millisecond)
			return printMessage(cmd.OutOrStdout(), f,
				map[string]any{"driver": string(st.Dialect()), "took": took.String()},
				i18n.T("cli.maintain.done"), st.Dialect(), took)
		}),
	}
	cmd.Flags().Int("timeout", 0, "Timeout in seconds for maintenance (0 means no timeout)")
	return cmd
}
