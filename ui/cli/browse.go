// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"

	"github.com/monoxity/monoxity/store"
	"github.com/monoxity/monoxity/ui/tui"
	"github.com/spf13/cobra"
)

var errNotInteractive = errors.New("browse needs an interactive terminal; use 'monoxity list' instead")

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [filter]",
		Short: "Browse the table interactively",
		Long: `Opens a full-screen table of the entries whose key contains the optional
filter. Press / to change the filter, enter to view a value, c to copy it to
the clipboard, d to delete the selected entry and q to quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return errNotInteractive
			}
			var filter string
			if len(args) == 1 {
				filter = args[0]
			}
			return tui.Browse(cmd.Context(), st, st.Table(), filter, cmd.InOrStdin(), cmd.OutOrStdout())
		}),
	}
}
