// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/monoxity/monoxity/internal/config"
	"github.com/monoxity/monoxity/internal/i18n"
	"github.com/monoxity/monoxity/store"
	"github.com/spf13/cobra"
)

// errKeyNotFound is returned by get for a missing key without --default.
var errKeyNotFound = errors.New("key not found")

func (a *app) format(cmd *cobra.Command) (outputFormat, error) {
	return resolveFormat(a.cfg.Output, cmd.OutOrStdout())
}

func newInitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database and table if they do not exist",
		Long: `Opens the configured database, creating the SQLite file when needed, and
creates the key-value table. Running it again is harmless.

With --write-config the effective configuration is saved to the user config
file so later runs pick it up without flags.`,
		Args: cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
			if write, _ := cmd.Flags().GetBool("write-config"); write {
				path, err := config.WriteConfigFile(&a.cfg, false)
				if err != nil {
					return fmt.Errorf("could not write config file: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), i18n.Tf("cli.init.wrote_config", path))
			}
			f, err := a.format(cmd)
			if err != nil {
				return err
			}
			where := st.Config().Path()
			if st.Config().DSN != "" {
				where = string(st.Dialect())
			}
			return printMessage(cmd.OutOrStdout(), f,
				map[string]any{"table": st.Table(), "database": where, "ready": st.Ready()},
				i18n.T("cli.init.ready"), st.Table(), where)
		}),
	}
	cmd.Flags().Bool("write-config", false, "Save the effective configuration to the user config file")
	return cmd
}

func newSetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a value under a key, replacing any previous value",
		Example: `  monoxity set user:1 '{"name":"Ann"}'
  monoxity set greeting hello
  monoxity set --string zip 01234`,
		Args: cobra.ExactArgs(2),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
			asString, _ := cmd.Flags().GetBool("string")
			v, err := parseValueArg(args[1], asString)
			if err != nil {
				return err
			}
			e, err := st.Set(cmd.Context(), args[0], v)
			if err != nil {
				return err
			}
			f, err := a.format(cmd)
			if err != nil {
				return err
			}
			return printEntries(cmd.OutOrStdout(), f, []store.Entry{e})
		}),
	}
	cmd.Flags().Bool("string", false, "Store the value as a string even if it parses as JSON")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value stored under a key",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
			var defs []store.Value
			if cmd.Flags().Changed("default") {
				raw, _ := cmd.Flags().GetString("default")
				def, err := parseValueArg(raw, false)
				if err != nil {
					return err
				}
				defs = append(defs, def)
			}
			v, err := st.Get(cmd.Context(), args[0], defs...)
			if err != nil {
				return err
			}
			if v.IsAbsent() {
				return fmt.Errorf("%w: %q", errKeyNotFound, args[0])
			}
			f, err := a.format(cmd)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), f, v)
		}),
	}
	cmd.Flags().String("default", "", "Value to print when the key does not exist")
	return cmd
}

func newHasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "has <key>",
		Short: "Report whether a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
			ok, err := st.Has(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f, err := a.format(cmd)
			if err != nil {
				return err
			}
			return printMessage(cmd.OutOrStdout(), f, map[string]any{"key": args[0], "exists": ok}, "%t", ok)
		}),
	}
}

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [filter]",
		Short: "List entries, optionally only keys containing filter",
		Long: `Lists the entries of the table. With a filter only keys containing it are
shown; the match is case-sensitive and has no wildcards. --limit caps the
number of entries, --keys prints the keys alone.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
			var filter string
			if len(args) == 1 {
				filter = args[0]
			}
			limit, _ := cmd.Flags().GetInt("limit")
			keysOnly, _ := cmd.Flags().GetBool("keys")
			f, err := a.format(cmd)
			if err != nil {
				return err
			}

			if keysOnly {
				keys, err := st.Keys(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if limit > 0 && len(keys) > limit {
					keys = keys[:limit]
				}
				return printKeys(cmd, f, keys)
			}

			var entries []store.Entry
			if limit > 0 {
				entries, err = st.GetFirst(cmd.Context(), limit, filter)
			} else {
				entries, err = st.GetAll(cmd.Context(), filter)
			}
			if err != nil {
				return err
			}
			return printEntries(cmd.OutOrStdout(), f, entries)
		}),
	}
	cmd.Flags().IntP("limit", "n", 0, "Show at most this many entries (0 shows all)")
	cmd.Flags().Bool("keys", false, "Print keys only")
	return cmd
}

func printKeys(cmd *cobra.Command, f outputFormat, keys []string) error {
	w := cmd.OutOrStdout()
	switch f {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(keys)
	case formatYAML:
		return writeYAML(w, keys)
	default:
		for _, k := range keys {
			if _, err := fmt.Fprintln(w, k); err != nil {
				return err
			}
		}
		return nil
	}
}

func newPushCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push <key> <value>",
		Short: "Append a value to the array stored under a key",
		Long: `Appends a value to the array under key. A missing key starts as an empty
array; a key holding anything other than an array is an error. With --dedupe
repeated elements are removed, keeping the first occurrence of each.`,
		Args: cobra.ExactArgs(2),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
			asString, _ := cmd.Flags().GetBool("string")
			dedupe, _ := cmd.Flags().GetBool("dedupe")
			v, err := parseValueArg(args[1], asString)
			if err != nil {
				return err
			}
			e, err := st.Push(cmd.Context(), args[0], v, dedupe)
			if err != nil {
				return err
			}
			f, err := a.format(cmd)
			if err != nil {
				return err
			}
			return printEntries(cmd.OutOrStdout(), f, []store.Entry{e})
		}),
	}
	cmd.Flags().Bool("dedupe", false, "Drop repeated elements after appending")
	cmd.Flags().Bool("string", false, "Treat the value as a string even if it parses as JSON")
	return cmd
}

func newPullCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull <key> <value>",
		Short: "Remove the first matching element from the array under a key",
		Args:  cobra.ExactArgs(2),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
			asString, _ := cmd.Flags().GetBool("string")
			v, err := parseValueArg(args[1], asString)
			if err != nil {
				return err
			}
			e, err := st.Pull(cmd.Context(), args[0], v)
			if err != nil {
				return err
			}
			f, err := a.format(cmd)
			if err != nil {
				return err
			}
			return printEntries(cmd.OutOrStdout(), f, []store.Entry{e})
		}),
	}
	cmd.Flags().Bool("string", false, "Treat the value as a string even if it parses as JSON")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>...",
		Short: "Delete one or more keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
			var total int64
			for _, key := range args {
				n, err := st.Delete(cmd.Context(), key)
				if err != nil {
					return err
				}
				total += n
			}
			f, err := a.format(cmd)
			if err != nil {
				return err
			}
			return printMessage(cmd.OutOrStdout(), f, map[string]any{"deleted": total}, i18n.T("cli.delete.done"), total)
		}),
	}
}

func newDestroyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete every row of the table (the table itself is kept)",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return fmt.Errorf("refusing to delete every row of %s without --yes", st.Table())
			}
			n, err := st.Destroy(cmd.Context())
			if err != nil {
				return err
			}
			f, err := a.format(cmd)
			if err != nil {
				return err
			}
			return printMessage(cmd.OutOrStdout(), f, map[string]any{"deleted": n}, i18n.T("cli.delete.done"), n)
		}),
	}
	cmd.Flags().BoolP("yes", "y", false, "Confirm deleting every row")
	return cmd
}

func newCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of rows",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, st *store.Store) error {
			n, err := st.RowCount(cmd.Context())
			if err != nil {
				return err
			}
			f, err := a.format(cmd)
			if err != nil {
				return err
			}
			return printMessage(cmd.OutOrStdout(), f, map[string]any{"count": n}, "%d", n)
		}),
	}
}
