// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the root command, its persistent flags and the
// configuration/logging bootstrap shared by every subcommand.

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/monoxity/monoxity/internal/config"
	"github.com/monoxity/monoxity/internal/db"
	"github.com/monoxity/monoxity/internal/i18n"
	"github.com/monoxity/monoxity/internal/logging"
	"github.com/monoxity/monoxity/store"
	"github.com/spf13/cobra"
)

// app carries the state shared by the commands of one root command.
type app struct {
	cfg     config.Config
	cfgFile string
	verbose bool
}

// flagBindings maps config keys to the persistent flags that override them.
var flagBindings = map[string]string{
	"store.driver":      "driver",
	"store.dsn":         "dsn",
	"store.table":       "table",
	"store.file_name":   "file",
	"store.dir":         "dir",
	"store.max_retries": "max-retries",
	"log.level":         "log-level",
	"output":            "output",
	"language":          "language",
}

// Execute runs the CLI entrypoint. Interrupts cancel the running command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd creates and configures a new root cobra command. Every call
// returns an independent command tree, which keeps tests isolated.
func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "monoxity",
		Short: "Monoxity keeps JSON values under string keys in an SQL table.",
		Long: `Monoxity stores JSON documents in a two-column (key, value) table of an
embedded SQLite database, or of a Postgres or MySQL server.

Values on the command line are JSON text. Anything that does not parse as
JSON is stored as a string, so 'monoxity set greeting hello' stores "hello".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.Version = compositeVersion(nil)

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output (debug logs, including the SQL layer)")
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: monoxity.yaml in the user or system config dir, or the current dir)")
	pf.String("driver", "", `Database driver: "sqlite", "postgres" or "mysql"`)
	pf.String("dsn", "", "Database connection string (required for postgres and mysql)")
	pf.StringP("table", "t", "", "Table name")
	pf.StringP("file", "f", "", "SQLite file name; .sqlite is appended")
	pf.String("dir", "", "Directory holding the SQLite file")
	pf.Int("max-retries", 0, "Attempts for push/pull under concurrent modification")
	pf.String("log-level", "", `Log level: "debug", "info", "warn" or "error"`)
	pf.StringP("output", "o", "", "Output format: json, yaml, table or plain (default: table on a terminal, json otherwise)")
	pf.String("language", "", `Language of messages ("en", "de")`)

	cmd.AddCommand(
		newInitCmd(a),
		newSetCmd(a),
		newGetCmd(a),
		newHasCmd(a),
		newListCmd(a),
		newBrowseCmd(a),
		newPushCmd(a),
		newPullCmd(a),
		newDeleteCmd(a),
		newDestroyCmd(a),
		newCountCmd(a),
		newBackupCmd(a),
		newRestoreCmd(a),
		newMigrateCmd(a),
		newMaintainCmd(a),
		newDebugCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// setup loads the configuration and applies the logging settings.
func (a *app) setup(cmd *cobra.Command) error {
	cfgPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}
	a.cfg, err = config.LoadConfig[config.Config](cmd, config.Defaults(), cfgPath, flagBindings)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if err := i18n.Init(a.cfg.Language); err != nil {
		return err
	}
	logging.SetOutput(cmd.ErrOrStderr())
	level := a.cfg.Log.Level
	if a.verbose {
		level = "debug"
	}
	if err := logging.SetLevel(level); err != nil {
		return err
	}
	db.SetDebug(a.verbose)
	logging.Debugf("config loaded: driver=%s table=%s dir=%q", a.cfg.Store.Driver, a.cfg.Store.Table, a.cfg.Store.Dir)
	return nil
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	// Make sure the user-provided file exists to avoid silently running on defaults.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// openStore opens and initializes the configured store. Callers close it.
func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	return openStoreWith(ctx, a.cfg.Store)
}

func openStoreWith(ctx context.Context, cfg store.Config) (*store.Store, error) {
	st, err := store.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := st.Initialize(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

// withStore adapts a store-using function into a cobra RunE.
func (a *app) withStore(fn func(cmd *cobra.Command, args []string, st *store.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		st, err := a.openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logging.Warnf("closing store: %v", cerr)
			}
		}()
		return fn(cmd, args, st)
	}
}
