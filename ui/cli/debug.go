// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/monoxity/monoxity/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

func newDebugCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Dump debug information about config, env and flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "--- MONOXITY DEBUG ---")

			if a.cfgFile != "" {
				fmt.Fprintf(w, "Config file (--config): %s\n", a.cfgFile)
			}
			for _, system := range []bool{false, true} {
				if p, err := config.GetConfigPath(system); err == nil {
					_, statErr := os.Stat(p)
					fmt.Fprintf(w, "Config candidate: %s (exists: %t)\n", p, statErr == nil)
				}
			}

			fmt.Fprintln(w, "-- effective config --")
			shown := a.cfg
			if shown.Store.DSN != "" {
				shown.Store.DSN = "<redacted>"
			}
			b, err := yaml.Marshal(shown)
			if err != nil {
				return fmt.Errorf("could not marshal config: %w", err)
			}
			fmt.Fprint(w, string(b))
			if st := a.cfg.Store; st.DSN == "" {
				fmt.Fprintf(w, "sqlite file: %s\n", st.Path())
			}

			fmt.Fprintln(w, "-- flags --")
			cmd.Flags().VisitAll(func(f *pflag.Flag) {
				fmt.Fprintf(w, "%s = %s\n", f.Name, f.Value.String())
			})

			fmt.Fprintln(w, "-- environment (MONOXITY_*) --")
			var env []string
			for _, e := range os.Environ() {
				if strings.HasPrefix(e, "MONOXITY_") {
					env = append(env, redactEnv(e))
				}
			}
			sort.Strings(env)
			for _, e := range env {
				fmt.Fprintln(w, e)
			}
			fmt.Fprintln(w, "--- END DEBUG ---")
			return nil
		},
	}
}

// redactEnv hides the value of DSN variables, which usually carry passwords.
func redactEnv(kv string) string {
	name, _, ok := strings.Cut(kv, "=")
	if ok && strings.Contains(name, "DSN") {
		return name + "=<redacted>"
	}
	return kv
}
