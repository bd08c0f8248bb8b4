// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Monoxity.
//
// Usage:
//
//	go run . [flags] <command>
//	./monoxity [flags] <command>
//
// See --help for options.
package main

import (
	"os"

	"github.com/monoxity/monoxity/internal/logging"
	"github.com/monoxity/monoxity/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}
