// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the monoxity command-line interface using Cobra.
// It wires configuration and logging, opens the configured store and keeps
// every command thin: the work happens in package store.
package cli
