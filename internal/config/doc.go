// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config provides configuration loading and persistence for the
// monoxity command. It uses Viper for file, environment and flag parsing and
// writes config files with goccy/go-yaml.
package config
