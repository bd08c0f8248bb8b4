// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.

// Package buildvars contains variables injected at build time.
package buildvars

// Set at link time, e.g.
//
//	go build -ldflags "-X github.com/monoxity/monoxity/buildvars.Version=v1.2.3 -X github.com/monoxity/monoxity/buildvars.Commit=$(git rev-parse --short HEAD)"
//
// They are empty for local or development builds.
var (
	Version   string
	Commit    string
	BuildDate string
)

// VersionOrDefault returns `Version` if set, otherwise returns the provided default.
func VersionOrDefault(def string) string {
	if len(Version) > 0 {
		return Version
	}
	return def
}

// CommitOrDefault returns `Commit` if set, otherwise returns the provided default.
func CommitOrDefault(def string) string {
	if len(Commit) > 0 {
		return Commit
	}
	return def
}
