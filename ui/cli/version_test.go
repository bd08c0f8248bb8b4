// Copyright (c) 2026 Monoxity Team
// Monoxity - key-value tables on embedded SQL
// This source code is licensed under the MIT license found in the LICENSE file.
package cli

import (
	"runtime/debug"
	"testing"

	"github.com/monoxity/monoxity/buildvars"
)

func withBuildvars(t *testing.T, version, commit, date string) {
	t.Helper()
	ov, oc, od := buildvars.Version, buildvars.Commit, buildvars.BuildDate
	buildvars.Version, buildvars.Commit, buildvars.BuildDate = version, commit, date
	t.Cleanup(func() { buildvars.Version, buildvars.Commit, buildvars.BuildDate = ov, oc, od })
}

func TestResolveBuildVersion_MainVersion(t *testing.T) {
	withBuildvars(t, "", "", "")
	info := &debug.BuildInfo{
		Main: debug.Module{Path: modulePath, Version: "v1.2.3"},
	}
	v, c, d := resolveBuildVersion(info)
	if v != "v1.2.3" {
		t.Fatalf("expected v1.2.3 got %s", v)
	}
	if c != "dev" {
		t.Fatalf("expected dev commit got %s", c)
	}
	if d != "" {
		t.Fatalf("expected empty date got %s", d)
	}
}

func TestResolveBuildVersion_DependencyFallback(t *testing.T) {
	withBuildvars(t, "", "", "")
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "example.com/app", Version: "(devel)"},
		Deps: []*debug.Module{
			{Path: modulePath, Version: "v0.4.1-0.20261001120000-d1692e4643ee"},
		},
	}
	v, _, _ := resolveBuildVersion(info)
	if v != "v0.4.1-0.20261001120000-d1692e4643ee" {
		t.Fatalf("expected dependency version fallback got %s", v)
	}
}

func TestResolveBuildVersion_VCSSettings(t *testing.T) {
	withBuildvars(t, "", "", "")
	info := &debug.BuildInfo{
		Main: debug.Module{Path: modulePath, Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		},
	}
	v, c, d := resolveBuildVersion(info)
	if v != "deadbeef" {
		t.Fatalf("expected commit as version fallback got %s", v)
	}
	if c != "deadbeef" || d != "2026-10-01T12:00:00Z" {
		t.Fatalf("unexpected commit/date %s %s", c, d)
	}
}

func TestResolveBuildVersion_LinkerWins(t *testing.T) {
	withBuildvars(t, "v9.9.9", "cafe", "2026-01-01")
	info := &debug.BuildInfo{
		Main:     debug.Module{Path: modulePath, Version: "v1.0.0"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "deadbeef"}},
	}
	v, c, d := resolveBuildVersion(info)
	if v != "v9.9.9" || c != "cafe" || d != "2026-01-01" {
		t.Fatalf("linker values should win, got %s %s %s", v, c, d)
	}
	if got := compositeVersion(info); got != "v9.9.9 (cafe) built: 2026-01-01" {
		t.Fatalf("unexpected composite version %q", got)
	}
}
