// SPDX-License-Identifier: MPL-2.0

package main

import "testing"

func TestGetVersionString(t *testing.T) {
	// Not parallel: mutates the package-level build variables.
	origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
	})

	Version, Commit, BuildDate = "v0.3.0", "abc1234", "2026-10-01T10:00:00Z"
	if got, want := getVersionString(), "v0.3.0 (commit: abc1234, built: 2026-10-01T10:00:00Z)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}

	Version = "dev"
	if got, want := getVersionString(), "dev (built from source)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}
}
