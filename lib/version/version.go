// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via -ldflags at build time, for example:
//
//	go build -ldflags "-X github.com/fanctl/fanctl/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"
	Version   = "0.1.0-dev"
)

// shortCommitLength matches "git rev-parse --short".
const shortCommitLength = 7

// buildSettings fills in whatever -ldflags left unset from the VCS
// stamp the go command embeds ("go build" inside a checkout).
func buildSettings() (commit, dirty, buildTime string) {
	commit, dirty, buildTime = GitCommit, GitDirty, BuildTime
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return commit, dirty, buildTime
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if commit == "unknown" {
				commit = setting.Value[:min(len(setting.Value), shortCommitLength)]
			}
		case "vcs.modified":
			if GitCommit == "unknown" {
				dirty = setting.Value
			}
		case "vcs.time":
			if buildTime == "unknown" {
				buildTime = setting.Value
			}
		}
	}
	return commit, dirty, buildTime
}

// Info returns "version (commit[-dirty], time)".
func Info() string {
	commit, dirty, buildTime := buildSettings()
	if dirty == "true" {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s, %s)", Version, commit, buildTime)
}

// Full adds the Go version and platform to Info.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
