// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for fanctl.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// Unset values fall back to the VCS stamp the go command embeds in
// binaries built from a checkout, then to "unknown" / "0.1.0-dev".
// [Info] formats them for "fanctl version"; [Full] adds the Go
// version and platform.
package version
