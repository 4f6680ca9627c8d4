// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads and validates fan strategy configuration.
//
// A configuration names a set of strategies (a speed curve plus its
// update cadence and smoothing window), the strategy used on AC power,
// and optionally a different strategy used while discharging. The file
// is read from a single path given by the --config flag of "fanctl
// run" (default [DefaultPath]); there is no discovery and no
// environment override.
//
// Files are JSONC by default (JSON with // and /* */ comments and
// trailing commas). A path ending in .yaml or .yml is decoded as YAML
// with the same field names. Both formats go through [Config.Validate]
// before a [Config] is returned, so callers never see a configuration
// whose default strategy is missing or whose curves are empty.
//
// A loaded [Config] is treated as immutable. Reloading produces a new
// value that replaces the old one wholesale.
//
// Key exports:
//
//   - [Config], [Strategy], [CurvePoint] -- the document model
//   - [LoadFile] and [Parse] -- the entry points for loading
//   - [Source] and [FileSource] -- the reload seam used by the daemon
//   - [ErrConfig] -- sentinel matched by every validation or load error
//
// This package depends on no other fanctl packages.
package config
