// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for fanctl.
//
// The central type is [Command], a named subcommand with optional
// nested [Command.Subcommands], a [pflag.FlagSet] factory and a Run
// function. Commands are assembled into a tree in cmd/fanctl/commands
// and dispatched with [Command.Execute], which handles flag parsing,
// subcommand routing and help output with examples. A command with
// both flags and subcommands parses the flags that precede the
// subcommand name, which is how the global flags work.
//
// Unknown subcommands and flags get a suggestion when one is within
// Levenshtein distance 3 (suggest.go).
//
// [NewLogger] picks a text or JSON slog handler depending on whether
// stderr is a terminal. [Renderer] formats command responses for
// humans with lipgloss. [ExitError] lets a command choose its exit
// code after printing its own output.
package cli
