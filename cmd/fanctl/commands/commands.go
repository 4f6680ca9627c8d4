// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the fanctl command tree: the "run" daemon,
// the socket client commands that talk to it, and the local
// "sanity-check" hardware probe.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/fanctl/fanctl/cmd/fanctl/cli"
	"github.com/fanctl/fanctl/lib/service"
	"github.com/fanctl/fanctl/lib/version"
)

// Globals holds the flags accepted by every fanctl command.
type Globals struct {
	// OutputFormat is "natural" or "json".
	OutputFormat string

	// SocketPath is the daemon command socket.
	SocketPath string

	// LogLevel is debug, info, warn or error.
	LogLevel string

	Stdout io.Writer
	Stderr io.Writer
}

// DefaultGlobals returns globals with the stock defaults, writing to
// the process's standard streams.
func DefaultGlobals() *Globals {
	return &Globals{
		OutputFormat: cli.FormatNatural,
		SocketPath:   service.DefaultSocketPath,
		LogLevel:     "info",
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	}
}

// AddFlags registers the global flags on flagSet. Current values are
// the defaults, so registering on a fresh flag set per command keeps
// anything parsed earlier on the command line.
func (g *Globals) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&g.OutputFormat, "output-format", g.OutputFormat, "output format: natural or json")
	flagSet.StringVar(&g.SocketPath, "socket", g.SocketPath, "daemon command socket")
	flagSet.StringVar(&g.LogLevel, "log-level", g.LogLevel, "log level: debug, info, warn or error")
}

// flagSet returns a new flag set for name with the global flags
// already registered.
func (g *Globals) flagSet(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	g.AddFlags(flagSet)
	return flagSet
}

// validate checks the global flag values.
func (g *Globals) validate() error {
	if _, err := cli.ParseFormat(g.OutputFormat); err != nil {
		return err
	}
	if _, err := cli.ParseLevel(g.LogLevel); err != nil {
		return err
	}
	return nil
}

// Logger builds the command logger at the configured level. An invalid
// level falls back to info; commands report it through validate.
func (g *Globals) Logger() *slog.Logger {
	level, err := cli.ParseLevel(g.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return cli.NewLogger(level)
}

// Root builds the complete fanctl command tree around globals.
func Root(globals *Globals) *cli.Command {
	return &cli.Command{
		Name: "fanctl",
		Description: `fanctl: fan controller for Framework laptops.

"fanctl run" drives the fan from the embedded controller's temperature
sensors using configurable speed curves. The other commands talk to the
running daemon over its Unix socket.`,
		Flags:  func() *pflag.FlagSet { return globals.flagSet("fanctl") },
		Logger: globals.Logger,
		Output: globals.Stderr,
		Examples: []cli.Example{
			{
				Description: "Start the daemon with the lazy strategy pinned",
				Command:     "fanctl run --strategy lazy",
			},
			{
				Description: "Show the full daemon status as JSON",
				Command:     "fanctl --output-format json print",
			},
		},
		Subcommands: []*cli.Command{
			runCommand(globals),
			useCommand(globals),
			resetCommand(globals),
			reloadCommand(globals),
			pauseCommand(globals),
			resumeCommand(globals),
			printCommand(globals),
			sanityCheckCommand(globals),
			leaseCommand(globals),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
					fmt.Fprintf(globals.Stdout, "fanctl %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
