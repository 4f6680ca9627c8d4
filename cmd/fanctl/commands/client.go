// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/pflag"

	"github.com/fanctl/fanctl/cmd/fanctl/cli"
	"github.com/fanctl/fanctl/lib/command"
	"github.com/fanctl/fanctl/lib/service"
)

// requestTimeout bounds one round trip to the daemon.
const requestTimeout = 10 * time.Second

func useCommand(globals *Globals) *cli.Command {
	return &cli.Command{
		Name:    "use",
		Summary: "Pin a strategy regardless of power source",
		Description: `Pin the named strategy. It stays in effect until "fanctl reset", a
reload whose configuration no longer defines it, or a daemon restart.`,
		Usage: "fanctl use <strategy> [flags]",
		Examples: []cli.Example{
			{Description: "Pin the balanced strategy", Command: "fanctl use balanced"},
		},
		Flags: func() *pflag.FlagSet { return globals.flagSet("use") },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: fanctl use <strategy>")
			}
			return sendRequest(ctx, globals, logger, "use "+args[0])
		},
	}
}

func resetCommand(globals *Globals) *cli.Command {
	return simpleClientCommand(globals, "reset", "Clear the pinned strategy")
}

func reloadCommand(globals *Globals) *cli.Command {
	return simpleClientCommand(globals, "reload", "Re-read the daemon configuration file")
}

func pauseCommand(globals *Globals) *cli.Command {
	return simpleClientCommand(globals, "pause", "Hand the fan back to the EC until resumed")
}

func resumeCommand(globals *Globals) *cli.Command {
	return simpleClientCommand(globals, "resume", "Resume fan control after a pause")
}

// simpleClientCommand builds a command that sends verb with no
// arguments.
func simpleClientCommand(globals *Globals, verb, summary string) *cli.Command {
	return &cli.Command{
		Name:    verb,
		Summary: summary,
		Usage:   "fanctl " + verb + " [flags]",
		Flags:   func() *pflag.FlagSet { return globals.flagSet(verb) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("%s takes no arguments (got %q)", verb, args[0])
			}
			return sendRequest(ctx, globals, logger, verb)
		},
	}
}

func printCommand(globals *Globals) *cli.Command {
	return &cli.Command{
		Name:    "print",
		Summary: "Query daemon status",
		Description: `Print part of the daemon state. The selector is one of:

  all       strategy, speed, temperatures and configuration (default)
  active    whether the daemon is controlling the fan
  current   the strategy in effect and whether it is the default
  list      configured strategy names
  speed     the last duty cycle written`,
		Usage: "fanctl print [all|active|current|list|speed] [flags]",
		Examples: []cli.Example{
			{Description: "Show the current fan speed", Command: "fanctl print speed"},
			{Description: "Dump the full status as JSON", Command: "fanctl print --output-format json"},
		},
		Flags: func() *pflag.FlagSet { return globals.flagSet("print") },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 1 {
				return fmt.Errorf("usage: fanctl print [selector]")
			}
			request := "print"
			if len(args) == 1 {
				request += " " + args[0]
			}
			return sendRequest(ctx, globals, logger, request)
		},
	}
}

// sendRequest performs one round trip and prints the response in the
// configured format. A connection failure prints "failed to connect"
// and an error response prints its reason; both exit with code 1.
func sendRequest(ctx context.Context, globals *Globals, logger *slog.Logger, request string) error {
	if err := globals.validate(); err != nil {
		return err
	}
	format, _ := cli.ParseFormat(globals.OutputFormat)

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	client := service.NewClient(globals.SocketPath)
	logger.Debug("sending request", "command", request, "path", client.SocketPath())
	raw, err := client.Call(ctx, request)
	if err != nil {
		fmt.Fprintf(globals.Stderr, "failed to connect to %s: %v\n", client.SocketPath(), err)
		return &cli.ExitError{Code: 1}
	}

	response, err := command.Decode(raw)
	if err != nil {
		return fmt.Errorf("decoding response from %s: %w", client.SocketPath(), err)
	}

	if format == cli.FormatJSON {
		globals.Stdout.Write(bytes.TrimSpace(raw))
		fmt.Fprintln(globals.Stdout)
		if !response.OK() {
			return &cli.ExitError{Code: 1}
		}
		return nil
	}
	return cli.NewRenderer(globals.Stdout, globals.Stderr).Response(response)
}
