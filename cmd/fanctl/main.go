// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"

	"github.com/fanctl/fanctl/cmd/fanctl/commands"
	"github.com/fanctl/fanctl/lib/process"
)

func main() {
	if err := run(); err != nil {
		// Commands that already printed their failure (a daemon
		// error response, a failed sanity check) return a
		// cli.ExitError, which Fatal exits with silently.
		process.Fatal(err)
	}
}

func run() error {
	return commands.Root(commands.DefaultGlobals()).Execute(context.Background(), os.Args[1:])
}
