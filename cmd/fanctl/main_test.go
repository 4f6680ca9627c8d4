// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"strings"
	"testing"

	"github.com/fanctl/fanctl/cmd/fanctl/cli"
	"github.com/fanctl/fanctl/cmd/fanctl/commands"
)

// TestCommandTree walks the production command tree and checks that
// every command is reachable and documented.
func TestCommandTree(t *testing.T) {
	root := commands.Root(commands.DefaultGlobals())

	seen := make(map[string]bool)
	walkCommands(root, nil, func(command *cli.Command, path []string) {
		name := strings.Join(path, " ")
		if seen[name] {
			t.Errorf("%s: duplicate command", name)
		}
		seen[name] = true
		if len(path) > 1 && command.Summary == "" {
			t.Errorf("%s: missing Summary", name)
		}
		if command.Run == nil && len(command.Subcommands) == 0 {
			t.Errorf("%s: neither Run nor Subcommands", name)
		}
	})

	for _, want := range []string{
		"fanctl run", "fanctl use", "fanctl reset", "fanctl reload",
		"fanctl pause", "fanctl resume", "fanctl print",
		"fanctl sanity-check", "fanctl lease", "fanctl version",
	} {
		if !seen[want] {
			t.Errorf("command tree is missing %q", want)
		}
	}
}

// walkCommands recursively visits every command in the tree,
// calling visit for each node with the accumulated command path.
func walkCommands(command *cli.Command, path []string, visit func(*cli.Command, []string)) {
	current := make([]string, len(path)+1)
	copy(current, path)
	current[len(path)] = command.Name
	visit(command, current)
	for _, sub := range command.Subcommands {
		walkCommands(sub, current, visit)
	}
}
