// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/fanctl/fanctl/cmd/fanctl/cli"
	"github.com/fanctl/fanctl/lib/codec"
	"github.com/fanctl/fanctl/lib/lease"
)

type leaseParams struct {
	path string
	raw  bool
}

// leaseStatus is the JSON form of "fanctl lease".
type leaseStatus struct {
	Held         bool      `json:"held"`
	Alive        bool      `json:"alive"`
	PID          int       `json:"pid,omitempty"`
	Device       string    `json:"device,omitempty"`
	Config       string    `json:"config,omitempty"`
	ConfigDigest string    `json:"configDigest,omitempty"`
	Acquired     time.Time `json:"acquired,omitzero"`
}

func leaseCommand(globals *Globals) *cli.Command {
	params := leaseParams{path: lease.DefaultPath}

	return &cli.Command{
		Name:    "lease",
		Summary: "Show which daemon holds manual fan control",
		Description: `Read the control lease the daemon writes while it drives the fan. A
lease whose process is gone means a daemon died without handing the fan
back to the EC; the next "fanctl run" replaces it.`,
		Usage: "fanctl lease [--raw] [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := globals.flagSet("lease")
			flagSet.StringVar(&params.path, "lease", params.path, "control lease file")
			flagSet.BoolVar(&params.raw, "raw", params.raw, "print the lease in CBOR diagnostic notation")
			return flagSet
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			if err := globals.validate(); err != nil {
				return err
			}
			if params.raw {
				data, err := os.ReadFile(params.path)
				if err != nil {
					return fmt.Errorf("reading lease: %w", err)
				}
				diagnostic, err := codec.Diagnose(data)
				if err != nil {
					return fmt.Errorf("decoding lease %s: %w", params.path, err)
				}
				fmt.Fprintln(globals.Stdout, diagnostic)
				return nil
			}
			status, err := readLeaseStatus(params.path)
			if err != nil {
				return err
			}
			return printLeaseStatus(globals, params.path, status)
		},
	}
}

// readLeaseStatus reads the lease at path. A missing file is an
// unheld lease, not an error.
func readLeaseStatus(path string) (leaseStatus, error) {
	state, err := lease.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return leaseStatus{}, nil
	}
	if err != nil {
		return leaseStatus{}, err
	}
	return leaseStatus{
		Held:         true,
		Alive:        lease.ProcessAlive(state.PID),
		PID:          state.PID,
		Device:       state.Device,
		Config:       state.Config,
		ConfigDigest: state.ConfigDigest,
		Acquired:     state.Acquired,
	}, nil
}

func printLeaseStatus(globals *Globals, path string, status leaseStatus) error {
	format, _ := cli.ParseFormat(globals.OutputFormat)
	if format == cli.FormatJSON {
		data, err := json.Marshal(status)
		if err != nil {
			return err
		}
		fmt.Fprintf(globals.Stdout, "%s\n", data)
		return nil
	}

	if !status.Held {
		fmt.Fprintf(globals.Stdout, "No daemon holds fan control (%s not present)\n", path)
		return nil
	}
	state := "running"
	if !status.Alive {
		state = "not running, stale lease"
	}
	fmt.Fprintf(globals.Stdout, "Held by pid %d (%s) since %s\n", status.PID, state, status.Acquired.Format(time.RFC3339))
	fmt.Fprintf(globals.Stdout, "  Device: %s\n", status.Device)
	fmt.Fprintf(globals.Stdout, "  Config: %s\n", status.Config)
	if status.ConfigDigest != "" {
		fmt.Fprintf(globals.Stdout, "  Digest: %s\n", status.ConfigDigest)
	}
	return nil
}
