// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package lease records that a fanctl daemon holds manual fan control.
//
// The daemon writes a lease after it starts the control loop and
// removes it once automatic fan mode is restored on shutdown. A lease
// found at startup means the previous daemon did not shut down
// cleanly: if its process is still alive a second daemon must not
// start, otherwise the leftover lease is reported and cleared (startup
// restores automatic mode anyway).
//
// The lease file is CBOR (see lib/codec), written atomically: write to
// a temporary file, fsync, rename.
package lease

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/fanctl/fanctl/lib/codec"
)

// DefaultPath sits next to the default command socket.
const DefaultPath = "/run/fanctl/control.lease"

// State describes the daemon holding fan control.
type State struct {
	// PID is the daemon's process ID.
	PID int `cbor:"pid"`

	// Device is the EC device the daemon opened.
	Device string `cbor:"device"`

	// Config is the configuration file the daemon loaded.
	Config string `cbor:"config"`

	// ConfigDigest is the hex digest of Config as loaded at startup.
	ConfigDigest string `cbor:"config_digest,omitempty"`

	// Acquired is when the daemon took control.
	Acquired time.Time `cbor:"acquired"`
}

// Write atomically writes a lease file with mode 0644. The parent
// directory is created if missing.
func Write(path string, state State) error {
	data, err := codec.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling lease: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating lease directory: %w", err)
	}

	temporaryPath := path + ".tmp"
	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating temporary lease file: %w", err)
	}

	// Write, sync, close. On any failure remove the temporary file.
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary lease file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary lease file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary lease file: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming lease file into place: %w", err)
	}
	return nil
}

// Read parses a lease file. When the file does not exist the error
// wraps os.ErrNotExist.
func Read(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, err
	}
	var state State
	if err := codec.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("parsing lease file %s: %w", path, err)
	}
	return state, nil
}

// Clear removes a lease file. Returns nil when it does not exist.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing lease file: %w", err)
	}
	return nil
}

// ErrHeld is returned by Acquire when a live process owns the lease.
var ErrHeld = errors.New("fan control lease held by another process")

// Acquire takes the lease for state.PID. A leftover lease from a
// process that is no longer running is returned as stale (so the
// caller can log it) and replaced. A lease owned by a different live
// process fails with ErrHeld.
func Acquire(path string, state State) (stale *State, err error) {
	previous, err := Read(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		// An unreadable lease cannot name a live owner; replace it.
		stale = &State{}
	case previous.PID != state.PID && ProcessAlive(previous.PID):
		return nil, fmt.Errorf("%w: pid %d since %s", ErrHeld, previous.PID, previous.Acquired.Format(time.RFC3339))
	default:
		stale = &previous
	}

	if err := Write(path, state); err != nil {
		return nil, err
	}
	return stale, nil
}

// ProcessAlive reports whether pid names a running process. A process
// owned by another user counts as alive.
func ProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
