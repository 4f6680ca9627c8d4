// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package controller owns the fan controller's runtime state and the
// periodic loop that drives it.
//
// A [Controller] holds the loaded configuration, the optional strategy
// override, the rolling temperature history, the last written fan
// speed, the active (not paused) flag and the tick counter used for
// update cadence. It is not safe for concurrent use on its own: every
// caller goes through [Shared], a one-slot exclusive-access wrapper,
// so a tick and a command handler never observe each other's partial
// updates.
//
// Strategy selection is resolved fresh on every query. A valid
// override wins. Otherwise the default strategy applies on AC power
// (or when the power state cannot be read), and the discharging
// strategy, falling back to the default, applies on battery.
//
// [Run] ticks the controller on a [clock.Clock] ticker until its
// context is cancelled. Tick errors are logged and the loop continues.
// Restoring automatic fan mode on shutdown is the caller's job; see
// [Controller.RestoreAutomatic].
package controller
