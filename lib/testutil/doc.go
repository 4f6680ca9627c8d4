// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for fanctl packages.
//
// [SocketDir] creates a short temporary directory in /tmp for Unix
// domain sockets. sun_path is limited to 108 bytes and t.TempDir()
// paths can exceed it.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// safety valve so individual tests do not call time.After directly.
// [RequireEventually] polls state that changes without a signal.
// These are the only places tests wait on the wall clock.
//
// [StrategyConfig] builds a small validated strategy document shared
// by the controller, command and CLI tests.
//
// All helpers call t.Fatalf on failure rather than returning errors.
package testutil
