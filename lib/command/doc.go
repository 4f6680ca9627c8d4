// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package command implements the fanctl control protocol: parsing a
// request line into a [Command], executing it against the shared
// controller, and building the JSON [Response] envelope.
//
// A request is one line of whitespace-separated tokens, "<verb>
// [args...]". Tokens starting with "--" are dropped before parsing so
// clients can pass their own flags through. The verbs are:
//
//	use <strategy>    pin a strategy
//	reset             clear the pinned strategy
//	reload            re-read the configuration file
//	pause             stop writing duty cycles, hand the fan to the EC
//	resume            start writing duty cycles again
//	print [selector]  all (default), active, current, list or speed
//
// Every reply is a Response with status "success" or "error"; failures
// carry a reason. Numeric status values are rendered as strings, so a
// client can tell a speed of "0" from a missing field.
//
// [Executor] is the server side. It takes exclusive access to the
// controller through [controller.Shared] for each command, so commands
// never interleave with control loop ticks. [Executor.ServeRequest]
// plugs into [service.SocketServer].
package command
