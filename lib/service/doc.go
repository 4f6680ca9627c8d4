// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package service carries the fanctl command protocol over a Unix
// domain socket.
//
// Each connection handles exactly one request: the client writes one
// text line and half-closes its write side, the server passes the line
// to a [Handler] and writes back the bytes the handler returns, then
// closes the connection. The package does not interpret either side;
// lib/command owns the request grammar and the JSON envelope.
//
// [SocketServer] creates the socket directory if needed, replaces a
// stale socket file, opens the socket to every local user (status
// queries do not need root), and handles each connection on its own
// goroutine. Cancelling the Serve context closes the listener and
// waits for in-flight handlers.
//
// [Client] is the matching one-shot caller used by the CLI.
// Transport failures on either side are reported as [ChannelError].
package service
