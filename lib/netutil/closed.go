// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil holds small helpers for socket code.
package netutil

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// IsExpectedCloseError reports whether err is a normal connection
// termination: EOF, a closed connection, a broken pipe or a reset.
// A client that gives up on a response before the daemon writes it
// produces one of these, and it is not worth more than a debug log.
func IsExpectedCloseError(err error) bool {
	if err == nil {
		return false
	}
	for _, expected := range expectedCloseErrors {
		if errors.Is(err, expected) {
			return true
		}
	}
	return false
}

var expectedCloseErrors = []error{
	io.EOF,
	net.ErrClosed,
	syscall.EPIPE,
	syscall.ECONNRESET,
}
