// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// exitCoder is implemented by errors that carry their own exit code.
// The command that returned one has already reported the failure.
type exitCoder interface {
	ExitCode() int
}

// Fatal ends the process for an error returned from run(). An error
// carrying an exit code exits with that code silently; anything else
// is written to stderr as "error: err" and exits 1.
func Fatal(err error) {
	os.Exit(report(os.Stderr, err))
}

// report writes err to w unless it carries its own exit code, and
// returns the code to exit with.
func report(w io.Writer, err error) int {
	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return 1
}
