// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "strconv"

// ExitError asks main to exit with Code without printing anything
// more. Return it after the command has written its own failure, such
// as the reason carried by a daemon error response.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return "exit status " + strconv.Itoa(e.Code)
}

// ExitCode implements the interface process.Fatal checks for.
func (e *ExitError) ExitCode() int {
	return e.Code
}
