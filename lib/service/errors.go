// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"errors"
	"fmt"
)

// ErrChannel is matched (via errors.Is) by every transport failure.
var ErrChannel = errors.New("channel error")

// ChannelError is a connection-level failure: connecting, sending,
// receiving or binding. Op names the step that failed.
type ChannelError struct {
	Op  string
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }

func (e *ChannelError) Is(target error) bool { return target == ErrChannel }
