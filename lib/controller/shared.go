// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package controller

import "context"

// Shared serializes access to one Controller. The controller lives in
// a one-slot channel: Do takes it out, runs fn, and puts it back, so
// at most one fn runs at a time and waiting for the slot honors
// context cancellation.
type Shared struct {
	slot chan *Controller
}

// NewShared wraps controller. The caller must not use controller
// directly afterwards.
func NewShared(controller *Controller) *Shared {
	slot := make(chan *Controller, 1)
	slot <- controller
	return &Shared{slot: slot}
}

// Do runs fn with exclusive access to the controller and returns fn's
// error. If ctx is cancelled before access is granted, fn does not run
// and ctx.Err() is returned.
func (s *Shared) Do(ctx context.Context, fn func(*Controller) error) error {
	select {
	case controller := <-s.slot:
		defer func() { s.slot <- controller }()
		return fn(controller)
	case <-ctx.Done():
		return ctx.Err()
	}
}
