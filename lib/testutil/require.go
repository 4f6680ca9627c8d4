// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"testing"
	"time"
)

// RequireReceive returns the next value from ch, failing the test if
// none arrives within timeout or ch is closed first. what names the
// event in the failure message.
//
//	err := testutil.RequireReceive(t, done, 5*time.Second, "server shutdown")
func RequireReceive[T any](t testing.TB, ch <-chan T, timeout time.Duration, what string) T {
	t.Helper()
	timer := time.NewTimer(timeout) //nolint:realclock test hang prevention
	defer timer.Stop()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("%s: channel closed without a value", what)
		}
		return value
	case <-timer.C:
		t.Fatalf("%s: nothing received after %v", what, timeout)
	}
	panic("unreachable")
}

// RequireClosed waits for a readiness channel to be closed (or to
// deliver a value) within timeout.
//
//	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "server ready")
func RequireClosed(t testing.TB, ch <-chan struct{}, timeout time.Duration, what string) {
	t.Helper()
	timer := time.NewTimer(timeout) //nolint:realclock test hang prevention
	defer timer.Stop()
	select {
	case <-ch:
	case <-timer.C:
		t.Fatalf("%s: channel still open after %v", what, timeout)
	}
}

// eventuallyInterval is how often RequireEventually re-checks.
const eventuallyInterval = 5 * time.Millisecond

// RequireEventually polls condition until it returns true, failing the
// test after timeout. Use it for state another goroutine updates
// without signalling, such as writes recorded by hardware.Fake.
func RequireEventually(t testing.TB, timeout time.Duration, what string, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatalf("%s: condition not met after %v", what, timeout)
		}
		time.Sleep(eventuallyInterval)
	}
}
