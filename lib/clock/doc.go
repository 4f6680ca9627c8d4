// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock lets the control loop and the hardware sanity check
// wait on time without calling the time package directly.
//
// Production code receives [Real]. Tests receive [Fake], whose time
// only moves when the test calls [FakeClock.Advance]. A test that
// starts the control loop in a goroutine first calls
// [FakeClock.WaitForTimers] so the loop's ticker is registered, then
// advances one period per tick it wants to run:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go controller.Run(ctx, shared, controller.LoopOptions{Clock: fake})
//	fake.WaitForTimers(1)
//	fake.Advance(time.Second) // exactly one tick
package clock
