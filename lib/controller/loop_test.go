// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/fanctl/fanctl/lib/clock"
	"github.com/fanctl/fanctl/lib/testutil"
)

// channelWriter forwards each log line to a channel.
type channelWriter chan string

func (w channelWriter) Write(p []byte) (int, error) {
	w <- string(p)
	return len(p), nil
}

func TestRun_TicksEachPeriod(t *testing.T) {
	t.Parallel()

	controller, fake := newTestController(t, nil, 70)
	shared := NewShared(controller)
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	ticks := make(chan TickResult)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, shared, LoopOptions{
			Clock:  fakeClock,
			Logger: discardLogger(),
			OnTick: func(result TickResult) { ticks <- result },
		})
	}()

	fakeClock.WaitForTimers(1)
	for range 3 {
		fakeClock.Advance(DefaultPeriod)
		result := testutil.RequireReceive(t, ticks, 5*time.Second, "waiting for tick")
		if result.Speed != 35 || result.Strategy != "lazy" {
			t.Errorf("tick = %+v, want lazy at 35", result)
		}
	}

	cancel()
	if err := testutil.RequireReceive(t, done, 5*time.Second, "waiting for Run to return"); err != nil {
		t.Errorf("Run = %v, want nil", err)
	}
	if got := len(fake.Writes()); got != 3 {
		t.Errorf("%d writes, want 3", got)
	}
}

func TestRun_ContinuesAfterTickError(t *testing.T) {
	t.Parallel()

	controller, fake := newTestController(t, nil, 70)
	shared := NewShared(controller)
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	logs := make(channelWriter, 4)
	logger := slog.New(slog.NewTextHandler(logs, nil))
	ticks := make(chan TickResult)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = Run(ctx, shared, LoopOptions{
			Clock:  fakeClock,
			Period: 500 * time.Millisecond,
			Logger: logger,
			OnTick: func(result TickResult) { ticks <- result },
		})
	}()

	fake.FailTemperature(errors.New("sensor timeout"))
	fakeClock.WaitForTimers(1)
	fakeClock.Advance(500 * time.Millisecond)
	testutil.RequireReceive(t, (<-chan string)(logs), 5*time.Second, "waiting for tick error log")

	fake.FailTemperature(nil)
	fakeClock.Advance(500 * time.Millisecond)
	result := testutil.RequireReceive(t, ticks, 5*time.Second, "waiting for tick after error")
	if result.Temperature != 70 {
		t.Errorf("tick temperature = %v, want 70", result.Temperature)
	}
}

func TestRun_LogsStrategyChanges(t *testing.T) {
	t.Parallel()

	controller, fake := newTestController(t, nil, 70)
	shared := NewShared(controller)
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	logs := make(channelWriter, 4)
	logger := slog.New(slog.NewTextHandler(logs, nil))
	ticks := make(chan TickResult)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = Run(ctx, shared, LoopOptions{
			Clock:  fakeClock,
			Logger: logger,
			OnTick: func(result TickResult) { ticks <- result },
		})
	}()

	fakeClock.WaitForTimers(1)
	fakeClock.Advance(DefaultPeriod)
	testutil.RequireReceive(t, ticks, 5*time.Second, "waiting for first tick")
	line := testutil.RequireReceive(t, (<-chan string)(logs), 5*time.Second, "waiting for strategy log")
	if !strings.Contains(line, "strategy=lazy") || !strings.Contains(line, "source=default") {
		t.Errorf("first tick logged %q, want strategy=lazy source=default", line)
	}

	// Same strategy again: nothing logged.
	fakeClock.Advance(DefaultPeriod)
	testutil.RequireReceive(t, ticks, 5*time.Second, "waiting for second tick")
	select {
	case line := <-logs:
		t.Errorf("unchanged strategy logged %q", line)
	default:
	}

	fake.SetOnAC(false)
	fakeClock.Advance(DefaultPeriod)
	result := testutil.RequireReceive(t, ticks, 5*time.Second, "waiting for battery tick")
	if result.Source != SourceDischarging {
		t.Errorf("tick source = %v, want discharging", result.Source)
	}
	line = testutil.RequireReceive(t, (<-chan string)(logs), 5*time.Second, "waiting for strategy change log")
	if !strings.Contains(line, "strategy=laziest") || !strings.Contains(line, "source=discharging") {
		t.Errorf("battery tick logged %q, want strategy=laziest source=discharging", line)
	}
}

func TestRun_ReturnsOnCancelWithoutTicking(t *testing.T) {
	t.Parallel()

	controller, fake := newTestController(t, nil, 70)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, NewShared(controller), LoopOptions{
		Clock:  clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		Logger: discardLogger(),
	})
	if err != nil {
		t.Errorf("Run = %v, want nil", err)
	}
	if got := len(fake.Writes()); got != 0 {
		t.Errorf("%d writes after cancelled Run, want 0", got)
	}
}
