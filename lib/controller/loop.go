// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"context"
	"log/slog"
	"time"

	"github.com/fanctl/fanctl/lib/clock"
)

// DefaultPeriod is the control loop tick period.
const DefaultPeriod = time.Second

// LoopOptions configures Run.
type LoopOptions struct {
	// Clock defaults to clock.Real().
	Clock clock.Clock

	// Period defaults to DefaultPeriod.
	Period time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// OnTick, if set, is called after every successful tick, outside
	// the exclusive section.
	OnTick func(TickResult)
}

// Run ticks the controller every period until ctx is cancelled. The
// first tick happens one period after Run starts. A failing tick is
// logged and the loop continues. A change of strategy in force is
// logged with the rule that selected it. Returns nil on cancellation.
func Run(ctx context.Context, shared *Shared, options LoopOptions) error {
	clk := options.Clock
	if clk == nil {
		clk = clock.Real()
	}
	period := options.Period
	if period <= 0 {
		period = DefaultPeriod
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ticker := clk.NewTicker(period)
	defer ticker.Stop()

	var lastStrategy string
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		var result TickResult
		err := shared.Do(ctx, func(controller *Controller) error {
			var tickErr error
			result, tickErr = controller.Tick()
			return tickErr
		})
		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil:
			logger.Error("control tick failed", "error", err)
			continue
		}
		if result.Strategy != lastStrategy {
			logger.Info("strategy in force",
				"strategy", result.Strategy,
				"source", result.Source.String(),
			)
			lastStrategy = result.Strategy
		}
		if options.OnTick != nil {
			options.OnTick(result)
		}
	}
}
