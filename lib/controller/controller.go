// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"fmt"
	"log/slog"

	"github.com/fanctl/fanctl/lib/config"
	"github.com/fanctl/fanctl/lib/curve"
	"github.com/fanctl/fanctl/lib/hardware"
	"github.com/fanctl/fanctl/lib/thermal"
)

// Controller is the fan controller's mutable state. Methods must not be
// called concurrently; share a Controller through Shared.
type Controller struct {
	hardware hardware.Source
	config   *config.Config
	logger   *slog.Logger

	// overwritten is the pinned strategy name, or "" for none.
	overwritten string

	history      *thermal.History
	currentSpeed int
	active       bool

	// timecount counts ticks since the last recomputation or override
	// change. A recomputation happens when it is a multiple of the
	// strategy's update frequency.
	timecount int
}

// Options configures a new Controller.
type Options struct {
	// InitialOverride pins a strategy from startup. Empty for none.
	InitialOverride string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// New creates a Controller. The controller starts active with an empty
// history and speed 0. An InitialOverride that is not in cfg fails
// with ErrUnknownStrategy.
func New(source hardware.Source, cfg *config.Config, options Options) (*Controller, error) {
	if source == nil {
		return nil, fmt.Errorf("controller: hardware source is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("controller: config is required")
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	controller := &Controller{
		hardware: source,
		config:   cfg,
		logger:   logger,
		history:  thermal.NewHistory(thermal.HistoryCapacity),
		active:   true,
	}
	if options.InitialOverride != "" {
		if err := controller.Overwrite(options.InitialOverride); err != nil {
			return nil, err
		}
	}
	return controller, nil
}

// TickResult describes one control step.
type TickResult struct {
	Strategy    string
	Source      Source
	Temperature float64

	// Speed is the last duty cycle written, which is unchanged when the
	// tick did not recompute or the controller is paused.
	Speed  int
	Active bool

	// Recomputed is true when this tick evaluated the speed curve.
	Recomputed bool
}

// Tick performs one control step: read the temperature, resolve the
// strategy, recompute and apply the duty cycle when the cadence says
// so, then record the sample.
//
// A failed temperature read changes nothing. A failed duty write still
// records the sample but leaves the cadence counter at zero, so the
// next tick recomputes and retries the write.
func (c *Controller) Tick() (TickResult, error) {
	temperature, err := c.hardware.Temperature()
	if err != nil {
		return TickResult{}, err
	}

	name, source := c.resolve()
	strategy, _ := c.config.Strategy(name)
	result := TickResult{Strategy: name, Source: source, Temperature: temperature}

	var writeErr error
	if c.timecount%strategy.FanSpeedUpdateFrequency == 0 {
		result.Recomputed = true
		writeErr = c.adaptSpeed(strategy, temperature)
		c.timecount = 0
	}

	c.history.Push(temperature)
	if writeErr == nil {
		c.timecount++
	}

	result.Speed = c.currentSpeed
	result.Active = c.active
	return result, writeErr
}

// adaptSpeed evaluates the curve at the effective temperature and, when
// active, writes the result.
func (c *Controller) adaptSpeed(strategy config.Strategy, temperature float64) error {
	effective := c.effectiveTemperature(strategy.MovingAverageInterval, temperature)
	speed := curve.Interpolate(strategy.SpeedCurve, int(effective))
	if !c.active {
		return nil
	}
	if err := c.hardware.SetFanDuty(speed); err != nil {
		return err
	}
	c.currentSpeed = speed
	return nil
}

// movingAverage averages recent history, falling back to the current
// reading while the history holds no valid sample.
func (c *Controller) movingAverage(interval int, current float64) float64 {
	return thermal.MovingAverage(c.history.Samples(), interval, current)
}

func (c *Controller) effectiveTemperature(interval int, current float64) float64 {
	return thermal.Effective(c.movingAverage(interval, current), current)
}

// Pause stops duty writes and hands the fan back to the EC. The
// controller stays paused even if the hardware call fails.
func (c *Controller) Pause() error {
	c.active = false
	return c.hardware.EnableAutomatic()
}

// Resume re-enables duty writes from the next recomputation.
func (c *Controller) Resume() {
	c.active = true
}

// RestoreAutomatic hands fan control back to the EC without changing
// the active flag. Used at startup and shutdown.
func (c *Controller) RestoreAutomatic() error {
	return c.hardware.EnableAutomatic()
}

// Active reports whether the controller is writing duty cycles.
func (c *Controller) Active() bool { return c.active }

// CurrentSpeed returns the last duty cycle written.
func (c *Controller) CurrentSpeed() int { return c.currentSpeed }

// History returns the recorded samples, oldest first.
func (c *Controller) History() []float64 { return c.history.Samples() }

// Status is a full snapshot for status reports.
type Status struct {
	Strategy string

	// Default is true when no override is set.
	Default bool

	Speed                    int
	Temperature              float64
	MovingAverageTemperature float64
	EffectiveTemperature     float64
	Active                   bool
	Config                   *config.Config
}

// Status reads the current temperature and snapshots the controller.
// Fails only when the temperature read fails.
func (c *Controller) Status() (Status, error) {
	temperature, err := c.hardware.Temperature()
	if err != nil {
		return Status{}, err
	}
	name, _ := c.resolve()
	strategy, _ := c.config.Strategy(name)
	average := c.movingAverage(strategy.MovingAverageInterval, temperature)
	return Status{
		Strategy:                 name,
		Default:                  !c.IsOverridden(),
		Speed:                    c.currentSpeed,
		Temperature:              temperature,
		MovingAverageTemperature: average,
		EffectiveTemperature:     thermal.Effective(average, temperature),
		Active:                   c.active,
		Config:                   c.config,
	}, nil
}
