// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"errors"
	"fmt"

	"github.com/fanctl/fanctl/lib/config"
)

// ErrUnknownStrategy is returned by Overwrite for a name that is not
// in the loaded configuration.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Source identifies which rule selected the strategy in force.
type Source int

const (
	// SourceDefault is the configured default strategy, in force on AC
	// power or when the power state is unknown.
	SourceDefault Source = iota

	// SourceDischarging is the discharging strategy (or the default
	// when none is configured), in force on battery.
	SourceDischarging

	// SourceOverridden is a strategy pinned with Overwrite.
	SourceOverridden
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceDischarging:
		return "discharging"
	case SourceOverridden:
		return "overridden"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// resolve picks the strategy name in force and the rule that chose it.
// A power read failure counts as AC present.
func (c *Controller) resolve() (string, Source) {
	if c.overwritten != "" && c.config.Has(c.overwritten) {
		return c.overwritten, SourceOverridden
	}
	onAC, err := c.hardware.OnAC()
	if err != nil {
		c.logger.Debug("power status unavailable, assuming AC", "error", err)
		onAC = true
	}
	if onAC {
		return c.config.DefaultStrategy, SourceDefault
	}
	return c.config.DischargingStrategyName(), SourceDischarging
}

// CurrentStrategyName returns the name of the strategy in force.
func (c *Controller) CurrentStrategyName() string {
	name, _ := c.resolve()
	return name
}

// StrategySource reports which rule selected the strategy in force.
func (c *Controller) StrategySource() Source {
	_, source := c.resolve()
	return source
}

// IsOverridden reports whether a strategy override is set.
func (c *Controller) IsOverridden() bool {
	return c.overwritten != ""
}

// Overwrite pins the named strategy until ClearOverride or a reload
// that removes it. Resets the update cadence.
func (c *Controller) Overwrite(name string) error {
	if !c.config.Has(name) {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	c.overwritten = name
	c.timecount = 0
	return nil
}

// ClearOverride removes any override and resets the update cadence.
func (c *Controller) ClearOverride() {
	c.overwritten = ""
	c.timecount = 0
}

// Reload replaces the configuration. An override naming a strategy the
// new configuration lacks is dropped.
func (c *Controller) Reload(cfg *config.Config) {
	c.config = cfg
	if c.overwritten != "" && !cfg.Has(c.overwritten) {
		c.logger.Info("override cleared by reload", "strategy", c.overwritten)
		c.overwritten = ""
	}
}

// Config returns the loaded configuration. It is immutable.
func (c *Controller) Config() *config.Config {
	return c.config
}
