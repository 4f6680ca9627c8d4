// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fanctl/fanctl/lib/config"
	"github.com/fanctl/fanctl/lib/controller"
)

// Executor runs commands against a shared controller.
type Executor struct {
	shared *controller.Shared
	config config.Source
	logger *slog.Logger
}

// NewExecutor creates an Executor. configSource is what reload
// re-reads; the daemon passes the file it started from.
func NewExecutor(shared *controller.Shared, configSource config.Source, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		shared: shared,
		config: configSource,
		logger: logger,
	}
}

// ServeRequest parses one request line, executes it and returns the
// encoded response. It satisfies service.Handler.
func (e *Executor) ServeRequest(ctx context.Context, request string) []byte {
	return e.Handle(ctx, request).Marshal()
}

// Handle parses and executes one request line.
func (e *Executor) Handle(ctx context.Context, request string) Response {
	parsed, err := Parse(request)
	if err != nil {
		e.logger.Debug("rejected request", "request", request, "error", err)
		return Failure(err)
	}
	response := e.Execute(ctx, parsed)
	if !response.OK() {
		e.logger.Info("command failed", "command", parsed.Verb(), "error", response.Reason)
	}
	return response
}

// Execute runs one command with exclusive access to the controller.
func (e *Executor) Execute(ctx context.Context, command Command) Response {
	var response Response
	var err error
	switch command := command.(type) {
	case Use:
		err = e.shared.Do(ctx, func(c *controller.Controller) error {
			if err := c.Overwrite(command.Strategy); err != nil {
				return err
			}
			response = e.strategyResponse(c, command.Verb())
			return nil
		})
	case Reset:
		err = e.shared.Do(ctx, func(c *controller.Controller) error {
			c.ClearOverride()
			response = e.strategyResponse(c, command.Verb())
			return nil
		})
	case Reload:
		response, err = e.reload(ctx)
	case Pause:
		err = e.shared.Do(ctx, func(c *controller.Controller) error {
			response = Success()
			return c.Pause()
		})
	case Resume:
		err = e.shared.Do(ctx, func(c *controller.Controller) error {
			c.Resume()
			response = Success()
			return nil
		})
	case Print:
		err = e.shared.Do(ctx, func(c *controller.Controller) error {
			var printErr error
			response, printErr = printSelection(c, command.Selector)
			return printErr
		})
	default:
		err = fmt.Errorf("unhandled command type %T", command)
	}
	if err != nil {
		return Failure(err)
	}
	return response
}

// strategyResponse reports the strategy in force after use or reset
// and logs the rule that selected it.
func (e *Executor) strategyResponse(c *controller.Controller, verb string) Response {
	name := c.CurrentStrategyName()
	e.logger.Info("strategy selected",
		"command", verb,
		"strategy", name,
		"source", c.StrategySource().String(),
	)
	return Response{Status: StatusSuccess, Strategy: name}
}

// reload loads the configuration outside the exclusive section and
// swaps it in. A load failure leaves the running configuration alone.
func (e *Executor) reload(ctx context.Context) (Response, error) {
	if e.config == nil {
		return Response{}, fmt.Errorf("reload: no configuration source")
	}
	cfg, err := e.config.Load()
	if err != nil {
		return Response{}, err
	}
	var changed bool
	err = e.shared.Do(ctx, func(c *controller.Controller) error {
		changed = c.Config().Digest != cfg.Digest
		c.Reload(cfg)
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	e.logger.Info("configuration reloaded",
		"strategy", cfg.DefaultStrategy,
		"digest", cfg.Digest.String(),
		"changed", changed,
	)
	return Success(), nil
}

// printSelection builds the response for a Print selector. Only "all"
// reads the hardware beyond strategy resolution.
func printSelection(c *controller.Controller, selector Selector) (Response, error) {
	switch selector {
	case SelectAll:
		status, err := c.Status()
		if err != nil {
			return Response{}, err
		}
		return Response{
			Status:                   StatusSuccess,
			Strategy:                 status.Strategy,
			Default:                  boolPointer(status.Default),
			Active:                   boolPointer(status.Active),
			Speed:                    FormatInt(status.Speed),
			Temperature:              FormatTemperature(status.Temperature),
			MovingAverageTemperature: FormatTemperature(status.MovingAverageTemperature),
			EffectiveTemperature:     FormatTemperature(status.EffectiveTemperature),
			Configuration:            status.Config,
		}, nil
	case SelectActive:
		return Response{Status: StatusSuccess, Active: boolPointer(c.Active())}, nil
	case SelectCurrent:
		return Response{
			Status:   StatusSuccess,
			Strategy: c.CurrentStrategyName(),
			Default:  boolPointer(!c.IsOverridden()),
		}, nil
	case SelectList:
		return Response{Status: StatusSuccess, Strategies: c.Config().StrategyNames()}, nil
	case SelectSpeed:
		return Response{Status: StatusSuccess, Speed: FormatInt(c.CurrentSpeed())}, nil
	default:
		_, err := ParseSelector(string(selector))
		return Response{}, err
	}
}
