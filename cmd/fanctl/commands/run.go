// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/fanctl/fanctl/cmd/fanctl/cli"
	"github.com/fanctl/fanctl/lib/clock"
	"github.com/fanctl/fanctl/lib/command"
	"github.com/fanctl/fanctl/lib/config"
	"github.com/fanctl/fanctl/lib/controller"
	"github.com/fanctl/fanctl/lib/hardware"
	"github.com/fanctl/fanctl/lib/lease"
	"github.com/fanctl/fanctl/lib/service"
)

// restoreTimeout bounds handing the fan back to the EC on shutdown.
const restoreTimeout = 5 * time.Second

type runParams struct {
	configPath       string
	strategy         string
	devicePath       string
	leasePath        string
	silent           bool
	noBatterySensors bool
}

func runCommand(globals *Globals) *cli.Command {
	params := runParams{
		configPath: config.DefaultPath,
		devicePath: hardware.DefaultDevicePath,
		leasePath:  lease.DefaultPath,
	}

	return &cli.Command{
		Name:    "run",
		Summary: "Run the fan control daemon",
		Description: `Take manual control of the fan and adjust its duty cycle every second
from the configured speed curves. Commands are accepted on the socket
given by --socket. On SIGINT or SIGTERM the fan is handed back to the
EC's automatic control before exiting.`,
		Usage: "fanctl run [flags]",
		Examples: []cli.Example{
			{Description: "Run with the stock configuration", Command: "fanctl run"},
			{Description: "Run quietly with a YAML configuration", Command: "fanctl run --silent --config /etc/fanctl/config.yaml"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := globals.flagSet("run")
			flagSet.StringVar(&params.configPath, "config", params.configPath, "configuration file (JSONC, or YAML by extension)")
			flagSet.StringVar(&params.strategy, "strategy", params.strategy, "strategy to pin from startup")
			flagSet.StringVar(&params.devicePath, "device", params.devicePath, "cros_ec character device")
			flagSet.StringVar(&params.leasePath, "lease", params.leasePath, "control lease file")
			flagSet.BoolVar(&params.silent, "silent", params.silent, "do not print a status line per tick")
			flagSet.BoolVar(&params.noBatterySensors, "no-battery-sensors", params.noBatterySensors, "ignore the battery temperature sensor")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			if err := globals.validate(); err != nil {
				return err
			}

			cfg, err := config.LoadFile(params.configPath)
			if err != nil {
				return err
			}

			ec, err := hardware.OpenCrosEC(hardware.CrosECOptions{
				DevicePath:           params.devicePath,
				ExcludeBatterySensor: params.noBatterySensors,
			})
			if err != nil {
				return err
			}
			defer ec.Close()

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runDaemon(ctx, ec, cfg, daemonOptions{
				ConfigPath: params.configPath,
				Strategy:   params.strategy,
				Device:     params.devicePath,
				SocketPath: globals.SocketPath,
				LeasePath:  params.leasePath,
				Silent:     params.silent,
				Stdout:     globals.Stdout,
				Logger:     logger,
			})
		},
	}
}

// daemonOptions configures runDaemon.
type daemonOptions struct {
	ConfigPath string
	Strategy   string
	Device     string
	SocketPath string
	LeasePath  string

	// Silent suppresses the per-tick status table.
	Silent bool

	// Clock defaults to clock.Real().
	Clock clock.Clock

	Stdout io.Writer
	Logger *slog.Logger
}

// runDaemon drives source until ctx is cancelled. It takes the control
// lease, switches the EC to automatic mode, serves commands and runs
// the control loop. On the way out it restores automatic mode and
// releases the lease; a failed restore is returned.
func runDaemon(ctx context.Context, source hardware.Source, cfg *config.Config, options daemonOptions) (err error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := options.Clock
	if clk == nil {
		clk = clock.Real()
	}

	fanController, err := controller.New(source, cfg, controller.Options{
		InitialOverride: options.Strategy,
		Logger:          logger,
	})
	if err != nil {
		return err
	}
	initialStrategy := fanController.CurrentStrategyName()
	shared := controller.NewShared(fanController)

	stale, err := lease.Acquire(options.LeasePath, lease.State{
		PID:          os.Getpid(),
		Device:       options.Device,
		Config:       options.ConfigPath,
		ConfigDigest: cfg.Digest.String(),
		Acquired:     clk.Now(),
	})
	if err != nil {
		return err
	}
	if stale != nil {
		logger.Warn("replaced stale control lease",
			"path", options.LeasePath,
			"pid", stale.PID,
			"acquired", stale.Acquired,
		)
	}
	defer func() {
		if clearErr := lease.Clear(options.LeasePath); clearErr != nil {
			logger.Error("releasing control lease failed", "path", options.LeasePath, "error", clearErr)
		}
	}()

	// The fan must never sit at a stale manual duty while the first
	// samples are gathered.
	if err := shared.Do(ctx, (*controller.Controller).RestoreAutomatic); err != nil {
		return fmt.Errorf("enabling automatic fan mode: %w", err)
	}
	defer func() {
		restoreCtx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
		defer cancel()
		if restoreErr := shared.Do(restoreCtx, (*controller.Controller).RestoreAutomatic); restoreErr != nil {
			logger.Error("restoring automatic fan mode failed", "error", restoreErr)
			err = errors.Join(err, fmt.Errorf("restoring automatic fan mode: %w", restoreErr))
			return
		}
		logger.Info("automatic fan mode restored")
	}()

	executor := command.NewExecutor(shared, config.FileSource{Path: options.ConfigPath}, logger)
	server := service.NewSocketServer(options.SocketPath, executor, logger)

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Serve(serverCtx)
	}()

	select {
	case <-server.Ready():
	case serveErr := <-serverDone:
		if serveErr == nil {
			// Cancelled before the socket came up.
			return nil
		}
		return fmt.Errorf("starting command socket: %w", serveErr)
	}

	logger.Info("fan control started",
		"strategy", initialStrategy,
		"path", options.SocketPath,
		"digest", cfg.Digest.String(),
	)

	var onTick func(controller.TickResult)
	if !options.Silent && options.Stdout != nil {
		renderer := cli.NewRenderer(options.Stdout, options.Stdout)
		renderer.StatusHeader()
		onTick = func(result controller.TickResult) {
			renderer.StatusLine(result.Strategy, result.Temperature, result.Speed, result.Active)
		}
	}

	loopErr := controller.Run(ctx, shared, controller.LoopOptions{
		Clock:  clk,
		Logger: logger,
		OnTick: onTick,
	})

	cancelServer()
	if serveErr := <-serverDone; serveErr != nil {
		logger.Error("command socket failed", "error", serveErr)
	}
	logger.Info("fan control stopping")
	return loopErr
}
