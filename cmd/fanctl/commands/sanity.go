// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/pflag"

	"github.com/fanctl/fanctl/cmd/fanctl/cli"
	"github.com/fanctl/fanctl/lib/clock"
	"github.com/fanctl/fanctl/lib/hardware"
)

// Fan ramp used by the sanity check: fanTestSteps equal steps up to
// 100%, each held for fanSettleTime before the RPM is read.
const (
	fanTestSteps  = 4
	fanSettleTime = 2 * time.Second
)

// Plausible temperature range for a working sensor.
const (
	minSaneTemperature = 0.0
	maxSaneTemperature = 100.0
)

type sanityParams struct {
	fan        bool
	temp       bool
	all        bool
	devicePath string
	sysRoot    string
}

func sanityCheckCommand(globals *Globals) *cli.Command {
	params := sanityParams{
		devicePath: hardware.DefaultDevicePath,
		sysRoot:    hardware.DefaultSysRoot,
	}

	return &cli.Command{
		Name:    "sanity-check",
		Summary: "Probe the EC temperature, power and fan readings",
		Description: `Check that the embedded controller answers: read the temperature, the
power source and, with --fan, ramp the fan through four steps and read
its RPM. Automatic fan control is restored afterwards. Talks to the EC
directly, so stop the daemon first. Without --fan or --temp every check
runs.`,
		Usage: "fanctl sanity-check [--fan] [--temp] [--all] [flags]",
		Examples: []cli.Example{
			{Description: "Run every check", Command: "sudo fanctl sanity-check"},
			{Description: "Only test the fan ramp", Command: "sudo fanctl sanity-check --fan"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := globals.flagSet("sanity-check")
			flagSet.BoolVar(&params.fan, "fan", params.fan, "test fan control")
			flagSet.BoolVar(&params.temp, "temp", params.temp, "test the temperature reading")
			flagSet.BoolVar(&params.all, "all", params.all, "run every check")
			flagSet.StringVar(&params.devicePath, "device", params.devicePath, "cros_ec character device")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			if !hardware.IsFramework(params.sysRoot) {
				fmt.Fprintln(globals.Stderr, "Not a Framework Laptop")
				return nil
			}

			ec, err := hardware.OpenCrosEC(hardware.CrosECOptions{
				DevicePath: params.devicePath,
				SysRoot:    params.sysRoot,
			})
			if err != nil {
				return err
			}
			defer ec.Close()

			all := params.all || (!params.fan && !params.temp)
			return sanityCheck(ctx, ec, sanityOptions{
				Temperature: all || params.temp,
				Fan:         all || params.fan,
				Out:         globals.Stdout,
				ErrOut:      globals.Stderr,
				Logger:      logger,
			})
		},
	}
}

// sanityOptions selects the checks run by sanityCheck.
type sanityOptions struct {
	Temperature bool
	Fan         bool

	// Clock paces the fan ramp. Defaults to clock.Real().
	Clock clock.Clock

	Out    io.Writer
	ErrOut io.Writer
	Logger *slog.Logger
}

// sanityCheck runs the selected checks against source and prints a
// report. The power source is always checked. Failures are reported
// inline and make the command exit 1.
func sanityCheck(ctx context.Context, source hardware.Source, options sanityOptions) error {
	clk := options.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := options.Out
	failed := false
	fail := func(label string, err error) {
		failed = true
		fmt.Fprintf(out, "%s FAILED\n", label)
		fmt.Fprintf(options.ErrOut, "  Error: %v\n", err)
	}

	fmt.Fprintf(out, "=== Sanity Check ===\n\n")

	if options.Temperature {
		temperature, err := checkTemperature(source)
		if err != nil {
			fail("Temperature:", err)
		} else {
			fmt.Fprintf(out, "Temperature: %5.1f°C - OK\n", temperature)
		}
	}

	onAC, err := source.OnAC()
	switch {
	case err != nil:
		fail("Power:      ", err)
	case onAC:
		fmt.Fprintln(out, "Power:       AC connected - OK")
	default:
		fmt.Fprintln(out, "Power:       Battery - OK")
	}

	if options.Fan {
		fmt.Fprintf(out, "\nTesting fan control...\n")
		results, err := testFanControl(ctx, source, clk)
		// The ramp leaves the fan in manual mode whether or not it
		// finished.
		if restoreErr := source.EnableAutomatic(); restoreErr != nil && err == nil {
			err = fmt.Errorf("restoring automatic fan mode: %w", restoreErr)
		}
		if err != nil {
			logger.Debug("fan ramp failed", "error", err)
			fail("Fan control:", err)
		} else {
			fmt.Fprintf(out, "%6s  %6s  %6s\n", "Speed%", "Duty", "RPM")
			for _, result := range results {
				fmt.Fprintf(out, "%6d  %6d  %6d\n", result.speed, result.duty, result.rpm)
			}
			fmt.Fprintln(out, "Fan control: OK (auto-restored)")
		}
	}

	fmt.Fprintf(out, "\n=== Done ===\n")
	if failed {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// checkTemperature reads the temperature and rejects implausible
// values.
func checkTemperature(source hardware.Source) (float64, error) {
	temperature, err := source.Temperature()
	if err != nil {
		return 0, err
	}
	if temperature < minSaneTemperature || temperature > maxSaneTemperature {
		return 0, fmt.Errorf("temperature %g°C is out of valid range (0-100)", temperature)
	}
	return temperature, nil
}

// fanSample is one ramp step: the requested speed, the duty the EC
// reports back and the measured RPM.
type fanSample struct {
	speed int
	duty  int
	rpm   int
}

// testFanControl steps the fan up to 100% and records the duty and RPM
// at each step. The caller restores automatic mode.
func testFanControl(ctx context.Context, source hardware.Source, clk clock.Clock) ([]fanSample, error) {
	tachometer, ok := source.(hardware.Tachometer)
	if !ok {
		return nil, fmt.Errorf("fan speed sensor not available")
	}

	step := 100 / fanTestSteps
	samples := make([]fanSample, 0, fanTestSteps)
	for i := 1; i <= fanTestSteps; i++ {
		speed := min(step*i, 100)
		if err := source.SetFanDuty(speed); err != nil {
			return nil, err
		}
		if err := clock.Wait(ctx, clk, fanSettleTime); err != nil {
			return nil, err
		}
		duty, err := source.FanDuty()
		if err != nil {
			return nil, err
		}
		rpm, err := tachometer.FanRPM()
		if err != nil {
			return nil, err
		}
		samples = append(samples, fanSample{speed: speed, duty: duty, rpm: rpm})
	}
	return samples, nil
}
