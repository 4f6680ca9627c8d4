// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/fanctl/fanctl/lib/clock"
	"github.com/fanctl/fanctl/lib/hardware"
	"github.com/fanctl/fanctl/lib/testutil"
)

func TestSanityCheck_All(t *testing.T) {
	fake := hardware.NewFake()
	fake.SetTemperature(47.5)
	fake.SetRPM(2400)
	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	var out, errOut bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- sanityCheck(context.Background(), fake, sanityOptions{
			Temperature: true,
			Fan:         true,
			Clock:       fakeClock,
			Out:         &out,
			ErrOut:      &errOut,
		})
	}()

	for range fanTestSteps {
		fakeClock.WaitForTimers(1)
		fakeClock.Advance(fanSettleTime)
	}
	if err := testutil.RequireReceive(t, done, 5*time.Second, "waiting for sanity check"); err != nil {
		t.Fatalf("sanityCheck() error: %v (stderr %q)", err, errOut.String())
	}

	if got, want := fake.Writes(), []int{25, 50, 75, 100}; !slices.Equal(got, want) {
		t.Errorf("duty writes = %v, want %v", got, want)
	}
	if got := fake.AutomaticCalls(); got != 1 {
		t.Errorf("AutomaticCalls = %d, want 1", got)
	}

	output := out.String()
	for _, want := range []string{
		"=== Sanity Check ===",
		"Temperature:  47.5°C - OK",
		"Power:       AC connected - OK",
		"Testing fan control...",
		"Speed%    Duty     RPM",
		"    25      25    2400",
		"   100     100    2400",
		"Fan control: OK (auto-restored)",
		"=== Done ===",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestSanityCheck_TemperatureOnly(t *testing.T) {
	fake := hardware.NewFake()
	fake.SetOnAC(false)

	var out, errOut bytes.Buffer
	err := sanityCheck(context.Background(), fake, sanityOptions{
		Temperature: true,
		Out:         &out,
		ErrOut:      &errOut,
	})
	if err != nil {
		t.Fatalf("sanityCheck() error: %v", err)
	}
	if strings.Contains(out.String(), "Testing fan control") {
		t.Errorf("fan test ran without being selected:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Power:       Battery - OK") {
		t.Errorf("output missing battery line:\n%s", out.String())
	}
	if len(fake.Writes()) != 0 {
		t.Errorf("duty writes = %v, want none", fake.Writes())
	}
}

func TestSanityCheck_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*hardware.Fake)
		want  string
	}{
		{
			name:  "temperature out of range",
			setup: func(fake *hardware.Fake) { fake.SetTemperature(120) },
			want:  "Temperature: FAILED",
		},
		{
			name:  "temperature read error",
			setup: func(fake *hardware.Fake) { fake.FailTemperature(errors.New("ioctl failed")) },
			want:  "Temperature: FAILED",
		},
		{
			name:  "power read error",
			setup: func(fake *hardware.Fake) { fake.FailOnAC(errors.New("no supply")) },
			want:  "Power:       FAILED",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fake := hardware.NewFake()
			test.setup(fake)

			var out, errOut bytes.Buffer
			err := sanityCheck(context.Background(), fake, sanityOptions{
				Temperature: true,
				Out:         &out,
				ErrOut:      &errOut,
			})
			requireExitCode(t, err, 1)
			if !strings.Contains(out.String(), test.want) {
				t.Errorf("output missing %q\n\nFull output:\n%s", test.want, out.String())
			}
			if !strings.Contains(errOut.String(), "Error:") {
				t.Errorf("stderr = %q, want error detail", errOut.String())
			}
			if !strings.Contains(out.String(), "=== Done ===") {
				t.Errorf("report not finished:\n%s", out.String())
			}
		})
	}
}

func TestSanityCheck_FanWriteFailureRestores(t *testing.T) {
	fake := hardware.NewFake()
	fake.FailSetFanDuty(errors.New("ec busy"))

	var out, errOut bytes.Buffer
	err := sanityCheck(context.Background(), fake, sanityOptions{
		Fan:    true,
		Clock:  clock.Fake(time.Now()),
		Out:    &out,
		ErrOut: &errOut,
	})
	requireExitCode(t, err, 1)
	if !strings.Contains(out.String(), "Fan control: FAILED") {
		t.Errorf("output missing fan failure:\n%s", out.String())
	}
	if got := fake.AutomaticCalls(); got != 1 {
		t.Errorf("AutomaticCalls = %d, want 1 after a failed ramp", got)
	}
}

func TestSanityCheck_CancelledDuringRamp(t *testing.T) {
	fake := hardware.NewFake()
	fakeClock := clock.Fake(time.Now())
	ctx, cancel := context.WithCancel(context.Background())

	var out, errOut bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- sanityCheck(ctx, fake, sanityOptions{
			Fan:    true,
			Clock:  fakeClock,
			Out:    &out,
			ErrOut: &errOut,
		})
	}()

	fakeClock.WaitForTimers(1)
	cancel()
	err := testutil.RequireReceive(t, done, 5*time.Second, "waiting for sanity check")
	requireExitCode(t, err, 1)
	if !strings.Contains(errOut.String(), context.Canceled.Error()) {
		t.Errorf("stderr = %q, want cancellation", errOut.String())
	}
	if got := fake.AutomaticCalls(); got != 1 {
		t.Errorf("AutomaticCalls = %d, want 1 after cancellation", got)
	}
}

func TestSanityCheck_FanDutyReadFailure(t *testing.T) {
	fake := hardware.NewFake()
	fake.FailFanDuty(errors.New("readmem failed"))
	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	var out, errOut bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- sanityCheck(context.Background(), fake, sanityOptions{
			Fan:    true,
			Clock:  fakeClock,
			Out:    &out,
			ErrOut: &errOut,
		})
	}()

	fakeClock.WaitForTimers(1)
	fakeClock.Advance(fanSettleTime)
	err := testutil.RequireReceive(t, done, 5*time.Second, "waiting for sanity check")
	requireExitCode(t, err, 1)

	if got, want := fake.Writes(), []int{25}; !slices.Equal(got, want) {
		t.Errorf("duty writes = %v, want %v", got, want)
	}
	if !strings.Contains(out.String(), "Fan control: FAILED") {
		t.Errorf("output missing fan failure:\n%s", out.String())
	}
	if !strings.Contains(errOut.String(), "readmem failed") {
		t.Errorf("stderr = %q, want duty read error", errOut.String())
	}
	if got := fake.AutomaticCalls(); got != 1 {
		t.Errorf("AutomaticCalls = %d, want 1 after a failed ramp", got)
	}
}
