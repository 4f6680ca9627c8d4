// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package hardware

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTemperatureFromRaw(t *testing.T) {
	t.Parallel()

	// Raw values are Kelvin minus 200: 123 reads as 50 °C.
	tests := []struct {
		name           string
		raw            []byte
		excludeBattery bool
		want           float64
	}{
		{"hottest wins", []byte{123, 133, 113}, false, 60},
		{"sentinels skipped", []byte{0xFF, 0xFE, 0xFD, 0xFC, 118}, false, 45},
		{"zero celsius skipped", []byte{73, 60, 0}, false, DefaultTemperature},
		{"nothing valid", []byte{0xFF, 0xFF}, false, DefaultTemperature},
		{"empty", nil, false, DefaultTemperature},
		{"battery excluded", []byte{113, 0xFF, 143}, true, 40},
		{"sole sensor kept when excluding battery", []byte{143, 0xFF}, true, 70},
		{"battery counted when not excluded", []byte{113, 143}, false, 70},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := TemperatureFromRaw(test.raw, test.excludeBattery)
			if got != test.want {
				t.Errorf("TemperatureFromRaw(%v, %v) = %v, want %v",
					test.raw, test.excludeBattery, got, test.want)
			}
		})
	}
}

func TestDutyFromRaw(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  byte
		want int
	}{
		{0, 0},
		{42, 42},
		{100, 100},
		{101, 0},
		{0xFF, 0},
	}
	for _, test := range tests {
		if got := DutyFromRaw(test.raw); got != test.want {
			t.Errorf("DutyFromRaw(%d) = %d, want %d", test.raw, got, test.want)
		}
	}
}

func TestClampDuty(t *testing.T) {
	t.Parallel()

	for input, want := range map[int]int{-5: 0, 0: 0, 55: 55, 100: 100, 250: 100} {
		if got := ClampDuty(input); got != want {
			t.Errorf("ClampDuty(%d) = %d, want %d", input, got, want)
		}
	}
}

func TestErrorMatchesErrHardware(t *testing.T) {
	t.Parallel()

	cause := errors.New("ioctl failed")
	err := error(&Error{Op: "set fan duty", Err: cause})
	if !errors.Is(err, ErrHardware) {
		t.Error("errors.Is(err, ErrHardware) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if got, want := err.Error(), "ec set fan duty: ioctl failed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// writeSysfs creates a sysfs-like attribute file under root.
func writeSysfs(t *testing.T, root, relative, content string) {
	t.Helper()
	path := filepath.Join(root, relative)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIsFramework(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if IsFramework(root) {
		t.Error("IsFramework with no DMI data = true")
	}

	writeSysfs(t, root, "class/dmi/id/board_vendor", "Framework")
	if !IsFramework(root) {
		t.Error("IsFramework with Framework vendor = false")
	}

	other := t.TempDir()
	writeSysfs(t, other, "class/dmi/id/board_vendor", "LENOVO")
	if IsFramework(other) {
		t.Error("IsFramework with LENOVO vendor = true")
	}
}

func TestMainsOnline(t *testing.T) {
	t.Parallel()

	t.Run("online adapter", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeSysfs(t, root, "class/power_supply/BAT1/type", "Battery")
		writeSysfs(t, root, "class/power_supply/BAT1/online", "1")
		writeSysfs(t, root, "class/power_supply/ACAD/type", "Mains")
		writeSysfs(t, root, "class/power_supply/ACAD/online", "1")
		online, err := MainsOnline(root)
		if err != nil {
			t.Fatalf("MainsOnline: %v", err)
		}
		if !online {
			t.Error("MainsOnline = false, want true")
		}
	})

	t.Run("offline adapter", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeSysfs(t, root, "class/power_supply/ACAD/type", "Mains")
		writeSysfs(t, root, "class/power_supply/ACAD/online", "0")
		online, err := MainsOnline(root)
		if err != nil {
			t.Fatalf("MainsOnline: %v", err)
		}
		if online {
			t.Error("MainsOnline = true, want false")
		}
	})

	t.Run("no mains supply", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeSysfs(t, root, "class/power_supply/BAT1/type", "Battery")
		if _, err := MainsOnline(root); err == nil {
			t.Error("MainsOnline without a Mains supply succeeded")
		}
	})

	t.Run("no class directory", func(t *testing.T) {
		t.Parallel()
		if _, err := MainsOnline(t.TempDir()); err == nil {
			t.Error("MainsOnline without power_supply succeeded")
		}
	})
}

func TestFake(t *testing.T) {
	t.Parallel()

	fake := NewFake()
	if err := fake.SetFanDuty(40); err != nil {
		t.Fatalf("SetFanDuty: %v", err)
	}
	if err := fake.SetFanDuty(140); err != nil {
		t.Fatalf("SetFanDuty: %v", err)
	}
	duty, err := fake.FanDuty()
	if err != nil {
		t.Fatalf("FanDuty: %v", err)
	}
	if duty != 100 {
		t.Errorf("FanDuty = %d, want 100", duty)
	}
	writes := fake.Writes()
	if len(writes) != 2 || writes[0] != 40 || writes[1] != 100 {
		t.Errorf("Writes = %v, want [40 100]", writes)
	}

	fake.FailSetFanDuty(errors.New("bus busy"))
	if err := fake.SetFanDuty(10); !errors.Is(err, ErrHardware) {
		t.Errorf("SetFanDuty with injected failure = %v, want ErrHardware", err)
	}
	if got := len(fake.Writes()); got != 2 {
		t.Errorf("failed write was recorded: %d writes", got)
	}

	if err := fake.EnableAutomatic(); err != nil {
		t.Fatalf("EnableAutomatic: %v", err)
	}
	if got := fake.AutomaticCalls(); got != 1 {
		t.Errorf("AutomaticCalls = %d, want 1", got)
	}
}
