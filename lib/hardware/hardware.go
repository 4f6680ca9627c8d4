// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package hardware

import (
	"errors"
	"fmt"
)

// Source is the EC capability used by the fan controller.
type Source interface {
	// Temperature returns the hottest valid sensor reading in degrees
	// Celsius, or DefaultTemperature when no sensor has a valid value.
	Temperature() (float64, error)

	// SetFanDuty puts the fan in manual mode at percent (0-100).
	SetFanDuty(percent int) error

	// FanDuty returns the current fan duty cycle. Out-of-range raw
	// values read as 0.
	FanDuty() (int, error)

	// OnAC reports whether the AC adapter is connected.
	OnAC() (bool, error)

	// EnableAutomatic returns fan control to the EC firmware.
	EnableAutomatic() error
}

// Tachometer is implemented by sources that can read fan speed in
// RPM. Used by the sanity check.
type Tachometer interface {
	FanRPM() (int, error)
}

// ErrHardware is matched (via errors.Is) by every EC communication
// failure.
var ErrHardware = errors.New("hardware error")

// Error records which EC operation failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ec %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrHardware }

// DefaultTemperature is reported when every sensor value is invalid.
const DefaultTemperature = 50.0

// Raw temperature sentinels from the EC memory map.
const (
	tempSensorNotPresent    = 0xFF
	tempSensorError         = 0xFE
	tempSensorNotPowered    = 0xFD
	tempSensorNotCalibrated = 0xFC
)

// tempSensorOffset converts a raw reading (Kelvin minus 200) to
// Celsius: raw + 200 - 273.
const tempSensorOffset = 73

// TemperatureFromRaw converts the EC temperature sensor block to a
// single reading: the maximum over valid sensors, in Celsius.
//
// Sentinel values are discarded, as is anything at or below 0 °C after
// conversion. When excludeBattery is set and more than one sensor is
// valid, the last valid sensor (the battery on Framework boards) is
// left out of the maximum. With no valid sensor the result is
// DefaultTemperature.
func TemperatureFromRaw(raw []byte, excludeBattery bool) float64 {
	var valid []int
	for _, value := range raw {
		if value >= tempSensorNotCalibrated {
			continue
		}
		celsius := int(value) - tempSensorOffset
		if celsius <= 0 {
			continue
		}
		valid = append(valid, celsius)
	}

	if len(valid) == 0 {
		return DefaultTemperature
	}
	if excludeBattery && len(valid) > 1 {
		valid = valid[:len(valid)-1]
	}

	hottest := valid[0]
	for _, celsius := range valid[1:] {
		if celsius > hottest {
			hottest = celsius
		}
	}
	return float64(hottest)
}

// DutyFromRaw validates a raw duty byte. Anything above 100 reads as 0.
func DutyFromRaw(raw byte) int {
	if raw > 100 {
		return 0
	}
	return int(raw)
}

// ClampDuty bounds a requested duty cycle to 0-100.
func ClampDuty(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
