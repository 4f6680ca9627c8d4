// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package hardware

import (
	"errors"
	"fmt"
	"runtime"
)

// DefaultDevicePath is the cros_ec character device.
const DefaultDevicePath = "/dev/cros_ec"

// CrosECOptions configures a CrosEC.
type CrosECOptions struct {
	DevicePath           string
	ExcludeBatterySensor bool
	SysRoot              string
}

// CrosEC is unavailable on this platform.
type CrosEC struct{}

var errUnsupported = fmt.Errorf("cros_ec is not supported on %s", runtime.GOOS)

// OpenCrosEC always fails outside Linux.
func OpenCrosEC(CrosECOptions) (*CrosEC, error) {
	return nil, &Error{Op: "open", Err: errUnsupported}
}

func (*CrosEC) Close() error                  { return nil }
func (*CrosEC) Temperature() (float64, error) { return 0, errors.ErrUnsupported }
func (*CrosEC) SetFanDuty(int) error          { return errors.ErrUnsupported }
func (*CrosEC) FanDuty() (int, error)         { return 0, errors.ErrUnsupported }
func (*CrosEC) FanRPM() (int, error)          { return 0, errors.ErrUnsupported }
func (*CrosEC) OnAC() (bool, error)           { return false, errors.ErrUnsupported }
func (*CrosEC) EnableAutomatic() error        { return errors.ErrUnsupported }
