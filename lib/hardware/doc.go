// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package hardware talks to the laptop's embedded controller (EC).
//
// [Source] is the capability the controller depends on: read the
// hottest valid temperature, write a fan duty cycle, read the duty
// back, read the AC adapter state, and hand fan control back to the
// EC's automatic mode. The controller only calls a Source while it
// holds exclusive access to its own state, so implementations need no
// locking of their own for that caller.
//
// # ChromeOS EC driver
//
// [CrosEC] implements Source through the Linux cros_ec character
// device (/dev/cros_ec, provided by cros_ec_lpcs on Framework
// laptops). Memory-mapped values (temperature sensors, fan tachometers,
// battery flags) are read with CROS_EC_DEV_IOCRDMEM_V2; host commands
// (set fan duty, restore automatic fan control) are sent with
// CROS_EC_DEV_IOCXCMD_V2. Pure Go, no cgo.
//
// Raw temperature bytes are Kelvin offset by 200. The top four values
// are sentinels (not present, error, not powered, not calibrated) and
// are discarded by [TemperatureFromRaw], which also applies the
// optional battery sensor exclusion and the 50 °C fallback.
//
// # sysfs helpers
//
// sysfs.go reads the DMI vendor (for the sanity check's platform
// gate) and the kernel's power_supply class (a fallback AC source
// when the EC battery flags are unreadable).
//
// # Testing
//
// [Fake] is an in-memory Source with injectable readings and errors.
package hardware
