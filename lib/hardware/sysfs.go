// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package hardware

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSysRoot is where sysfs is mounted.
const DefaultSysRoot = "/sys"

// FrameworkVendor is the DMI board vendor reported by Framework
// laptops.
const FrameworkVendor = "Framework"

// ReadSysfsString reads a sysfs attribute and trims trailing
// whitespace. Returns "" on error.
func ReadSysfsString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// BoardVendor returns the DMI board vendor under sysRoot, or "" if it
// cannot be read.
func BoardVendor(sysRoot string) string {
	return ReadSysfsString(filepath.Join(sysRoot, "class", "dmi", "id", "board_vendor"))
}

// IsFramework reports whether the DMI board vendor names Framework.
func IsFramework(sysRoot string) bool {
	return strings.Contains(BoardVendor(sysRoot), FrameworkVendor)
}

// MainsOnline scans sysRoot/class/power_supply for a supply of type
// "Mains" and returns its online flag. When several are present any
// online adapter counts. Returns an error if no Mains supply exists.
func MainsOnline(sysRoot string) (bool, error) {
	classDir := filepath.Join(sysRoot, "class", "power_supply")
	entries, err := os.ReadDir(classDir)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", classDir, err)
	}

	found := false
	for _, entry := range entries {
		supplyDir := filepath.Join(classDir, entry.Name())
		if ReadSysfsString(filepath.Join(supplyDir, "type")) != "Mains" {
			continue
		}
		found = true
		if ReadSysfsString(filepath.Join(supplyDir, "online")) == "1" {
			return true, nil
		}
	}
	if !found {
		return false, fmt.Errorf("no Mains power supply under %s", classDir)
	}
	return false, nil
}
