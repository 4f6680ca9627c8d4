// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"testing"

	"github.com/fanctl/fanctl/lib/config"
)

// StrategyConfigJSON is a strategy document with three strategies:
// "lazy" (default), "laziest" (discharging) and "balanced". Every
// strategy recomputes on every tick so tests see each write.
const StrategyConfigJSON = `{
	// Used on AC power.
	"defaultStrategy": "lazy",
	"strategyOnDischarging": "laziest",
	"strategies": {
		"laziest": {
			"fanSpeedUpdateFrequency": 1,
			"movingAverageInterval": 0,
			"speedCurve": [
				{"temp": 0, "speed": 0},
				{"temp": 50, "speed": 0},
				{"temp": 85, "speed": 100},
			],
		},
		"lazy": {
			"fanSpeedUpdateFrequency": 1,
			"movingAverageInterval": 0,
			"speedCurve": [
				{"temp": 0, "speed": 15},
				{"temp": 50, "speed": 15},
				{"temp": 65, "speed": 25},
				{"temp": 70, "speed": 35},
				{"temp": 85, "speed": 100},
			],
		},
		"balanced": {
			"fanSpeedUpdateFrequency": 1,
			"movingAverageInterval": 0,
			"speedCurve": [
				{"temp": 0, "speed": 20},
				{"temp": 40, "speed": 20},
				{"temp": 60, "speed": 40},
				{"temp": 80, "speed": 100},
			],
		},
	},
}`

// StrategyConfig parses StrategyConfigJSON.
func StrategyConfig(t testing.TB) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(StrategyConfigJSON))
	if err != nil {
		t.Fatalf("parsing test strategy config: %v", err)
	}
	return cfg
}
