// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package curve maps temperatures to fan duty cycles over a speed
// curve.
package curve

import "github.com/fanctl/fanctl/lib/config"

// Interpolate returns the duty cycle (0-100) for temp on the given
// curve.
//
// The bracketing points are found by a single forward scan: low is the
// last point strictly below temp, high is the first point at or above
// it. Below the first point and above the last the curve is flat. At an
// exact knot temperature the lower neighbour wins, so a temp equal to
// the first point's returns that point's speed. The slope uses
// truncating integer division, which means a segment whose speed delta
// is smaller than its temperature span is flat.
//
// An empty curve yields 0. Configuration validation rejects empty
// curves, so that case only arises from hand-built values.
func Interpolate(points []config.CurvePoint, temp int) int {
	if len(points) == 0 {
		return 0
	}

	low := points[0]
	high := points[len(points)-1]
	for _, point := range points {
		if temp > point.Temp {
			low = point
			continue
		}
		high = point
		break
	}

	if low.Temp == high.Temp {
		return low.Speed
	}

	slope := (high.Speed - low.Speed) / (high.Temp - low.Temp)
	return clamp(low.Speed+(temp-low.Temp)*slope, 0, 100)
}

func clamp(value, minimum, maximum int) int {
	if value < minimum {
		return minimum
	}
	if value > maximum {
		return maximum
	}
	return value
}
