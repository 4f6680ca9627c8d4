// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package thermal

import "math"

// DefaultTemperature is the conservative reading used when no valid
// sample is available at all.
const DefaultTemperature = 50.0

// MovingAverage averages the last interval valid (positive) samples.
// An interval of zero, or one larger than the number of valid samples,
// averages all of them. When no valid sample exists the result is
// fallback, which callers set to the instantaneous reading.
func MovingAverage(samples []float64, interval int, fallback float64) float64 {
	valid := make([]float64, 0, len(samples))
	for _, sample := range samples {
		if sample > 0 {
			valid = append(valid, sample)
		}
	}
	if len(valid) == 0 {
		return fallback
	}

	window := valid
	if interval > 0 && interval < len(valid) {
		window = valid[len(valid)-interval:]
	}

	var sum float64
	for _, sample := range window {
		sum += sample
	}
	return sum / float64(len(window))
}

// Effective blends the moving average with the instantaneous sample,
// weighted 2:1 toward the average, rounded to two decimal places.
func Effective(movingAverage, sample float64) float64 {
	blended := (movingAverage*2 + sample) / 3
	return math.Round(blended*100) / 100
}
