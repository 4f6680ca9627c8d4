// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package thermal smooths raw temperature samples into the effective
// temperature that drives the speed curve.
//
// Smoothing happens in two steps. [MovingAverage] averages the most
// recent valid samples of a [History]; samples at or below zero are
// the sensor's "invalid" sentinel and are skipped at averaging time
// (they are still stored). [Effective] then blends the moving average
// with the instantaneous reading at a fixed 2:1 weight toward the
// average and rounds to hundredths. The weighting damps transient
// spikes without making the fan slow to react to sustained load.
//
// [History] is not safe for concurrent use. The controller owns one
// and only touches it while holding exclusive access to its state.
package thermal
