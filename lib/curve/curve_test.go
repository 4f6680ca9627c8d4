// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package curve

import (
	"testing"

	"github.com/fanctl/fanctl/lib/config"
)

func TestInterpolate(t *testing.T) {
	twoPoint := []config.CurvePoint{{Temp: 50, Speed: 15}, {Temp: 70, Speed: 100}}

	tests := []struct {
		name   string
		points []config.CurvePoint
		temp   int
		want   int
	}{
		{"below first point", twoPoint, 30, 15},
		{"above last point", twoPoint, 100, 100},
		{"exact first point", twoPoint, 50, 15},
		{"midpoint", twoPoint, 60, 55},
		{"exact last point uses truncated slope", twoPoint, 70, 95},
		{"empty curve", nil, 50, 0},
		{"single point below", []config.CurvePoint{{Temp: 50, Speed: 50}}, 30, 50},
		{"single point above", []config.CurvePoint{{Temp: 50, Speed: 50}}, 70, 50},
		{
			name:   "slope truncates toward zero",
			points: []config.CurvePoint{{Temp: 0, Speed: 0}, {Temp: 60, Speed: 0}, {Temp: 80, Speed: 50}},
			temp:   70,
			// slope = 50/20 = 2 (truncated), 0 + 10*2 = 20
			want: 20,
		},
		{
			name:   "shallow segment is flat",
			points: []config.CurvePoint{{Temp: 40, Speed: 20}, {Temp: 90, Speed: 30}},
			temp:   80,
			want:   20,
		},
		{
			name:   "exact interior knot favours lower segment",
			points: []config.CurvePoint{{Temp: 0, Speed: 0}, {Temp: 50, Speed: 30}, {Temp: 70, Speed: 60}},
			temp:   50,
			// low = {0,0}, high = {50,30}: slope 0 (30/50 truncated), 0 + 50*0 = 0
			want: 0,
		},
		{
			name:   "decreasing curve",
			points: []config.CurvePoint{{Temp: 10, Speed: 100}, {Temp: 20, Speed: 0}},
			temp:   19,
			want:   10,
		},
		{
			name:   "duplicate temperatures return lower speed",
			points: []config.CurvePoint{{Temp: 60, Speed: 40}, {Temp: 60, Speed: 80}},
			temp:   60,
			want:   40,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Interpolate(test.points, test.temp); got != test.want {
				t.Errorf("Interpolate(%v, %d) = %d, want %d", test.points, test.temp, got, test.want)
			}
		})
	}
}

func TestInterpolate_MonotonicCurveIsMonotonic(t *testing.T) {
	curves := [][]config.CurvePoint{
		{{Temp: 50, Speed: 15}, {Temp: 70, Speed: 100}},
		{{Temp: 0, Speed: 0}, {Temp: 50, Speed: 30}, {Temp: 70, Speed: 60}, {Temp: 90, Speed: 100}},
		{{Temp: 0, Speed: 0}, {Temp: 60, Speed: 0}, {Temp: 80, Speed: 50}, {Temp: 95, Speed: 100}},
		{{Temp: 45, Speed: 10}, {Temp: 46, Speed: 90}, {Temp: 47, Speed: 100}},
	}

	for index, points := range curves {
		previous := Interpolate(points, -20)
		for temp := -19; temp <= 130; temp++ {
			current := Interpolate(points, temp)
			if current < previous {
				t.Errorf("curve %d: Interpolate(%d) = %d < Interpolate(%d) = %d",
					index, temp, current, temp-1, previous)
			}
			if current < 0 || current > 100 {
				t.Errorf("curve %d: Interpolate(%d) = %d outside 0-100", index, temp, current)
			}
			previous = current
		}
	}
}
