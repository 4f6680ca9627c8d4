// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package thermal

// HistoryCapacity is the number of raw samples the controller keeps.
// At one sample per second this is the last 100 seconds.
const HistoryCapacity = 100

// History is a fixed-capacity FIFO of raw temperature samples. When
// full, Push evicts the oldest sample.
type History struct {
	samples []float64
	// start is the index of the oldest sample in samples.
	start int
	// count is the number of stored samples (at most len(samples)).
	count int
}

// NewHistory creates an empty history holding up to capacity samples.
// Panics if capacity is not positive.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		panic("thermal: non-positive history capacity")
	}
	return &History{samples: make([]float64, capacity)}
}

// Push appends a sample, evicting the oldest one if the history is
// full. Invalid (non-positive) samples are stored like any other.
func (h *History) Push(sample float64) {
	capacity := len(h.samples)
	if h.count < capacity {
		h.samples[(h.start+h.count)%capacity] = sample
		h.count++
		return
	}
	h.samples[h.start] = sample
	h.start = (h.start + 1) % capacity
}

// Len returns the number of stored samples.
func (h *History) Len() int { return h.count }

// Capacity returns the maximum number of stored samples.
func (h *History) Capacity() int { return len(h.samples) }

// Samples returns a copy of the stored samples, oldest first.
func (h *History) Samples() []float64 {
	result := make([]float64, h.count)
	capacity := len(h.samples)
	for index := range result {
		result[index] = h.samples[(h.start+index)%capacity]
	}
	return result
}
