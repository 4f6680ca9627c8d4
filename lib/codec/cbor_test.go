// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type sampleState struct {
	PID      int       `cbor:"pid"`
	Strategy string    `cbor:"strategy,omitempty"`
	Acquired time.Time `cbor:"acquired"`
}

func TestMarshalDeterministic(t *testing.T) {
	t.Parallel()

	state := sampleState{
		PID:      4242,
		Strategy: "balanced",
		Acquired: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	first, err := Marshal(state)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 10 {
		again, err := Marshal(state)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("Marshal output differs between calls: %x vs %x", first, again)
		}
	}

	var decoded sampleState
	if err := Unmarshal(first, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.PID != state.PID || decoded.Strategy != state.Strategy || !decoded.Acquired.Equal(state.Acquired) {
		t.Errorf("decoded %+v, want %+v", decoded, state)
	}
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	t.Parallel()

	data, err := Marshal(map[string]any{"pid": 7, "future": "field"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded sampleState
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.PID != 7 {
		t.Errorf("PID = %d, want 7", decoded.PID)
	}
}

func TestDiagnose(t *testing.T) {
	t.Parallel()

	data, err := Marshal(sampleState{PID: 1, Acquired: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	for _, want := range []string{`"pid": 1`, `"2026-03-01T00:00:00Z"`} {
		if !strings.Contains(diagnostic, want) {
			t.Errorf("Diagnose = %s, missing %s", diagnostic, want)
		}
	}
}
