// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/fanctl/fanctl/lib/config"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the JSON envelope returned for every request. Payload
// fields are omitted when a command does not report them.
type Response struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`

	Strategy string `json:"strategy,omitempty"`

	// Default is true when no strategy is pinned.
	Default *bool `json:"default,omitempty"`

	Active *bool `json:"active,omitempty"`

	Speed                    string `json:"speed,omitempty"`
	Temperature              string `json:"temperature,omitempty"`
	MovingAverageTemperature string `json:"movingAverageTemperature,omitempty"`
	EffectiveTemperature     string `json:"effectiveTemperature,omitempty"`

	Strategies []string `json:"strategies,omitempty"`

	Configuration *config.Config `json:"configuration,omitempty"`
}

// Success returns an empty success envelope.
func Success() Response {
	return Response{Status: StatusSuccess}
}

// Failure returns an error envelope carrying err's message.
func Failure(err error) Response {
	return Response{Status: StatusError, Reason: err.Error()}
}

// OK reports whether the response is a success.
func (r Response) OK() bool {
	return r.Status == StatusSuccess
}

// Marshal encodes the response as a single JSON object without a
// trailing newline. Reasons such as "usage: use <strategy>" are sent
// unescaped.
func (r Response) Marshal() []byte {
	data, err := encode(r)
	if err != nil {
		// Only Configuration could fail, and config types are plain
		// data. Fall back to a bare failure envelope.
		data, _ = encode(Failure(err))
	}
	return data
}

func encode(value any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}

// Decode parses a response envelope.
func Decode(data []byte) (Response, error) {
	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, err
	}
	return response, nil
}

// FormatInt renders an integer status value.
func FormatInt(value int) string {
	return strconv.Itoa(value)
}

// FormatTemperature renders a temperature with the shortest exact
// representation: 60 for 60.0, 50.33 for 50.33.
func FormatTemperature(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func boolPointer(value bool) *bool {
	return &value
}
