// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package hardware

import "sync"

// Fake is an in-memory Source for tests. All methods are safe for
// concurrent use. The zero value is not usable; call NewFake.
type Fake struct {
	mu sync.Mutex

	temperature float64
	duty        int
	rpm         int
	onAC        bool

	temperatureErr error
	setDutyErr     error
	dutyErr        error
	powerErr       error
	automaticErr   error

	writes         []int
	automaticCalls int
}

// NewFake returns a Fake at DefaultTemperature, duty 0, on AC power.
func NewFake() *Fake {
	return &Fake{temperature: DefaultTemperature, onAC: true}
}

// SetTemperature sets the value returned by Temperature.
func (f *Fake) SetTemperature(celsius float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.temperature = celsius
}

// SetOnAC sets the value returned by OnAC.
func (f *Fake) SetOnAC(onAC bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onAC = onAC
}

// SetRPM sets the value returned by FanRPM.
func (f *Fake) SetRPM(rpm int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rpm = rpm
}

// FailTemperature makes Temperature return err. Pass nil to clear.
func (f *Fake) FailTemperature(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.temperatureErr = err
}

// FailSetFanDuty makes SetFanDuty return err. Pass nil to clear.
func (f *Fake) FailSetFanDuty(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setDutyErr = err
}

// FailFanDuty makes FanDuty return err. Pass nil to clear.
func (f *Fake) FailFanDuty(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dutyErr = err
}

// FailOnAC makes OnAC return err. Pass nil to clear.
func (f *Fake) FailOnAC(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.powerErr = err
}

// FailEnableAutomatic makes EnableAutomatic return err. Pass nil to
// clear.
func (f *Fake) FailEnableAutomatic(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.automaticErr = err
}

func (f *Fake) Temperature() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.temperatureErr != nil {
		return 0, &Error{Op: "read temperature", Err: f.temperatureErr}
	}
	return f.temperature, nil
}

func (f *Fake) SetFanDuty(percent int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setDutyErr != nil {
		return &Error{Op: "set fan duty", Err: f.setDutyErr}
	}
	f.duty = ClampDuty(percent)
	f.writes = append(f.writes, f.duty)
	return nil
}

func (f *Fake) FanDuty() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dutyErr != nil {
		return 0, &Error{Op: "read fan duty", Err: f.dutyErr}
	}
	return f.duty, nil
}

func (f *Fake) FanRPM() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rpm, nil
}

func (f *Fake) OnAC() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.powerErr != nil {
		return false, &Error{Op: "read power status", Err: f.powerErr}
	}
	return f.onAC, nil
}

func (f *Fake) EnableAutomatic() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.automaticErr != nil {
		return &Error{Op: "enable automatic fan control", Err: f.automaticErr}
	}
	f.automaticCalls++
	return nil
}

// Writes returns a copy of every duty passed to a successful
// SetFanDuty, in order.
func (f *Fake) Writes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.writes...)
}

// AutomaticCalls returns how many times EnableAutomatic succeeded.
func (f *Fake) AutomaticCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.automaticCalls
}

var (
	_ Source     = (*Fake)(nil)
	_ Tachometer = (*Fake)(nil)
)
