// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package hardware

import (
	"encoding/binary"
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DefaultDevicePath is the cros_ec character device.
const DefaultDevicePath = "/dev/cros_ec"

// cros_ec character device ioctls, from the kernel's
// include/linux/platform_data/cros_ec_chardev.h. Both are _IOWR(0xEC,
// nr, struct): direction(3) << 30 | size << 16 | 0xEC << 8 | nr.
const (
	// ioctlXCmdV2 sends a host command. Encodes the 20-byte
	// struct cros_ec_command_v2 header (the payload follows it).
	ioctlXCmdV2 = 0xC014EC00

	// ioctlReadMemV2 reads the memory map. Encodes the 264-byte
	// struct cros_ec_readmem_v2.
	ioctlReadMemV2 = 0xC108EC01
)

// Host command numbers from ec_commands.h.
const (
	ecCmdPWMSetFanDuty      = 0x0024
	ecCmdThermalAutoFanCtrl = 0x0052
)

// Memory map offsets from ec_commands.h.
const (
	ecMemmapTempSensor = 0x00
	ecMemmapFan        = 0x10
	ecMemmapBattFlag   = 0x83

	// ecTempSensorCount is the number of sensors in the first
	// temperature block.
	ecTempSensorCount = 0x0F

	// ecFanBlockSize covers the four little-endian uint16 fan
	// tachometer slots.
	ecFanBlockSize = 8

	// ecFanDutyOffset is the byte within the fan block read as the
	// fan duty.
	ecFanDutyOffset = 4

	ecBattFlagACPresent = 0x01
)

// Tachometer sentinels.
const (
	ecFanSpeedNotPresent = 0xFFFF
	ecFanSpeedStalled    = 0xFFFE
)

// commandHeaderSize is sizeof(struct cros_ec_command_v2) without its
// flexible data member.
const commandHeaderSize = 20

// readMemRequest mirrors struct cros_ec_readmem_v2: u32 offset, u32
// bytes, u8 buffer[255], padded to 264 bytes.
type readMemRequest struct {
	offset uint32
	bytes  uint32
	buffer [255]byte
}

// CrosECOptions configures a CrosEC.
type CrosECOptions struct {
	// DevicePath defaults to DefaultDevicePath.
	DevicePath string

	// ExcludeBatterySensor leaves the last valid temperature sensor
	// out of Temperature.
	ExcludeBatterySensor bool

	// SysRoot is the sysfs mount used for the AC fallback. Defaults
	// to DefaultSysRoot.
	SysRoot string
}

// CrosEC is a Source backed by the cros_ec character device.
type CrosEC struct {
	file           *os.File
	excludeBattery bool
	sysRoot        string
}

// OpenCrosEC opens the cros_ec device. The caller must Close it.
func OpenCrosEC(options CrosECOptions) (*CrosEC, error) {
	devicePath := options.DevicePath
	if devicePath == "" {
		devicePath = DefaultDevicePath
	}
	sysRoot := options.SysRoot
	if sysRoot == "" {
		sysRoot = DefaultSysRoot
	}

	file, err := os.OpenFile(devicePath, os.O_RDWR, 0)
	if err != nil {
		return nil, &Error{Op: "open", Err: fmt.Errorf("opening %s: %w", devicePath, err)}
	}
	return &CrosEC{
		file:           file,
		excludeBattery: options.ExcludeBatterySensor,
		sysRoot:        sysRoot,
	}, nil
}

// Close releases the device.
func (ec *CrosEC) Close() error {
	return ec.file.Close()
}

// Temperature reads the sensor block and returns the hottest valid
// sensor.
func (ec *CrosEC) Temperature() (float64, error) {
	raw, err := ec.readMemory(ecMemmapTempSensor, ecTempSensorCount)
	if err != nil {
		return 0, &Error{Op: "read temperature", Err: err}
	}
	return TemperatureFromRaw(raw, ec.excludeBattery), nil
}

// SetFanDuty sets every fan to percent and leaves automatic mode.
func (ec *CrosEC) SetFanDuty(percent int) error {
	params := make([]byte, 4)
	binary.NativeEndian.PutUint32(params, uint32(ClampDuty(percent)))
	if _, err := ec.command(ecCmdPWMSetFanDuty, 0, params, 0); err != nil {
		return &Error{Op: "set fan duty", Err: err}
	}
	return nil
}

// FanDuty reads the duty byte from the fan block.
func (ec *CrosEC) FanDuty() (int, error) {
	raw, err := ec.readMemory(ecMemmapFan, ecFanBlockSize)
	if err != nil {
		return 0, &Error{Op: "read fan duty", Err: err}
	}
	return DutyFromRaw(raw[ecFanDutyOffset]), nil
}

// FanRPM reads the first fan's tachometer. A stalled fan reads 0.
func (ec *CrosEC) FanRPM() (int, error) {
	raw, err := ec.readMemory(ecMemmapFan, ecFanBlockSize)
	if err != nil {
		return 0, &Error{Op: "read fan rpm", Err: err}
	}
	rpm := binary.LittleEndian.Uint16(raw[0:2])
	switch rpm {
	case ecFanSpeedNotPresent:
		return 0, &Error{Op: "read fan rpm", Err: fmt.Errorf("no fan present")}
	case ecFanSpeedStalled:
		return 0, nil
	}
	return int(rpm), nil
}

// OnAC reads the AC-present battery flag. When the EC read fails the
// kernel's power_supply class is consulted before giving up.
func (ec *CrosEC) OnAC() (bool, error) {
	raw, err := ec.readMemory(ecMemmapBattFlag, 1)
	if err == nil {
		return raw[0]&ecBattFlagACPresent != 0, nil
	}
	online, sysfsErr := MainsOnline(ec.sysRoot)
	if sysfsErr == nil {
		return online, nil
	}
	return false, &Error{Op: "read power status", Err: err}
}

// EnableAutomatic hands fan control back to the EC.
func (ec *CrosEC) EnableAutomatic() error {
	if _, err := ec.command(ecCmdThermalAutoFanCtrl, 0, nil, 0); err != nil {
		return &Error{Op: "enable automatic fan control", Err: err}
	}
	return nil
}

// readMemory issues one CROS_EC_DEV_IOCRDMEM_V2 ioctl.
func (ec *CrosEC) readMemory(offset, length uint32) ([]byte, error) {
	request := readMemRequest{offset: offset, bytes: length}
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		ec.file.Fd(),
		uintptr(ioctlReadMemV2),
		uintptr(unsafe.Pointer(&request)),
	)
	if errno != 0 {
		return nil, fmt.Errorf("readmem offset 0x%02x: %w", offset, errno)
	}
	result := make([]byte, length)
	copy(result, request.buffer[:length])
	return result, nil
}

// command issues one CROS_EC_DEV_IOCXCMD_V2 ioctl and returns the
// first inSize bytes of the response payload.
func (ec *CrosEC) command(command, version uint32, params []byte, inSize int) ([]byte, error) {
	payloadSize := max(len(params), inSize)
	buffer := make([]byte, commandHeaderSize+payloadSize)
	binary.NativeEndian.PutUint32(buffer[0:4], version)
	binary.NativeEndian.PutUint32(buffer[4:8], command)
	binary.NativeEndian.PutUint32(buffer[8:12], uint32(len(params)))
	binary.NativeEndian.PutUint32(buffer[12:16], uint32(inSize))
	copy(buffer[commandHeaderSize:], params)

	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		ec.file.Fd(),
		uintptr(ioctlXCmdV2),
		uintptr(unsafe.Pointer(&buffer[0])),
	)
	runtime.KeepAlive(buffer)
	if errno != 0 {
		return nil, fmt.Errorf("command 0x%04x: %w", command, errno)
	}
	if result := binary.NativeEndian.Uint32(buffer[16:20]); result != 0 {
		return nil, fmt.Errorf("command 0x%04x: ec result %d", command, result)
	}
	return buffer[commandHeaderSize : commandHeaderSize+inSize], nil
}

var (
	_ Source     = (*CrosEC)(nil)
	_ Tachometer = (*CrosEC)(nil)
)
