// Package serial opens the serial device a port monitor is attached to.
package serial

import "io"

// Port is an open serial device.
type Port interface {
	io.ReadWriteCloser

	// Flush discards data received but not yet read.
	Flush() error
}

type Config struct {
	// Device path, e.g. "/dev/ttyUSB0" or "COM3".
	Device string

	Baud int

	// ReadTimeout in milliseconds; 0 blocks.
	ReadTimeout int
}

// DefaultBaud is the UART rate the monitor firmware is built with.
const DefaultBaud = 115200

func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100,
	}
}
