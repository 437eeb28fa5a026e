package link

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"ioports/ioport"
	"ioports/protocol"
)

func (l *Link) state(port byte, name string, args ...uint32) (ioport.DataT, error) {
	rest, err := l.call(name, "port_state", append([]uint32{uint32(port)}, args...)...)
	if err != nil {
		return 0, err
	}
	if err := checkPort(port, &rest); err != nil {
		return 0, err
	}
	value, err := protocol.DecodeVLQUint(&rest)
	if err != nil {
		return 0, fmt.Errorf("%v: %w", name, err)
	}
	log.Debugf("<- port %c = %#04x", port, value)
	return ioport.DataT(value), nil
}

func (l *Link) registers(port byte, name string, args ...uint32) (ioport.Snapshot, error) {
	var s ioport.Snapshot
	rest, err := l.call(name, "port_registers", append([]uint32{uint32(port)}, args...)...)
	if err != nil {
		return s, err
	}
	if err := checkPort(port, &rest); err != nil {
		return s, err
	}
	for _, reg := range []*uint32{&s.RXTX, &s.OE, &s.FUNC, &s.ANALOG, &s.PULL, &s.PD, &s.PWR} {
		if *reg, err = protocol.DecodeVLQUint(&rest); err != nil {
			return s, fmt.Errorf("%v: %w", name, err)
		}
	}
	return s, nil
}

// checkPort consumes the port argument of a response.
func checkPort(want byte, rest *[]byte) error {
	got, err := protocol.DecodeVLQUint(rest)
	if err != nil {
		return err
	}
	if byte(got) != upper(want) {
		return fmt.Errorf("response for port %c, want %c", byte(got), upper(want))
	}
	return nil
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// Read returns the data register of port.
func (l *Link) Read(port byte) (ioport.DataT, error) {
	return l.state(port, "port_read")
}

// Write stores value and returns the data register read back.
func (l *Link) Write(port byte, value ioport.DataT) (ioport.DataT, error) {
	return l.state(port, "port_write", uint32(value))
}

func (l *Link) ClearAndSet(port byte, clearMask, value ioport.DataT) (ioport.DataT, error) {
	return l.state(port, "port_clear_set", uint32(clearMask), uint32(value))
}

func (l *Link) Set(port byte, value ioport.DataT) (ioport.DataT, error) {
	return l.state(port, "port_set", uint32(value))
}

func (l *Link) Clear(port byte, value ioport.DataT) (ioport.DataT, error) {
	return l.state(port, "port_clear", uint32(value))
}

func (l *Link) Toggle(port byte, value ioport.DataT) (ioport.DataT, error) {
	return l.state(port, "port_toggle", uint32(value))
}

// Configure applies cfg to the pins in mask and returns the registers
// afterwards.
func (l *Link) Configure(port byte, mask ioport.DataT, cfg ioport.Configuration) (ioport.Snapshot, error) {
	return l.registers(port, "port_config", uint32(mask), uint32(cfg))
}

// Dump returns the registers of port.
func (l *Link) Dump(port byte) (ioport.Snapshot, error) {
	return l.registers(port, "port_dump")
}

// Clock gates the port clock on or off.
func (l *Link) Clock(port byte, enable bool) error {
	var on uint32
	if enable {
		on = 1
	}
	_, err := l.state(port, "port_clock", on)
	return err
}
