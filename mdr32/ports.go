// Package mdr32 is the fixed port table of the MDR32Fx (1986BE9x): the
// register block address and clock enable bit of ports A to F.
package mdr32

// Peripheral base addresses.
const (
	PortABase uintptr = 0x400A8000
	PortBBase uintptr = 0x400B0000
	PortCBase uintptr = 0x400B8000
	PortDBase uintptr = 0x400C0000
	PortEBase uintptr = 0x400C8000
	PortFBase uintptr = 0x400E8000

	RSTClkBase   uintptr = 0x40020000
	PerClockAddr         = RSTClkBase + 0x1C // RST_CLK.PER_CLOCK
)

// PortInfo describes one physical port.
type PortInfo struct {
	ID       byte
	Base     uintptr
	ClockBit uint8
}

// ClockBit returns the PER_CLOCK bit of the peripheral at base. Peripherals
// sit on 32 KiB boundaries and the bit is the block number.
func ClockBit(base uintptr) uint8 {
	return uint8(base>>15) & 0x1F
}

// Ports is the table of ports on this family.
var Ports = [...]PortInfo{
	{ID: 'A', Base: PortABase, ClockBit: 21},
	{ID: 'B', Base: PortBBase, ClockBit: 22},
	{ID: 'C', Base: PortCBase, ClockBit: 23},
	{ID: 'D', Base: PortDBase, ClockBit: 24},
	{ID: 'E', Base: PortEBase, ClockBit: 25},
	{ID: 'F', Base: PortFBase, ClockBit: 29},
}

// Lookup returns the port with the given letter. Lower case is accepted.
func Lookup(id byte) (PortInfo, bool) {
	if id >= 'a' && id <= 'z' {
		id -= 'a' - 'A'
	}
	for _, p := range Ports {
		if p.ID == id {
			return p, true
		}
	}
	return PortInfo{}, false
}
