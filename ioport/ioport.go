// Package ioport implements the general-purpose I/O ports of the MDR32Fx
// (1986BE9x) family.
//
// A Port is a thin binding of a register block and a clock gate. It keeps no
// pin state of its own: every operation is a load, a store or a
// read-modify-write of the hardware registers. Configuring a set of pins
// never changes the bits or fields that belong to pins outside the set.
//
// Nothing in this package validates its inputs, allocates, logs or masks
// interrupts, so every operation may be called from interrupt handlers and
// start-up code. Callers that need several registers to change atomically
// must provide their own exclusion.
package ioport

import "ioports/mmio"

// Width is the number of pins in a port.
const Width = 16

// DataT holds one bit per pin.
type DataT uint16

// Registers is the register block of one port.
// The field order matches the hardware layout, each register is 32 bits wide.
type Registers struct {
	RXTX   mmio.Register32 // 0x00 data
	OE     mmio.Register32 // 0x04 output enable
	FUNC   mmio.Register32 // 0x08 function select, 2 bits per pin
	ANALOG mmio.Register32 // 0x0C analog/digital select
	PULL   mmio.Register32 // 0x10 pull-up (bits 0-15), pull-down (bits 16-31)
	PD     mmio.Register32 // 0x14 Schmitt trigger (bits 0-15), open drain (bits 16-31)
	PWR    mmio.Register32 // 0x18 driver speed, 2 bits per pin
	GFEN   mmio.Register32 // 0x1C input glitch filter
	SETTX  mmio.Register32 // 0x20
	CLRTX  mmio.Register32 // 0x24
	RDTX   mmio.Register32 // 0x28
}

// Snapshot is a copy of the registers a Port reads and writes.
type Snapshot struct {
	RXTX   uint32
	OE     uint32
	FUNC   uint32
	ANALOG uint32
	PULL   uint32
	PD     uint32
	PWR    uint32
}

// Snapshot loads every register used by the port, one at a time.
func (r *Registers) Snapshot() Snapshot {
	return Snapshot{
		RXTX:   r.RXTX.Get(),
		OE:     r.OE.Get(),
		FUNC:   r.FUNC.Get(),
		ANALOG: r.ANALOG.Get(),
		PULL:   r.PULL.Get(),
		PD:     r.PD.Get(),
		PWR:    r.PWR.Get(),
	}
}

// Diff returns the bits that differ between s and other.
func (s Snapshot) Diff(other Snapshot) Snapshot {
	return Snapshot{
		RXTX:   s.RXTX ^ other.RXTX,
		OE:     s.OE ^ other.OE,
		FUNC:   s.FUNC ^ other.FUNC,
		ANALOG: s.ANALOG ^ other.ANALOG,
		PULL:   s.PULL ^ other.PULL,
		PD:     s.PD ^ other.PD,
		PWR:    s.PWR ^ other.PWR,
	}
}

// IsZero reports whether every register value is zero.
func (s Snapshot) IsZero() bool {
	return s == Snapshot{}
}
