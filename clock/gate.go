// Package clock provides the peripheral clock gates that a port enables
// before use.
package clock

import "ioports/mmio"

// Gate switches the bus clock of one peripheral.
type Gate interface {
	Enable()
	Disable()
}

// PeripheralGate is a clock gate controlled by a single bit of a clock
// enable register, such as RST_CLK.PER_CLOCK on the MDR32Fx.
type PeripheralGate struct {
	Reg *mmio.Register32
	Bit uint8
}

// NewPeripheralGate returns the gate for bit of reg.
func NewPeripheralGate(reg *mmio.Register32, bit uint8) PeripheralGate {
	return PeripheralGate{Reg: reg, Bit: bit}
}

// Enable turns the peripheral clock on.
func (g PeripheralGate) Enable() {
	g.Reg.SetBits(1 << g.Bit)
}

// Disable turns the peripheral clock off.
func (g PeripheralGate) Disable() {
	g.Reg.ClearBits(1 << g.Bit)
}

// Enabled reports whether the peripheral clock is on.
func (g PeripheralGate) Enabled() bool {
	return g.Reg.HasBits(1 << g.Bit)
}
