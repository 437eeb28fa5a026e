package ioport

import "ioports/clock"

// Port is one general-purpose I/O port bound to its register block and
// clock gate. The gate type is a type parameter so a concrete gate is
// called directly.
type Port[G clock.Gate] struct {
	regs *Registers
	gate G
	id   byte
}

// NewPort binds a port to regs and gate. id is a label such as 'A' and is
// only used for diagnostics.
func NewPort[G clock.Gate](regs *Registers, gate G, id byte) *Port[G] {
	return &Port[G]{regs: regs, gate: gate, id: id}
}

// ID returns the port label.
func (p *Port[G]) ID() byte { return p.id }

// Registers returns the bound register block.
func (p *Port[G]) Registers() *Registers { return p.regs }

// Snapshot copies the port's registers.
func (p *Port[G]) Snapshot() Snapshot { return p.regs.Snapshot() }

// Enable turns on the port clock.
func (p *Port[G]) Enable() { p.gate.Enable() }

// Disable turns off the port clock.
func (p *Port[G]) Disable() { p.gate.Disable() }

// Read returns the data register.
func (p *Port[G]) Read() DataT {
	return DataT(p.regs.RXTX.Get())
}

// Write stores value into the data register. Bits of pins that are not
// outputs are kept and drive the pin once it becomes an output.
func (p *Port[G]) Write(value DataT) {
	p.regs.RXTX.Set(uint32(value))
}

// ClearAndSet clears clearMask and sets value in one read-modify-write.
func (p *Port[G]) ClearAndSet(clearMask, value DataT) {
	p.regs.RXTX.ReplaceBits(uint32(clearMask), uint32(value))
}

// Set sets the bits in value.
func (p *Port[G]) Set(value DataT) {
	p.regs.RXTX.SetBits(uint32(value))
}

// Clear clears the bits in value.
func (p *Port[G]) Clear(value DataT) {
	p.regs.RXTX.ClearBits(uint32(value))
}

// Toggle inverts the bits in value.
func (p *Port[G]) Toggle(value DataT) {
	p.regs.RXTX.ToggleBits(uint32(value))
}

// PinRead returns the pin levels. On this family inputs are read back
// through the data register.
func (p *Port[G]) PinRead() DataT {
	return DataT(p.regs.RXTX.Get())
}
