// Package sim provides simulated port register banks for tests and host
// tools. A bank is an ioport.Registers block in ordinary memory together
// with a clock gate that records how it was used.
package sim

import (
	"math/rand"
	"sync/atomic"

	"ioports/ioport"
	"ioports/mdr32"
)

// Port is a port bound to a simulated bank.
type Port = ioport.Port[*Gate]

// Gate is a clock gate that counts its calls.
type Gate struct {
	enables  atomic.Int32
	disables atomic.Int32
	on       atomic.Bool
}

func (g *Gate) Enable() {
	g.enables.Add(1)
	g.on.Store(true)
}

func (g *Gate) Disable() {
	g.disables.Add(1)
	g.on.Store(false)
}

// Enabled reports whether the last call was Enable.
func (g *Gate) Enabled() bool { return g.on.Load() }

// Counts returns the number of Enable and Disable calls.
func (g *Gate) Counts() (enables, disables int) {
	return int(g.enables.Load()), int(g.disables.Load())
}

// Bank is the simulated hardware of one port.
type Bank struct {
	Regs ioport.Registers
	Gate Gate
}

// NewBank returns a bank whose registers hold seeded pseudo-random values,
// standing in for whatever state the hardware was left in.
func NewBank(seed int64) *Bank {
	b := new(Bank)
	b.Randomize(rand.New(rand.NewSource(seed)))
	return b
}

// Randomize fills the registers from rnd. Registers with one bit per pin
// only get their low 16 bits filled.
func (b *Bank) Randomize(rnd *rand.Rand) {
	r := &b.Regs
	r.RXTX.Set(rnd.Uint32() & 0xFFFF)
	r.OE.Set(rnd.Uint32() & 0xFFFF)
	r.FUNC.Set(rnd.Uint32())
	r.ANALOG.Set(rnd.Uint32() & 0xFFFF)
	r.PULL.Set(rnd.Uint32())
	r.PD.Set(rnd.Uint32())
	r.PWR.Set(rnd.Uint32())
}

// Load stores s into the registers.
func (b *Bank) Load(s ioport.Snapshot) {
	r := &b.Regs
	r.RXTX.Set(s.RXTX)
	r.OE.Set(s.OE)
	r.FUNC.Set(s.FUNC)
	r.ANALOG.Set(s.ANALOG)
	r.PULL.Set(s.PULL)
	r.PD.Set(s.PD)
	r.PWR.Set(s.PWR)
}

// Port binds a port labelled id to the bank.
func (b *Bank) Port(id byte) *Port {
	return ioport.NewPort(&b.Regs, &b.Gate, id)
}

// NewPort returns a port bound to a fresh seeded bank.
func NewPort(id byte, seed int64) (*Port, *Bank) {
	b := NewBank(seed)
	return b.Port(id), b
}

// Board is a simulated chip with every port of the family.
type Board struct {
	Ports []*Port
	Banks []*Bank
}

// NewBoard builds ports A to F, each bank seeded from seed and its letter.
func NewBoard(seed int64) *Board {
	board := &Board{}
	for _, info := range mdr32.Ports {
		b := NewBank(seed ^ int64(info.ID))
		board.Banks = append(board.Banks, b)
		board.Ports = append(board.Ports, b.Port(info.ID))
	}
	return board
}

// Port returns the port with the given letter, or nil.
func (b *Board) Port(id byte) *Port {
	for _, p := range b.Ports {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

// Bank returns the bank behind the port with the given letter, or nil.
func (b *Board) Bank(id byte) *Bank {
	for i, p := range b.Ports {
		if p.ID() == id {
			return b.Banks[i]
		}
	}
	return nil
}
