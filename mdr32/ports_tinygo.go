//go:build tinygo

package mdr32

import (
	"unsafe"

	"ioports/clock"
	"ioports/ioport"
	"ioports/mmio"
)

// Port is the type of every bound port on this family.
type Port = ioport.Port[clock.PeripheralGate]

var perClock = mmio.At(PerClockAddr)

var (
	Porta = bind(Ports[0])
	Portb = bind(Ports[1])
	Portc = bind(Ports[2])
	Portd = bind(Ports[3])
	Porte = bind(Ports[4])
	Portf = bind(Ports[5])
)

func bind(info PortInfo) *Port {
	regs := (*ioport.Registers)(unsafe.Pointer(info.Base))
	return ioport.NewPort(regs, clock.NewPeripheralGate(perClock, info.ClockBit), info.ID)
}

// All returns the bound ports in table order.
func All() []*Port {
	return []*Port{Porta, Portb, Portc, Portd, Porte, Portf}
}
