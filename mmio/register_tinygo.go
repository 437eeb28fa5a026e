//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"
)

// Get loads the register.
func (r *Register32) Get() uint32 {
	return volatile.LoadUint32(&r.Reg)
}

// Set stores value into the register.
func (r *Register32) Set(value uint32) {
	volatile.StoreUint32(&r.Reg, value)
}

// At returns the register at a fixed peripheral address.
func At(addr uintptr) *Register32 {
	return (*Register32)(unsafe.Pointer(addr))
}
