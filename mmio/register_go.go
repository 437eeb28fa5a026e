//go:build !tinygo

package mmio

import "sync/atomic"

// Get loads the register.
// Host builds use atomic loads so a simulated register can be observed from
// another goroutine (a monitor serving a pipe, for instance).
func (r *Register32) Get() uint32 {
	return atomic.LoadUint32(&r.Reg)
}

// Set stores value into the register.
func (r *Register32) Set(value uint32) {
	atomic.StoreUint32(&r.Reg, value)
}
