// Package mmio provides the 32-bit register cell used by every peripheral
// block in this module.
//
// On TinyGo builds a Register32 is a real memory-mapped register and every
// access goes through runtime/volatile. On regular Go builds the same type
// lives in ordinary memory and is used as the simulated backing store for
// tests and host tools.
package mmio

// Register32 is one 32-bit hardware register.
//
// Get and Set are single accesses. SetBits, ClearBits, ToggleBits and
// ReplaceBits are read-modify-write sequences and are not atomic with
// respect to interrupts or other goroutines.
type Register32 struct {
	Reg uint32
}

// SetBits sets the bits in mask.
func (r *Register32) SetBits(mask uint32) {
	r.Set(r.Get() | mask)
}

// ClearBits clears the bits in mask.
func (r *Register32) ClearBits(mask uint32) {
	r.Set(r.Get() &^ mask)
}

// ToggleBits inverts the bits in mask.
func (r *Register32) ToggleBits(mask uint32) {
	r.Set(r.Get() ^ mask)
}

// HasBits reports whether any bit in mask is set.
func (r *Register32) HasBits(mask uint32) bool {
	return r.Get()&mask != 0
}

// ReplaceBits clears clear and then sets set, in one read and one write.
func (r *Register32) ReplaceBits(clear, set uint32) {
	r.Set(r.Get()&^clear | set)
}
