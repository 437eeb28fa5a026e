package ioport

// Expand spreads a one-bit-per-pin mask into a two-bits-per-pin mask:
// bits 2i and 2i+1 of the result are set iff bit i of mask is set.
//
// The bits are moved with four masked shifts of halving stride instead of a
// loop over pins, so the cost does not depend on the mask.
func Expand(mask DataT) uint32 {
	m := uint32(mask)
	m = (m&0x0000ff00)<<8 | m&0x000000ff
	m = (m&0x00f000f0)<<4 | m&0x000f000f
	m = (m&0x0c0c0c0c)<<2 | m&0x03030303
	m = (m&0x22222222)<<1 | m&0x11111111
	// every pin now owns bit 2i; fill bit 2i+1 as well
	return m * 3
}

// Broadcast copies a 2-bit field value into all Width slots.
// Values above 3 are not rejected and produce meaningless slot contents.
func Broadcast(field uint32) uint32 {
	return field * 0x55555555
}

// ReplaceFields writes field into the 2-bit slot of every pin in mask and
// leaves all other slots of old untouched.
func ReplaceFields(old uint32, mask DataT, field uint32) uint32 {
	e := Expand(mask)
	return old&^e | e&Broadcast(field)
}
