package ioport

import "ioports/clock"

// Build-time forms.
//
// Pins and pin sets are zero-size types whose Mask method returns a
// constant, so the mask of every call below is fixed when the program is
// built. P0 to P15 are the only PinIndex types; naming a pin beyond the
// port width does not compile.

// PinSet is a type whose Mask method returns a constant.
type PinSet interface {
	Mask() DataT
}

// PinIndex is a PinSet holding exactly one pin.
type PinIndex interface {
	PinSet
	Index() uint8
}

type (
	P0  struct{}
	P1  struct{}
	P2  struct{}
	P3  struct{}
	P4  struct{}
	P5  struct{}
	P6  struct{}
	P7  struct{}
	P8  struct{}
	P9  struct{}
	P10 struct{}
	P11 struct{}
	P12 struct{}
	P13 struct{}
	P14 struct{}
	P15 struct{}
)

func (P0) Index() uint8  { return 0 }
func (P1) Index() uint8  { return 1 }
func (P2) Index() uint8  { return 2 }
func (P3) Index() uint8  { return 3 }
func (P4) Index() uint8  { return 4 }
func (P5) Index() uint8  { return 5 }
func (P6) Index() uint8  { return 6 }
func (P7) Index() uint8  { return 7 }
func (P8) Index() uint8  { return 8 }
func (P9) Index() uint8  { return 9 }
func (P10) Index() uint8 { return 10 }
func (P11) Index() uint8 { return 11 }
func (P12) Index() uint8 { return 12 }
func (P13) Index() uint8 { return 13 }
func (P14) Index() uint8 { return 14 }
func (P15) Index() uint8 { return 15 }

func (P0) Mask() DataT  { return 1 << 0 }
func (P1) Mask() DataT  { return 1 << 1 }
func (P2) Mask() DataT  { return 1 << 2 }
func (P3) Mask() DataT  { return 1 << 3 }
func (P4) Mask() DataT  { return 1 << 4 }
func (P5) Mask() DataT  { return 1 << 5 }
func (P6) Mask() DataT  { return 1 << 6 }
func (P7) Mask() DataT  { return 1 << 7 }
func (P8) Mask() DataT  { return 1 << 8 }
func (P9) Mask() DataT  { return 1 << 9 }
func (P10) Mask() DataT { return 1 << 10 }
func (P11) Mask() DataT { return 1 << 11 }
func (P12) Mask() DataT { return 1 << 12 }
func (P13) Mask() DataT { return 1 << 13 }
func (P14) Mask() DataT { return 1 << 14 }
func (P15) Mask() DataT { return 1 << 15 }

// Or is the union of two pin sets. Nest it for more pins:
// Or[P0, Or[P3, P7]].
type Or[A, B PinSet] struct{}

func (Or[A, B]) Mask() DataT {
	var a A
	var b B
	return a.Mask() | b.Mask()
}

// NoPins selects nothing.
type NoPins struct{}

func (NoPins) Mask() DataT { return 0 }

// AllPins selects every pin of the port.
type AllPins struct{}

func (AllPins) Mask() DataT { return 1<<Width - 1 }

// MaskOf returns the mask of a pin set type.
func MaskOf[M PinSet]() DataT {
	var m M
	return m.Mask()
}

// SetConfigurationOf applies cfg to the pins of M.
func SetConfigurationOf[M PinSet, G clock.Gate](p *Port[G], cfg Configuration) {
	p.Apply(Compile(MaskOf[M](), cfg))
}

// SetPinConfigurationOf applies cfg to pin P.
func SetPinConfigurationOf[P PinIndex, G clock.Gate](p *Port[G], cfg Configuration) {
	var pin P
	p.Apply(Compile(DataT(1)<<pin.Index(), cfg))
}

// ClearAndSetOf clears the pins of C and sets the pins of V.
func ClearAndSetOf[C, V PinSet, G clock.Gate](p *Port[G]) {
	p.ClearAndSet(MaskOf[C](), MaskOf[V]())
}

// SetOf sets the pins of V.
func SetOf[V PinSet, G clock.Gate](p *Port[G]) {
	p.Set(MaskOf[V]())
}

// ClearOf clears the pins of V.
func ClearOf[V PinSet, G clock.Gate](p *Port[G]) {
	p.Clear(MaskOf[V]())
}

// ToggleOf inverts the pins of V.
func ToggleOf[V PinSet, G clock.Gate](p *Port[G]) {
	p.Toggle(MaskOf[V]())
}
