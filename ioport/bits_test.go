package ioport

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expandSlow is the obvious per-pin loop Expand must agree with.
func expandSlow(mask DataT) uint32 {
	var out uint32
	for i := uint(0); i < Width; i++ {
		if mask&(1<<i) != 0 {
			out |= 3 << (2 * i)
		}
	}
	return out
}

func TestExpandEdges(t *testing.T) {
	a := assert.New(t)
	a.Equal(uint32(0), Expand(0))
	a.Equal(uint32(0xFFFFFFFF), Expand(0xFFFF))
	a.Equal(uint32(0x00000003), Expand(0x0001))
	a.Equal(uint32(0xC0000000), Expand(0x8000))
	a.Equal(uint32(0x000000C3), Expand(0x0009))
	a.Equal(uint32(0x33333333), Expand(0x5555))
	a.Equal(uint32(0xCCCCCCCC), Expand(0xAAAA))
	a.Equal(uint32(0x0000FFFF), Expand(0x00FF))
	a.Equal(uint32(0xFFFF0000), Expand(0xFF00))
}

func TestExpandAllMasks(t *testing.T) {
	for m := 0; m <= 0xFFFF; m++ {
		if got, want := Expand(DataT(m)), expandSlow(DataT(m)); got != want {
			t.Fatalf("Expand(0x%04x) = 0x%08x, want 0x%08x", m, got, want)
		}
	}
}

func TestBroadcast(t *testing.T) {
	a := assert.New(t)
	a.Equal(uint32(0x00000000), Broadcast(0))
	a.Equal(uint32(0x55555555), Broadcast(1))
	a.Equal(uint32(0xAAAAAAAA), Broadcast(2))
	a.Equal(uint32(0xFFFFFFFF), Broadcast(3))
}

func TestReplaceFieldsEdges(t *testing.T) {
	a := assert.New(t)
	const old = 0x1234_5678
	a.Equal(uint32(old), ReplaceFields(old, 0, 3), "empty mask leaves register unchanged")
	a.Equal(uint32(0xAAAAAAAA), ReplaceFields(old, 0xFFFF, 2), "full mask replaces every field")
}

func TestReplaceFieldsRandomized(t *testing.T) {
	rnd := rand.New(rand.NewSource(0x1986BE9))
	reg := rnd.Uint32()

	for i := 0; i < 4000; i++ {
		mask := DataT(rnd.Intn(1 << Width))
		field := uint32(rnd.Intn(4))

		next := ReplaceFields(reg, mask, field)
		for pin := uint(0); pin < Width; pin++ {
			before := reg >> (2 * pin) & 3
			after := next >> (2 * pin) & 3
			if mask&(1<<pin) != 0 {
				require.Equal(t, field, after, "pin %d of mask 0x%04x", pin, mask)
			} else {
				require.Equal(t, before, after, "untouched pin %d of mask 0x%04x", pin, mask)
			}
		}
		reg = next
	}
}
