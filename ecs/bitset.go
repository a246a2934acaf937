package ecs

import "math/bits"

const bitsetWords = (MaxComponents + 63) / 64

// ComponentBitSet records which component type identifiers an entity holds.
type ComponentBitSet [bitsetWords]uint64

// Set marks id as present.
func (b *ComponentBitSet) Set(id ComponentTypeID) {
	b[id>>6] |= 1 << (id & 63)
}

// Clear marks id as absent.
func (b *ComponentBitSet) Clear(id ComponentTypeID) {
	b[id>>6] &^= 1 << (id & 63)
}

// Test reports whether id is present.
func (b ComponentBitSet) Test(id ComponentTypeID) bool {
	if int(id) >= MaxComponents {
		return false
	}
	return b[id>>6]&(1<<(id&63)) != 0
}

// Contains reports whether every bit set in sub is also set in b.
func (b ComponentBitSet) Contains(sub ComponentBitSet) bool {
	for i := range b {
		if b[i]&sub[i] != sub[i] {
			return false
		}
	}
	return true
}

// Count returns the number of bits set.
func (b ComponentBitSet) Count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

// IsEmpty reports whether no bits are set.
func (b ComponentBitSet) IsEmpty() bool {
	return b == ComponentBitSet{}
}

// Reset clears every bit.
func (b *ComponentBitSet) Reset() {
	*b = ComponentBitSet{}
}

// IDs returns the identifiers present, in ascending order.
func (b ComponentBitSet) IDs() []ComponentTypeID {
	ids := make([]ComponentTypeID, 0, b.Count())
	for i, w := range b {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			ids = append(ids, ComponentTypeID(i*64+bit))
			w &= w - 1
		}
	}
	return ids
}
