// Package bitset provides a compact set of instruction positions.
package bitset

// BitSet is a compact set of non-negative positions using a bitmap.
// Sized for dense sets such as "positions targeted by a branch".
type BitSet struct {
	bits []uint64
}

// New creates a BitSet that can hold positions up to maxPos (inclusive)
// without growing.
func New(maxPos int) *BitSet {
	if maxPos < 0 {
		maxPos = 0
	}
	words := (maxPos + 64) / 64
	return &BitSet{bits: make([]uint64, words)}
}

// Set adds pos to the set. Negative positions are ignored.
func (b *BitSet) Set(pos int) {
	if pos < 0 {
		return
	}
	word := pos / 64
	if word >= len(b.bits) {
		b.grow(word + 1)
	}
	b.bits[word] |= 1 << (uint(pos) % 64)
}

// Clear removes pos from the set.
func (b *BitSet) Clear(pos int) {
	if pos < 0 {
		return
	}
	word := pos / 64
	if word < len(b.bits) {
		b.bits[word] &^= 1 << (uint(pos) % 64)
	}
}

// Has returns true if pos is in the set.
func (b *BitSet) Has(pos int) bool {
	if pos < 0 {
		return false
	}
	word := pos / 64
	if word >= len(b.bits) {
		return false
	}
	return b.bits[word]&(1<<(uint(pos)%64)) != 0
}

// FirstIn returns the smallest member in [from, to), if any.
func (b *BitSet) FirstIn(from, to int) (int, bool) {
	if from < 0 {
		from = 0
	}
	for pos := from; pos < to; pos++ {
		word := pos / 64
		if word >= len(b.bits) {
			return 0, false
		}
		// skip empty words
		if b.bits[word] == 0 {
			pos = (word+1)*64 - 1
			continue
		}
		if b.Has(pos) {
			return pos, true
		}
	}
	return 0, false
}

// Reset clears all elements from the set.
func (b *BitSet) Reset() {
	for i := range b.bits {
		b.bits[i] = 0
	}
}

// ToSlice returns sorted slice of all positions in the set.
func (b *BitSet) ToSlice() []int {
	var result []int
	for i, word := range b.bits {
		if word == 0 {
			continue
		}
		base := i * 64
		for bit := 0; bit < 64; bit++ {
			if word&(1<<bit) != 0 {
				result = append(result, base+bit)
			}
		}
	}
	return result
}

// Count returns the number of elements in the set.
func (b *BitSet) Count() int {
	count := 0
	for _, word := range b.bits {
		count += popcount(word)
	}
	return count
}

// grow expands the bitset to n words.
// Callers guarantee n > len(b.bits).
func (b *BitSet) grow(n int) {
	newBits := make([]uint64, n)
	copy(newBits, b.bits)
	b.bits = newBits
}

// popcount returns number of 1 bits in x (Hamming weight).
func popcount(x uint64) int {
	// Brian Kernighan's algorithm
	count := 0
	for x != 0 {
		x &= x - 1
		count++
	}
	return count
}
