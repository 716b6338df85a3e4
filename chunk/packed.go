package chunk

// packedArray is a vector of unsigned integers packed at a fixed bit width
// into 64-bit words. Entry 0 occupies the least significant bits of word 0,
// entry 1 the next group up, and so on; when the width does not divide 64 an
// entry spans into the low bits of the following word.
type packedArray struct {
	words        []uint64
	length       int
	bitsPerEntry uint
}

// newPackedArray validates that words can hold length entries of the given
// width. Widths outside [1, 32] are rejected.
func newPackedArray(words []uint64, length int, bitsPerEntry uint) (*packedArray, bool) {
	if bitsPerEntry == 0 || bitsPerEntry > 32 {
		return nil, false
	}
	if length*int(bitsPerEntry) > len(words)*64 {
		return nil, false
	}
	return &packedArray{words: words, length: length, bitsPerEntry: bitsPerEntry}, true
}

// get returns entry i. The caller guarantees i < length.
func (p *packedArray) get(i int) uint32 {
	bit := i * int(p.bitsPerEntry)
	word := bit / 64
	offset := uint(bit % 64)

	mask := uint64(1)<<p.bitsPerEntry - 1
	v := p.words[word] >> offset

	if offset+p.bitsPerEntry > 64 {
		// Entry continues in the low bits of the next word.
		read := 64 - offset
		v |= p.words[word+1] << read
	}
	return uint32(v & mask)
}
