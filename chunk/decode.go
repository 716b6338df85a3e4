package chunk

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/quartzmc/quartz/protocol"
)

const (
	// minIndexBits is the narrowest width used for palette indices. The
	// protocol clamps any declared width below this up to it.
	minIndexBits = 4
	// maxIndexBits is the widest width for which a section palette is used;
	// beyond it the section switches to direct mode.
	maxIndexBits = 8
	// maxDirectBits is the width of a direct-mode entry, wide enough for
	// every global block state.
	maxDirectBits = 14
)

// DecodeError describes a failure to decode a chunk section. Cell, Index and
// PaletteLen are populated when a packed index referenced a state outside
// the section's palette; Cause is set for truncated or malformed payloads.
type DecodeError struct {
	SectionY   uint8
	Cell       int
	Index      uint32
	PaletteLen int
	Cause      error
}

// Error ...
func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("chunk: section %d: %v", e.SectionY, e.Cause)
	}
	return fmt.Sprintf("chunk: section %d: cell %d has palette index %d, palette holds %d entries",
		e.SectionY, e.Cell, e.Index, e.PaletteLen)
}

// Unwrap ...
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

func truncated(y uint8, err error) *DecodeError {
	return &DecodeError{SectionY: y, Cell: -1, Cause: err}
}

// DecodeColumn decodes the section payload of one chunk column. mask marks
// the sections present in data, bit 0 for the lowest section; sections are
// decoded in increasing Y order. global resolves direct-mode identifiers and
// section palette entries; pass GlobalPalette{} for untranslated states.
//
// Decoding stops at the first invalid section and reports it; DecodeColumn
// never panics on malformed input.
func DecodeColumn(x, z int32, full bool, mask uint16, data []byte, global Palette) (*Column, error) {
	buf := bytes.NewBuffer(data)
	column := &Column{X: x, Z: z, Full: full, Mask: mask}

	for _, y := range SectionYs(mask) {
		section, err := decodeSection(y, buf, global)
		if err != nil {
			return nil, err
		}
		column.Sections = append(column.Sections, section)
	}
	return column, nil
}

// decodeSection decodes a single 16x16x16 section: block count, bit width,
// optional palette, then the packed index array.
func decodeSection(y uint8, buf *bytes.Buffer, global Palette) (*Section, error) {
	var blockCount uint16
	if err := binary.Read(buf, binary.BigEndian, &blockCount); err != nil {
		return nil, truncated(y, fmt.Errorf("block count: %w", err))
	}

	bitsPerEntry, err := buf.ReadByte()
	if err != nil {
		return nil, truncated(y, fmt.Errorf("bits per entry: %w", err))
	}

	section := &Section{Y: y, BlockCount: blockCount}
	switch {
	case bitsPerEntry == 0:
		err = decodeSingleValue(section, buf, global)
	case bitsPerEntry <= maxIndexBits:
		err = decodePaletted(section, buf, bitsPerEntry, global)
	default:
		err = decodeDirect(section, buf, global)
	}
	if err != nil {
		return nil, err
	}
	return section, nil
}

// decodeSingleValue handles the zero-width encoding: one palette entry and
// no index data, every cell resolving to the lone entry.
func decodeSingleValue(section *Section, buf *bytes.Buffer, global Palette) error {
	id, err := protocol.ReadVarInt32(buf)
	if err != nil {
		return truncated(section.Y, fmt.Errorf("single-value entry: %w", err))
	}

	state, ok := global.StateFor(uint32(id))
	if !ok {
		return &DecodeError{SectionY: section.Y, Cell: 0, Index: uint32(id), PaletteLen: 1}
	}

	if _, err := readDataWords(buf); err != nil {
		return truncated(section.Y, err)
	}

	for i := range section.states {
		section.states[i] = state
	}
	return nil
}

// decodePaletted handles the indirect encoding: a per-section palette
// followed by packed palette indices.
func decodePaletted(section *Section, buf *bytes.Buffer, bitsPerEntry byte, global Palette) error {
	// Any declared width below the minimum is read at the minimum.
	if bitsPerEntry < minIndexBits {
		bitsPerEntry = minIndexBits
	}

	count, err := protocol.ReadVarInt32(buf)
	if err != nil {
		return truncated(section.Y, fmt.Errorf("palette length: %w", err))
	}
	if count < 0 || count > 1<<maxIndexBits {
		return truncated(section.Y, fmt.Errorf("palette length %d out of range", count))
	}

	palette := &sectionPalette{states: make([]BlockState, 0, count)}
	for i := int32(0); i < count; i++ {
		id, err := protocol.ReadVarInt32(buf)
		if err != nil {
			return truncated(section.Y, fmt.Errorf("palette entry %d: %w", i, err))
		}
		state, ok := global.StateFor(uint32(id))
		if !ok {
			return &DecodeError{SectionY: section.Y, Cell: -1, Index: uint32(id), PaletteLen: palette.len()}
		}
		palette.states = append(palette.states, state)
	}

	return unpackStates(section, buf, uint(bitsPerEntry), palette, palette.len())
}

// decodeDirect handles the palette-free encoding where each cell stores a
// global block-state identifier at a fixed width.
func decodeDirect(section *Section, buf *bytes.Buffer, global Palette) error {
	return unpackStates(section, buf, maxDirectBits, global, 1<<maxDirectBits)
}

// unpackStates reads the packed index array and resolves every cell through
// the palette, failing on the first out-of-range index.
func unpackStates(section *Section, buf *bytes.Buffer, bitsPerEntry uint, palette Palette, paletteLen int) error {
	words, err := readDataWords(buf)
	if err != nil {
		return truncated(section.Y, err)
	}

	packed, ok := newPackedArray(words, BlocksPerSection, bitsPerEntry)
	if !ok {
		return truncated(section.Y, fmt.Errorf("data array holds %d words, too few for %d entries of %d bits",
			len(words), BlocksPerSection, bitsPerEntry))
	}

	for i := 0; i < BlocksPerSection; i++ {
		index := packed.get(i)
		state, ok := palette.StateFor(index)
		if !ok {
			return &DecodeError{SectionY: section.Y, Cell: i, Index: index, PaletteLen: paletteLen}
		}
		section.states[i] = state
	}
	return nil
}

// readDataWords reads the varint-prefixed array of big-endian 64-bit words.
func readDataWords(buf *bytes.Buffer) ([]uint64, error) {
	count, err := protocol.ReadVarInt32(buf)
	if err != nil {
		return nil, fmt.Errorf("data array length: %w", err)
	}
	if count < 0 || int(count)*8 > buf.Len() {
		return nil, fmt.Errorf("data array declares %d words, %d bytes remain", count, buf.Len())
	}

	words := make([]uint64, count)
	for i := range words {
		words[i] = binary.BigEndian.Uint64(buf.Next(8))
	}
	return words, nil
}
