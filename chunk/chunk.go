// Package chunk decodes bit-packed, palette-compressed chunk data into
// indexed block-state grids. The decoder is pure: it holds no state between
// calls and never touches the network.
package chunk

const (
	// SectionWidth is the horizontal extent of a section in blocks.
	SectionWidth = 16
	// SectionHeight is the vertical extent of a section in blocks.
	SectionHeight = 16
	// SectionsPerColumn is the number of vertically stacked sections in a
	// chunk column.
	SectionsPerColumn = 16
	// BlocksPerSection is the total cell count of one section.
	BlocksPerSection = SectionWidth * SectionWidth * SectionHeight
)

// BlockState is a global block-state identifier. Consumers translate it to a
// concrete block description through a Palette lookup; the decoder itself
// never interprets it.
type BlockState uint32

// StateAir is the global identifier of the air block state.
const StateAir BlockState = 0

// Section is a fully decoded 16x16x16 grid of block states. Cells are stored
// in Y-Z-X major order. A Section is immutable once returned by the decoder.
type Section struct {
	// Y is the section's vertical index within its column.
	Y uint8
	// BlockCount is the number of non-air blocks, as declared by the server.
	BlockCount uint16

	states [BlocksPerSection]BlockState
}

// At returns the block state at section-local coordinates. Coordinates must
// be in [0, 16).
func (s *Section) At(x, y, z int) BlockState {
	return s.states[cellIndex(x, y, z)]
}

// cellIndex converts section-local coordinates to a flat Y-Z-X major index.
func cellIndex(x, y, z int) int {
	return y<<8 | z<<4 | x
}

// Column is one decoded chunk column: the sections that were present in the
// wire payload, in increasing Y order.
type Column struct {
	X int32
	Z int32
	// Full reports whether this column replaces the chunk wholesale. When
	// false the sections are a delta against previously loaded data.
	Full bool
	// Mask is the section-presence bitmap, bit i for section y=i.
	Mask uint16

	Sections []*Section
}

// Section returns the decoded section at vertical index y, or nil if the
// column does not carry it.
func (c *Column) Section(y uint8) *Section {
	for _, section := range c.Sections {
		if section.Y == y {
			return section
		}
	}
	return nil
}

// SectionYs returns the Y indices encoded in a presence bitmap, low to high.
func SectionYs(mask uint16) []uint8 {
	ys := make([]uint8, 0, SectionsPerColumn)
	for i := 0; i < SectionsPerColumn; i++ {
		if mask&(1<<i) != 0 {
			ys = append(ys, uint8(i))
		}
	}
	return ys
}
