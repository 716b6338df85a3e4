package chunk

// Palette resolves compacted block-state identifiers to global block states.
// Most sections ship their own small palette; sections in direct mode skip
// the indirection and store global identifiers outright.
type Palette interface {
	// StateFor returns the block state for id, or false if id is unknown.
	StateFor(id uint32) (BlockState, bool)
}

// GlobalPalette is the identity palette: every identifier maps to itself.
// It backs direct-mode sections and is a reasonable default when no registry
// is wired in.
type GlobalPalette struct{}

// StateFor ...
func (GlobalPalette) StateFor(id uint32) (BlockState, bool) {
	if id >= 1<<maxDirectBits {
		return 0, false
	}
	return BlockState(id), true
}

// sectionPalette is the per-section indirection table read from the wire: an
// ordered list of states referenced by the packed indices that follow it.
type sectionPalette struct {
	states []BlockState
}

func (p *sectionPalette) StateFor(id uint32) (BlockState, bool) {
	if int(id) >= len(p.states) {
		return 0, false
	}
	return p.states[id], true
}

func (p *sectionPalette) len() int {
	return len(p.states)
}
