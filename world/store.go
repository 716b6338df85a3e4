// Package world keeps the client-side record of loaded chunk columns. It is
// a consumer of decoded chunk data, not part of the wire path: the session
// feeds it and the application reads from it.
package world

import (
	"sync"

	"github.com/golang/snappy"

	"github.com/quartzmc/quartz/chunk"
)

// Key packs chunk coordinates into a single map key.
func Key(x, z int32) int64 {
	return int64(x)<<32 | int64(uint32(z))
}

// Store holds decoded chunk columns keyed by position, alongside a
// snappy-compressed copy of each column's raw wire payload for replay and
// offline inspection. All methods are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	columns map[int64]*chunk.Column
	raw     map[int64][]byte
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		columns: make(map[int64]*chunk.Column),
		raw:     make(map[int64][]byte),
	}
}

// Put records a decoded column. A column with Full unset is a delta: its
// sections are merged over the stored column instead of replacing it, and
// the cached raw payload is dropped since it no longer describes the merged
// result. rawPayload may be nil; when present on a full column it is stored
// compressed and can be recovered with RawPayload.
func (s *Store) Put(column *chunk.Column, rawPayload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(column.X, column.Z)
	if !column.Full {
		if existing, ok := s.columns[key]; ok {
			column = mergeColumns(existing, column)
		}
		s.columns[key] = column
		delete(s.raw, key)
		return
	}

	s.columns[key] = column
	if rawPayload != nil {
		s.raw[key] = snappy.Encode(nil, rawPayload)
	}
}

// mergeColumns overlays the sections of a delta column onto a base column,
// keeping sections the delta does not carry.
func mergeColumns(base, delta *chunk.Column) *chunk.Column {
	merged := &chunk.Column{X: base.X, Z: base.Z, Full: base.Full, Mask: base.Mask | delta.Mask}
	for _, y := range chunk.SectionYs(merged.Mask) {
		if section := delta.Section(y); section != nil {
			merged.Sections = append(merged.Sections, section)
		} else if section := base.Section(y); section != nil {
			merged.Sections = append(merged.Sections, section)
		}
	}
	return merged
}

// Column returns the column at the given chunk coordinates.
func (s *Store) Column(x, z int32) (*chunk.Column, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	column, ok := s.columns[Key(x, z)]
	return column, ok
}

// RawPayload returns the decompressed wire payload of the column at the
// given chunk coordinates, if it was stored.
func (s *Store) RawPayload(x, z int32) ([]byte, bool) {
	s.mu.RLock()
	compressed, ok := s.raw[Key(x, z)]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Remove forgets the column at the given chunk coordinates.
func (s *Store) Remove(x, z int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := Key(x, z)
	delete(s.columns, key)
	delete(s.raw, key)
}

// Len returns the number of loaded columns.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.columns)
}

// BlockAt resolves the block state at absolute world coordinates. Unloaded
// chunks and empty sections read as air.
func (s *Store) BlockAt(x, y, z int) chunk.BlockState {
	if y < 0 || y >= chunk.SectionsPerColumn*chunk.SectionHeight {
		return chunk.StateAir
	}

	column, ok := s.Column(int32(x>>4), int32(z>>4))
	if !ok {
		return chunk.StateAir
	}

	section := column.Section(uint8(y >> 4))
	if section == nil {
		return chunk.StateAir
	}
	return section.At(x&15, y&15, z&15)
}
