package session

import (
	"github.com/scylladb/go-set/i32set"
	"github.com/scylladb/go-set/i64set"

	"github.com/quartzmc/quartz/world"
)

// Tracker records what the server has made the client aware of: loaded
// chunk columns and known entities. It is fed during translation and lets
// the application ask cheap bookkeeping questions without replaying events.
type Tracker struct {
	chunks   *i64set.Set
	entities *i32set.Set
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		chunks:   i64set.New(),
		entities: i32set.New(),
	}
}

func (t *Tracker) addChunk(x, z int32) {
	t.chunks.Add(world.Key(x, z))
}

func (t *Tracker) observeEntity(id int32) {
	t.entities.Add(id)
}

// Chunks returns the number of chunk columns the server has delivered.
func (t *Tracker) Chunks() int {
	return t.chunks.Size()
}

// HasChunk reports whether the column at the given chunk coordinates has
// been delivered.
func (t *Tracker) HasChunk(x, z int32) bool {
	return t.chunks.Has(world.Key(x, z))
}

// Entities returns the number of distinct entities observed this session.
func (t *Tracker) Entities() int {
	return t.entities.Size()
}
