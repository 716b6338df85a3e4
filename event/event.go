// Package event defines the version-agnostic vocabulary exchanged between
// the application and a protocol backend. Events carry only semantic fields;
// packet IDs and wire layouts never cross this boundary, which is what lets
// one backend be swapped for another without touching application code.
package event

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/quartzmc/quartz/chunk"
)

// Clientbound is implemented by events flowing from the server to the
// application.
type Clientbound interface {
	clientbound()
}

// Serverbound is implemented by intents flowing from the application to the
// server.
type Serverbound interface {
	serverbound()
}

// JoinGame signals a completed login: the player now exists in a world.
type JoinGame struct {
	EntityID int32
	GameMode uint8
}

// ChunkPresence announces one chunk column and which of its sections carry
// data, bit i of Mask for section y=i. The matching ChunkLoad events follow.
type ChunkPresence struct {
	ChunkX int32
	ChunkZ int32
	Mask   uint16
}

// ChunkLoad delivers one decoded chunk section.
type ChunkLoad struct {
	ChunkX   int32
	ChunkZ   int32
	SectionY uint8
	Section  *chunk.Section
}

// EntityMove places an entity at an absolute position.
type EntityMove struct {
	EntityID int32
	Position mgl64.Vec3
}

// ChatMessage is a chat or system message, already flattened to plain text.
type ChatMessage struct {
	Text string
}

// Disconnected reports the end of the connection, whatever the cause. It is
// always the final clientbound event of a connection.
type Disconnected struct {
	Reason string
	Err    error
}

func (JoinGame) clientbound()      {}
func (ChunkPresence) clientbound() {}
func (ChunkLoad) clientbound()     {}
func (EntityMove) clientbound()    {}
func (ChatMessage) clientbound()   {}
func (Disconnected) clientbound()  {}

// PlayerMove reports the player's absolute position.
type PlayerMove struct {
	Position mgl64.Vec3
	OnGround bool
}

// ChatSend submits a chat message.
type ChatSend struct {
	Text string
}

// Disconnect requests a graceful shutdown of the connection.
type Disconnect struct{}

func (PlayerMove) serverbound() {}
func (ChatSend) serverbound()   {}
func (Disconnect) serverbound() {}
