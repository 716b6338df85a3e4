package packet

import (
	"bytes"

	"github.com/quartzmc/quartz/protocol"
)

// JoinGame is the first play-state packet, carrying the initial state of the
// player's entity and world.
type JoinGame struct {
	EntityID     int32
	GameMode     uint8
	Dimension    int32
	MaxPlayers   uint8
	LevelType    string
	ViewDistance int32
	ReducedDebug bool
}

// ID ...
func (pk *JoinGame) ID() int32 {
	return IDJoinGame
}

// Encode ...
func (pk *JoinGame) Encode(buf *bytes.Buffer) {
	WriteInt32(buf, pk.EntityID)
	buf.WriteByte(pk.GameMode)
	WriteInt32(buf, pk.Dimension)
	buf.WriteByte(pk.MaxPlayers)
	WriteString(buf, pk.LevelType)
	protocol.WriteVarInt32(buf, pk.ViewDistance)
	WriteBool(buf, pk.ReducedDebug)
}

// Decode ...
func (pk *JoinGame) Decode(buf *bytes.Buffer) (err error) {
	if pk.EntityID, err = ReadInt32(buf); err != nil {
		return err
	}
	if pk.GameMode, err = ReadUint8(buf); err != nil {
		return err
	}
	if pk.Dimension, err = ReadInt32(buf); err != nil {
		return err
	}
	if pk.MaxPlayers, err = ReadUint8(buf); err != nil {
		return err
	}
	if pk.LevelType, err = ReadString(buf); err != nil {
		return err
	}
	if pk.ViewDistance, err = protocol.ReadVarInt32(buf); err != nil {
		return err
	}
	pk.ReducedDebug, err = ReadBool(buf)
	return err
}
