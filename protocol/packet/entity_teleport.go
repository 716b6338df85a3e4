package packet

import (
	"bytes"

	"github.com/quartzmc/quartz/protocol"
)

// EntityTeleport moves an entity to an absolute position.
type EntityTeleport struct {
	EntityID int32
	X        float64
	Y        float64
	Z        float64
	Yaw      uint8
	Pitch    uint8
	OnGround bool
}

// ID ...
func (pk *EntityTeleport) ID() int32 {
	return IDEntityTeleport
}

// Encode ...
func (pk *EntityTeleport) Encode(buf *bytes.Buffer) {
	protocol.WriteVarInt32(buf, pk.EntityID)
	WriteFloat64(buf, pk.X)
	WriteFloat64(buf, pk.Y)
	WriteFloat64(buf, pk.Z)
	buf.WriteByte(pk.Yaw)
	buf.WriteByte(pk.Pitch)
	WriteBool(buf, pk.OnGround)
}

// Decode ...
func (pk *EntityTeleport) Decode(buf *bytes.Buffer) (err error) {
	if pk.EntityID, err = protocol.ReadVarInt32(buf); err != nil {
		return err
	}
	if pk.X, err = ReadFloat64(buf); err != nil {
		return err
	}
	if pk.Y, err = ReadFloat64(buf); err != nil {
		return err
	}
	if pk.Z, err = ReadFloat64(buf); err != nil {
		return err
	}
	if pk.Yaw, err = ReadUint8(buf); err != nil {
		return err
	}
	if pk.Pitch, err = ReadUint8(buf); err != nil {
		return err
	}
	pk.OnGround, err = ReadBool(buf)
	return err
}
