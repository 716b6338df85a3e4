package packet

import "bytes"

// PlayerPosition updates the server with the player's absolute position.
type PlayerPosition struct {
	X        float64
	Y        float64
	Z        float64
	OnGround bool
}

// ID ...
func (pk *PlayerPosition) ID() int32 {
	return IDPlayerPosition
}

// Encode ...
func (pk *PlayerPosition) Encode(buf *bytes.Buffer) {
	WriteFloat64(buf, pk.X)
	WriteFloat64(buf, pk.Y)
	WriteFloat64(buf, pk.Z)
	WriteBool(buf, pk.OnGround)
}

// Decode ...
func (pk *PlayerPosition) Decode(buf *bytes.Buffer) (err error) {
	if pk.X, err = ReadFloat64(buf); err != nil {
		return err
	}
	if pk.Y, err = ReadFloat64(buf); err != nil {
		return err
	}
	if pk.Z, err = ReadFloat64(buf); err != nil {
		return err
	}
	pk.OnGround, err = ReadBool(buf)
	return err
}
