package packet

import (
	"bytes"

	"github.com/quartzmc/quartz/protocol"
)

// Handshake is the first packet of every connection. NextState selects
// whether the connection proceeds to status or login.
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       int32
}

// ID ...
func (pk *Handshake) ID() int32 {
	return IDHandshake
}

// Encode ...
func (pk *Handshake) Encode(buf *bytes.Buffer) {
	protocol.WriteVarInt32(buf, pk.ProtocolVersion)
	WriteString(buf, pk.ServerAddress)
	WriteUint16(buf, pk.ServerPort)
	protocol.WriteVarInt32(buf, pk.NextState)
}

// Decode ...
func (pk *Handshake) Decode(buf *bytes.Buffer) (err error) {
	if pk.ProtocolVersion, err = protocol.ReadVarInt32(buf); err != nil {
		return err
	}
	if pk.ServerAddress, err = ReadString(buf); err != nil {
		return err
	}
	if pk.ServerPort, err = ReadUint16(buf); err != nil {
		return err
	}
	pk.NextState, err = protocol.ReadVarInt32(buf)
	return err
}
