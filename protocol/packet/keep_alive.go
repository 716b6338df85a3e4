package packet

import "bytes"

// KeepAlive is sent periodically by the server; the client must echo the
// payload back with KeepAliveServer or be kicked.
type KeepAlive struct {
	Payload int64
}

// ID ...
func (pk *KeepAlive) ID() int32 {
	return IDKeepAlive
}

// Encode ...
func (pk *KeepAlive) Encode(buf *bytes.Buffer) {
	WriteInt64(buf, pk.Payload)
}

// Decode ...
func (pk *KeepAlive) Decode(buf *bytes.Buffer) (err error) {
	pk.Payload, err = ReadInt64(buf)
	return err
}

// KeepAliveServer is the serverbound echo of a KeepAlive payload.
type KeepAliveServer struct {
	Payload int64
}

// ID ...
func (pk *KeepAliveServer) ID() int32 {
	return IDKeepAliveServer
}

// Encode ...
func (pk *KeepAliveServer) Encode(buf *bytes.Buffer) {
	WriteInt64(buf, pk.Payload)
}

// Decode ...
func (pk *KeepAliveServer) Decode(buf *bytes.Buffer) (err error) {
	pk.Payload, err = ReadInt64(buf)
	return err
}
