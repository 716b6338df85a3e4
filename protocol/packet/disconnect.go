package packet

import "bytes"

// Disconnect kicks the player from the server with a JSON chat reason.
type Disconnect struct {
	Reason string
}

// ID ...
func (pk *Disconnect) ID() int32 {
	return IDDisconnect
}

// Encode ...
func (pk *Disconnect) Encode(buf *bytes.Buffer) {
	WriteString(buf, pk.Reason)
}

// Decode ...
func (pk *Disconnect) Decode(buf *bytes.Buffer) (err error) {
	pk.Reason, err = ReadString(buf)
	return err
}
