package packet

import "bytes"

// LoginStart begins the login exchange with the player's username.
type LoginStart struct {
	Username string
}

// ID ...
func (pk *LoginStart) ID() int32 {
	return IDLoginStart
}

// Encode ...
func (pk *LoginStart) Encode(buf *bytes.Buffer) {
	WriteString(buf, pk.Username)
}

// Decode ...
func (pk *LoginStart) Decode(buf *bytes.Buffer) (err error) {
	pk.Username, err = ReadString(buf)
	return err
}

// LoginSuccess completes the login exchange and moves the connection into
// the play state.
type LoginSuccess struct {
	UUID     string
	Username string
}

// ID ...
func (pk *LoginSuccess) ID() int32 {
	return IDLoginSuccess
}

// Encode ...
func (pk *LoginSuccess) Encode(buf *bytes.Buffer) {
	WriteString(buf, pk.UUID)
	WriteString(buf, pk.Username)
}

// Decode ...
func (pk *LoginSuccess) Decode(buf *bytes.Buffer) (err error) {
	if pk.UUID, err = ReadString(buf); err != nil {
		return err
	}
	pk.Username, err = ReadString(buf)
	return err
}

// LoginDisconnect rejects a login attempt with a JSON chat reason.
type LoginDisconnect struct {
	Reason string
}

// ID ...
func (pk *LoginDisconnect) ID() int32 {
	return IDLoginDisconnect
}

// Encode ...
func (pk *LoginDisconnect) Encode(buf *bytes.Buffer) {
	WriteString(buf, pk.Reason)
}

// Decode ...
func (pk *LoginDisconnect) Decode(buf *bytes.Buffer) (err error) {
	pk.Reason, err = ReadString(buf)
	return err
}
