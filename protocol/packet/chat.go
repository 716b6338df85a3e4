package packet

import "bytes"

// Chat message positions.
const (
	ChatPositionChat     uint8 = 0
	ChatPositionSystem   uint8 = 1
	ChatPositionGameInfo uint8 = 2
)

// ChatMessage is a clientbound chat or system message carried as a JSON
// chat component.
type ChatMessage struct {
	JSON     string
	Position uint8
}

// ID ...
func (pk *ChatMessage) ID() int32 {
	return IDChatMessage
}

// Encode ...
func (pk *ChatMessage) Encode(buf *bytes.Buffer) {
	WriteString(buf, pk.JSON)
	buf.WriteByte(pk.Position)
}

// Decode ...
func (pk *ChatMessage) Decode(buf *bytes.Buffer) (err error) {
	if pk.JSON, err = ReadString(buf); err != nil {
		return err
	}
	pk.Position, err = ReadUint8(buf)
	return err
}

// ChatSend is a serverbound chat message as typed by the player.
type ChatSend struct {
	Message string
}

// ID ...
func (pk *ChatSend) ID() int32 {
	return IDChatSend
}

// Encode ...
func (pk *ChatSend) Encode(buf *bytes.Buffer) {
	WriteString(buf, pk.Message)
}

// Decode ...
func (pk *ChatSend) Decode(buf *bytes.Buffer) (err error) {
	pk.Message, err = ReadString(buf)
	return err
}
