package session

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/quartzmc/quartz/chunk"
	"github.com/quartzmc/quartz/event"
	"github.com/quartzmc/quartz/protocol"
	"github.com/quartzmc/quartz/protocol/packet"
)

// handleFrame runs one inbound frame through the state machine. A returned
// error is terminal for the session.
func (s *Session) handleFrame(frame []byte) error {
	buf := bytes.NewBuffer(frame)
	id, err := protocol.ReadVarInt32(buf)
	if err != nil {
		return fmt.Errorf("read packet id: %w", err)
	}

	switch state := s.State(); state {
	case StateHandshaking:
		// Nothing is clientbound before login begins.
		return &UnexpectedMessageError{State: state, PacketID: id}
	case StateLoggingIn:
		return s.handleLogin(id, buf)
	case StatePlaying:
		return s.handlePlay(id, buf)
	default:
		// Frames racing a shutdown are dropped.
		return nil
	}
}

func (s *Session) handleLogin(id int32, buf *bytes.Buffer) error {
	factory, ok := s.loginPool[id]
	if !ok {
		return &UnexpectedMessageError{State: StateLoggingIn, PacketID: id}
	}

	pk := factory()
	if err := pk.Decode(buf); err != nil {
		return fmt.Errorf("decode packet 0x%02X: %w", id, err)
	}

	switch pk := pk.(type) {
	case *packet.LoginSuccess:
		s.logger.Debug("login succeeded", "uuid", pk.UUID, "username", pk.Username)
		s.setState(StatePlaying)
	case *packet.LoginDisconnect:
		s.finish(flattenChat(pk.Reason), nil)
	}
	return nil
}

func (s *Session) handlePlay(id int32, buf *bytes.Buffer) error {
	factory, ok := s.playPool[id]
	if !ok {
		// The play packet set is open ended; packets this backend does not
		// model are skipped rather than treated as violations.
		s.logger.Debug("skipping unhandled packet", "id", id)
		return nil
	}

	pk := factory()
	if err := pk.Decode(buf); err != nil {
		return fmt.Errorf("decode packet 0x%02X: %w", id, err)
	}

	switch pk := pk.(type) {
	case *packet.JoinGame:
		s.entityID.Store(pk.EntityID)
		s.bus.PushClientbound(event.JoinGame{EntityID: pk.EntityID, GameMode: pk.GameMode})
	case *packet.KeepAlive:
		return s.sendPacket(&packet.KeepAliveServer{Payload: pk.Payload})
	case *packet.ChatMessage:
		s.bus.PushClientbound(event.ChatMessage{Text: flattenChat(pk.JSON)})
	case *packet.EntityTeleport:
		s.tracker.observeEntity(pk.EntityID)
		s.bus.PushClientbound(event.EntityMove{
			EntityID: pk.EntityID,
			Position: mgl64.Vec3{pk.X, pk.Y, pk.Z},
		})
	case *packet.ChunkData:
		return s.handleChunkData(pk)
	case *packet.Disconnect:
		s.finish(flattenChat(pk.Reason), nil)
	}
	return nil
}

// handleChunkData decodes a chunk column and fans it out as one presence
// event plus one load event per section. A column that fails to decode is
// reported and dropped; whether that also closes the connection is decided
// by the CloseOnChunkError policy, not buried here.
func (s *Session) handleChunkData(pk *packet.ChunkData) error {
	// The section mask is a 16-bit bitmap carried in a varint; anything
	// wider marks the column as malformed.
	if pk.Mask&^0xFFFF != 0 {
		s.chunksSkipped.Add(1)
		s.logger.Error("dropping chunk column with malformed section mask", "x", pk.X, "z", pk.Z, "mask", pk.Mask)
		if s.cfg.CloseOnChunkError {
			return fmt.Errorf("chunk (%d, %d): section mask %#x exceeds 16 bits", pk.X, pk.Z, pk.Mask)
		}
		return nil
	}

	column, err := chunk.DecodeColumn(pk.X, pk.Z, pk.FullChunk, uint16(pk.Mask), pk.Data, s.cfg.Palette)
	if err != nil {
		s.chunksSkipped.Add(1)
		s.logger.Error("dropping undecodable chunk column", "x", pk.X, "z", pk.Z, "err", err)
		if s.cfg.CloseOnChunkError {
			return fmt.Errorf("chunk (%d, %d): %w", pk.X, pk.Z, err)
		}
		return nil
	}

	if s.cfg.Store != nil {
		s.cfg.Store.Put(column, pk.Data)
	}
	s.tracker.addChunk(pk.X, pk.Z)

	s.bus.PushClientbound(event.ChunkPresence{ChunkX: pk.X, ChunkZ: pk.Z, Mask: column.Mask})
	for _, section := range column.Sections {
		s.bus.PushClientbound(event.ChunkLoad{
			ChunkX:   pk.X,
			ChunkZ:   pk.Z,
			SectionY: section.Y,
			Section:  section,
		})
	}
	return nil
}

// translateServerbound maps one application intent to its wire packet.
func (s *Session) translateServerbound(ev event.Serverbound) error {
	if s.State() != StatePlaying {
		s.logger.Debug("dropping serverbound event outside play state", "state", s.State())
		return nil
	}

	switch ev := ev.(type) {
	case event.PlayerMove:
		return s.sendPacket(&packet.PlayerPosition{
			X:        ev.Position.X(),
			Y:        ev.Position.Y(),
			Z:        ev.Position.Z(),
			OnGround: ev.OnGround,
		})
	case event.ChatSend:
		return s.sendPacket(&packet.ChatSend{Message: ev.Text})
	}
	return nil
}

// flattenChat reduces a JSON chat component to plain text, concatenating the
// text of the component and its extra children. Non-JSON input is returned
// as is.
func flattenChat(raw string) string {
	var component any
	if err := json.Unmarshal([]byte(raw), &component); err != nil {
		return raw
	}
	return flattenComponent(component)
}

func flattenComponent(component any) string {
	switch c := component.(type) {
	case string:
		return c
	case []any:
		var out string
		for _, child := range c {
			out += flattenComponent(child)
		}
		return out
	case map[string]any:
		out, _ := c["text"].(string)
		if extra, ok := c["extra"].([]any); ok {
			for _, child := range extra {
				out += flattenComponent(child)
			}
		}
		return out
	}
	return ""
}
