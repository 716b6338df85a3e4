// Package session implements the version-specific backend translator for
// protocol 498. It owns the connection state machine, turns inbound wire
// packets into version-agnostic clientbound events, and turns serverbound
// events into wire packets. It is the only package on both sides of the
// version seam: everything above it is protocol-agnostic, everything below
// it is bytes.
package session

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/quartzmc/quartz/chunk"
	"github.com/quartzmc/quartz/event"
	"github.com/quartzmc/quartz/internal"
	"github.com/quartzmc/quartz/network"
	"github.com/quartzmc/quartz/protocol"
	"github.com/quartzmc/quartz/protocol/packet"
	"github.com/quartzmc/quartz/world"
)

// Config carries the per-connection parameters of a session.
type Config struct {
	// Username is the profile name sent during login.
	Username string
	// ServerAddress and ServerPort are echoed in the handshake packet.
	ServerAddress string
	ServerPort    uint16
	// ProtocolVersion is the protocol number declared in the handshake.
	ProtocolVersion int32
	// Palette resolves block-state identifiers during chunk decoding.
	// Defaults to the identity palette.
	Palette chunk.Palette
	// Store, when set, receives every decoded chunk column.
	Store *world.Store
	// CloseOnChunkError closes the connection when a chunk column fails to
	// decode. When false (the default) the bad column is reported and
	// dropped, and the connection stays up.
	CloseOnChunkError bool
}

// Session drives one connection from handshake to disconnect. The state
// machine is advanced only by the inbound loop and by Start/Disconnect;
// the network layer delivers frames without interpreting them.
type Session struct {
	conn   *network.Conn
	bus    *event.Bus
	logger *slog.Logger
	cfg    Config

	state   atomic.Int32
	tracker *Tracker

	loginPool packet.Pool
	playPool  packet.Pool

	entityID      atomic.Int32
	chunksSkipped atomic.Int32

	once sync.Once
}

// New creates a Session over an established connection. Nothing is sent
// until Start is called.
func New(conn *network.Conn, bus *event.Bus, logger *slog.Logger, cfg Config) *Session {
	if cfg.Palette == nil {
		cfg.Palette = chunk.GlobalPalette{}
	}
	return &Session{
		conn:      conn,
		bus:       bus,
		logger:    logger,
		cfg:       cfg,
		tracker:   NewTracker(),
		loginPool: packet.NewClientboundLoginPool(),
		playPool:  packet.NewClientboundPlayPool(),
	}
}

// Start sends the handshake and login packets and launches the inbound and
// outbound loops. The loops run until the connection terminates; ctx cancels
// them early.
func (s *Session) Start(ctx context.Context) error {
	s.setState(StateHandshaking)
	if err := s.sendPacket(&packet.Handshake{
		ProtocolVersion: s.cfg.ProtocolVersion,
		ServerAddress:   s.cfg.ServerAddress,
		ServerPort:      s.cfg.ServerPort,
		NextState:       packet.HandshakeNextLogin,
	}); err != nil {
		s.finish("handshake failed", err)
		return err
	}

	if err := s.sendPacket(&packet.LoginStart{Username: s.cfg.Username}); err != nil {
		s.finish("login failed", err)
		return err
	}
	s.setState(StateLoggingIn)

	go s.handleInbound(ctx)
	go s.handleOutbound(ctx)
	return nil
}

// State returns the connection's current phase.
func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) setState(state State) {
	s.state.Store(int32(state))
}

// EntityID returns the player's own entity identifier, or 0 before the
// server has confirmed the join.
func (s *Session) EntityID() int32 {
	return s.entityID.Load()
}

// Tracker returns the session's bookkeeping of chunks and entities.
func (s *Session) Tracker() *Tracker {
	return s.tracker
}

// ChunksSkipped returns how many chunk columns were dropped because they
// failed to decode.
func (s *Session) ChunksSkipped() int {
	return int(s.chunksSkipped.Load())
}

// Disconnect shuts the session down gracefully.
func (s *Session) Disconnect() {
	s.finish("disconnect requested", nil)
}

// finish terminates the session. Exactly one Disconnected event is emitted
// regardless of how many paths race into it.
func (s *Session) finish(reason string, err error) {
	s.once.Do(func() {
		s.setState(StateClosing)
		if err != nil {
			s.logger.Error("session closed", "reason", reason, "err", err)
		} else {
			s.logger.Debug("session closed", "reason", reason)
		}

		s.conn.Close()
		s.bus.PushClientbound(event.Disconnected{Reason: reason, Err: err})
		s.setState(StateDisconnected)
	})
}

// sendPacket frames a packet (varint ID followed by its body) and hands it
// to the connection's outbound queue.
func (s *Session) sendPacket(pk packet.Packet) error {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		internal.BufferPool.Put(buf)
	}()

	protocol.WriteVarInt32(buf, pk.ID())
	pk.Encode(buf)

	frame := make([]byte, buf.Len())
	copy(frame, buf.Bytes())
	return s.conn.Send(frame)
}
