package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/quartzmc/quartz/event"
	"github.com/quartzmc/quartz/network"
	"github.com/quartzmc/quartz/protocol"
	"github.com/quartzmc/quartz/protocol/packet"
	"github.com/quartzmc/quartz/world"
)

type pipeTransport struct {
	conn net.Conn
}

func (p pipeTransport) Dial(_ context.Context, _ string) (io.ReadWriteCloser, error) {
	return p.conn, nil
}

// fakeServer speaks the server side of the wire over a net.Pipe.
type fakeServer struct {
	t      *testing.T
	conn   net.Conn
	reader *protocol.Reader
	writer *protocol.Writer
}

func (f *fakeServer) readPacket() (int32, *bytes.Buffer) {
	f.t.Helper()
	frame, err := f.reader.ReadFrame()
	if err != nil {
		f.t.Fatalf("server read: %v", err)
	}
	buf := bytes.NewBuffer(frame)
	id, err := protocol.ReadVarInt32(buf)
	if err != nil {
		f.t.Fatalf("server read packet id: %v", err)
	}
	return id, buf
}

func (f *fakeServer) writePacket(pk packet.Packet) {
	f.t.Helper()
	buf := &bytes.Buffer{}
	protocol.WriteVarInt32(buf, pk.ID())
	pk.Encode(buf)
	if err := f.writer.WriteFrame(buf.Bytes()); err != nil {
		f.t.Fatalf("server write: %v", err)
	}
}

func (f *fakeServer) writeRawPacket(id int32, body []byte) {
	f.t.Helper()
	buf := &bytes.Buffer{}
	protocol.WriteVarInt32(buf, id)
	buf.Write(body)
	if err := f.writer.WriteFrame(buf.Bytes()); err != nil {
		f.t.Fatalf("server write: %v", err)
	}
}

func startSession(t *testing.T, cfg Config) (*Session, *event.Bus, *fakeServer) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { _ = server.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	conn, err := network.Dial(context.Background(), "test:25565", pipeTransport{conn: client}, logger)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(conn.Close)

	if cfg.Username == "" {
		cfg.Username = "tester"
	}
	if cfg.ProtocolVersion == 0 {
		cfg.ProtocolVersion = 498
	}

	bus := event.NewBus(64)
	sess := New(conn, bus, logger, cfg)
	if err := sess.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	return sess, bus, &fakeServer{
		t:      t,
		conn:   server,
		reader: protocol.NewReader(server),
		writer: protocol.NewWriter(server),
	}
}

// completeLogin consumes the handshake and login start packets and answers
// with a login success, leaving the session in the play state.
func completeLogin(t *testing.T, sess *Session, srv *fakeServer) {
	t.Helper()

	id, buf := srv.readPacket()
	if id != packet.IDHandshake {
		t.Fatalf("first packet id = 0x%02X, want handshake", id)
	}
	handshake := &packet.Handshake{}
	if err := handshake.Decode(buf); err != nil {
		t.Fatalf("decode handshake: %v", err)
	}
	if handshake.ProtocolVersion != 498 || handshake.NextState != packet.HandshakeNextLogin {
		t.Fatalf("handshake = %+v", handshake)
	}

	id, buf = srv.readPacket()
	if id != packet.IDLoginStart {
		t.Fatalf("second packet id = 0x%02X, want login start", id)
	}
	login := &packet.LoginStart{}
	if err := login.Decode(buf); err != nil {
		t.Fatalf("decode login start: %v", err)
	}
	if login.Username != "tester" {
		t.Fatalf("login username = %q", login.Username)
	}

	srv.writePacket(&packet.LoginSuccess{UUID: "00000000-0000-0000-0000-000000000000", Username: login.Username})
	waitForState(t, sess, StatePlaying)
}

func waitForState(t *testing.T, sess *Session, want State) {
	t.Helper()
	deadline := time.Now().Add(time.Second * 5)
	for sess.State() != want {
		if time.Now().After(deadline) {
			t.Fatalf("state = %s, want %s", sess.State(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func waitEvent(t *testing.T, bus *event.Bus) event.Clientbound {
	t.Helper()
	select {
	case ev := <-bus.PollClientbound():
		return ev
	case <-time.After(time.Second * 5):
		t.Fatal("no clientbound event arrived")
		return nil
	}
}

// singleValueSection encodes a section in which every cell holds state.
func singleValueSection(state byte) []byte {
	// block count 4096, zero bits per entry, one palette entry, no words.
	return []byte{0x10, 0x00, 0x00, state, 0x00}
}

func TestSessionLoginAndJoin(t *testing.T) {
	sess, bus, srv := startSession(t, Config{})
	completeLogin(t, sess, srv)

	srv.writePacket(&packet.JoinGame{EntityID: 42, GameMode: 1, LevelType: "default", ViewDistance: 10})

	ev, ok := waitEvent(t, bus).(event.JoinGame)
	if !ok || ev.EntityID != 42 || ev.GameMode != 1 {
		t.Errorf("event = %+v", ev)
	}
	if got := sess.EntityID(); got != 42 {
		t.Errorf("EntityID = %d, want 42", got)
	}
}

func TestSessionChunkFanout(t *testing.T) {
	store := world.NewStore()
	sess, bus, srv := startSession(t, Config{Store: store})
	completeLogin(t, sess, srv)

	data := append(singleValueSection(1), singleValueSection(2)...)
	srv.writePacket(&packet.ChunkData{X: 5, Z: -9, FullChunk: true, Mask: 0b11, Data: data})

	presence, ok := waitEvent(t, bus).(event.ChunkPresence)
	if !ok || presence.ChunkX != 5 || presence.ChunkZ != -9 || presence.Mask != 0b11 {
		t.Fatalf("presence = %+v", presence)
	}

	for i, wantState := range []uint32{1, 2} {
		load, ok := waitEvent(t, bus).(event.ChunkLoad)
		if !ok || load.SectionY != uint8(i) {
			t.Fatalf("load %d = %+v", i, load)
		}
		if got := load.Section.At(0, 0, 0); uint32(got) != wantState {
			t.Errorf("section %d decodes to %d, want %d", i, got, wantState)
		}
	}

	if !sess.Tracker().HasChunk(5, -9) {
		t.Error("tracker missing delivered chunk")
	}
	if _, ok := store.Column(5, -9); !ok {
		t.Error("store missing delivered chunk")
	}
}

func TestSessionKeepAliveEcho(t *testing.T) {
	sess, _, srv := startSession(t, Config{})
	completeLogin(t, sess, srv)

	srv.writePacket(&packet.KeepAlive{Payload: 991199})

	id, buf := srv.readPacket()
	if id != packet.IDKeepAliveServer {
		t.Fatalf("echo id = 0x%02X, want keep alive", id)
	}
	echo := &packet.KeepAliveServer{}
	if err := echo.Decode(buf); err != nil {
		t.Fatalf("decode echo: %v", err)
	}
	if echo.Payload != 991199 {
		t.Errorf("echo payload = %d, want 991199", echo.Payload)
	}
}

func TestSessionChatFlattening(t *testing.T) {
	sess, bus, srv := startSession(t, Config{})
	completeLogin(t, sess, srv)

	srv.writePacket(&packet.ChatMessage{
		JSON:     `{"text":"hello","extra":[" ",{"text":"world"}]}`,
		Position: packet.ChatPositionChat,
	})

	ev, ok := waitEvent(t, bus).(event.ChatMessage)
	if !ok || ev.Text != "hello world" {
		t.Errorf("event = %+v, want flattened text", ev)
	}
}

func TestSessionEntityTeleport(t *testing.T) {
	sess, bus, srv := startSession(t, Config{})
	completeLogin(t, sess, srv)

	srv.writePacket(&packet.EntityTeleport{EntityID: 77, X: 1.5, Y: 64, Z: -3.25})

	ev, ok := waitEvent(t, bus).(event.EntityMove)
	if !ok || ev.EntityID != 77 {
		t.Fatalf("event = %+v", ev)
	}
	if ev.Position != (mgl64.Vec3{1.5, 64, -3.25}) {
		t.Errorf("position = %v", ev.Position)
	}
	if sess.Tracker().Entities() != 1 {
		t.Errorf("tracked entities = %d, want 1", sess.Tracker().Entities())
	}
}

func TestSessionPlayerMove(t *testing.T) {
	sess, bus, srv := startSession(t, Config{})
	completeLogin(t, sess, srv)

	bus.PushServerbound(event.PlayerMove{Position: mgl64.Vec3{100.5, -32, 7.75}, OnGround: true})

	id, buf := srv.readPacket()
	if id != packet.IDPlayerPosition {
		t.Fatalf("packet id = 0x%02X, want player position", id)
	}
	pos := &packet.PlayerPosition{}
	if err := pos.Decode(buf); err != nil {
		t.Fatalf("decode position: %v", err)
	}
	if pos.X != 100.5 || pos.Y != -32 || pos.Z != 7.75 || !pos.OnGround {
		t.Errorf("position packet = %+v", pos)
	}
}

func TestSessionSkipsUnknownPlayPacket(t *testing.T) {
	sess, _, srv := startSession(t, Config{})
	completeLogin(t, sess, srv)

	// An unmodelled play packet must not disturb the session.
	srv.writeRawPacket(0x50, []byte{0xde, 0xad})
	srv.writePacket(&packet.KeepAlive{Payload: 7})

	if id, _ := srv.readPacket(); id != packet.IDKeepAliveServer {
		t.Fatalf("packet id = 0x%02X, want keep alive echo", id)
	}
}

func TestSessionLoginViolation(t *testing.T) {
	sess, bus, srv := startSession(t, Config{})
	srv.readPacket()
	srv.readPacket()

	// 0x30 is not a login packet; ordering is void once a message goes
	// unprocessed, so the session must terminate.
	srv.writeRawPacket(0x30, nil)

	ev, ok := waitEvent(t, bus).(event.Disconnected)
	if !ok {
		t.Fatalf("event = %+v, want Disconnected", ev)
	}
	var unexpected *UnexpectedMessageError
	if !errors.As(ev.Err, &unexpected) {
		t.Errorf("err = %v, want *UnexpectedMessageError", ev.Err)
	}
	waitForState(t, sess, StateDisconnected)
}

func TestSessionLoginDisconnect(t *testing.T) {
	sess, bus, srv := startSession(t, Config{})
	srv.readPacket()
	srv.readPacket()

	srv.writePacket(&packet.LoginDisconnect{Reason: `{"text":"denied"}`})

	ev, ok := waitEvent(t, bus).(event.Disconnected)
	if !ok || ev.Reason != "denied" {
		t.Errorf("event = %+v, want reason %q", ev, "denied")
	}
	waitForState(t, sess, StateDisconnected)
}

func TestHandleFrameRejectsTrafficBeforeLogin(t *testing.T) {
	sess, _, srv := startSession(t, Config{})
	srv.readPacket()
	srv.readPacket()

	sess.setState(StateHandshaking)

	frame := &bytes.Buffer{}
	protocol.WriteVarInt32(frame, packet.IDKeepAlive)

	err := sess.handleFrame(frame.Bytes())
	var unexpected *UnexpectedMessageError
	if !errors.As(err, &unexpected) {
		t.Fatalf("err = %v, want *UnexpectedMessageError", err)
	}
	if unexpected.State != StateHandshaking || unexpected.PacketID != packet.IDKeepAlive {
		t.Errorf("error fields = %+v", unexpected)
	}
}

func TestSessionDropsBadChunkByDefault(t *testing.T) {
	sess, bus, srv := startSession(t, Config{})
	completeLogin(t, sess, srv)

	// Mask declares a section but the payload is truncated.
	srv.writePacket(&packet.ChunkData{X: 1, Z: 1, FullChunk: true, Mask: 0b1, Data: []byte{0x10}})
	srv.writePacket(&packet.KeepAlive{Payload: 3})

	// The session stays up: the keep alive after the bad column is echoed.
	if id, _ := srv.readPacket(); id != packet.IDKeepAliveServer {
		t.Fatalf("packet id = 0x%02X, want keep alive echo", id)
	}
	if sess.ChunksSkipped() != 1 {
		t.Errorf("ChunksSkipped = %d, want 1", sess.ChunksSkipped())
	}
	if ev, ok := bus.TryPollClientbound(); ok {
		t.Errorf("unexpected event %+v for dropped column", ev)
	}
}

func TestSessionRejectsOversizedChunkMask(t *testing.T) {
	sess, bus, srv := startSession(t, Config{})
	completeLogin(t, sess, srv)

	// Mask bits above bit 15 cannot name a section; the column is dropped
	// rather than silently truncated.
	srv.writePacket(&packet.ChunkData{X: 2, Z: 2, FullChunk: true, Mask: 1 << 20, Data: singleValueSection(1)})
	srv.writePacket(&packet.KeepAlive{Payload: 11})

	if id, _ := srv.readPacket(); id != packet.IDKeepAliveServer {
		t.Fatalf("packet id = 0x%02X, want keep alive echo", id)
	}
	if sess.ChunksSkipped() != 1 {
		t.Errorf("ChunksSkipped = %d, want 1", sess.ChunksSkipped())
	}
	if ev, ok := bus.TryPollClientbound(); ok {
		t.Errorf("unexpected event %+v for dropped column", ev)
	}
}

func TestSessionClosesOnChunkErrorWhenConfigured(t *testing.T) {
	sess, bus, srv := startSession(t, Config{CloseOnChunkError: true})
	completeLogin(t, sess, srv)

	srv.writePacket(&packet.ChunkData{X: 1, Z: 1, FullChunk: true, Mask: 0b1, Data: []byte{0x10}})

	if _, ok := waitEvent(t, bus).(event.Disconnected); !ok {
		t.Error("expected Disconnected after chunk decode failure")
	}
	waitForState(t, sess, StateDisconnected)
}

func TestSessionSingleDisconnectedOnPeerDrop(t *testing.T) {
	sess, bus, srv := startSession(t, Config{})
	completeLogin(t, sess, srv)

	_ = srv.conn.Close()

	if _, ok := waitEvent(t, bus).(event.Disconnected); !ok {
		t.Fatal("expected Disconnected after peer drop")
	}
	waitForState(t, sess, StateDisconnected)

	// Give racing paths a moment, then confirm no second terminal event.
	time.Sleep(time.Millisecond * 20)
	if ev, ok := bus.TryPollClientbound(); ok {
		t.Errorf("second event %+v after Disconnected", ev)
	}

	sess.Disconnect()
	if ev, ok := bus.TryPollClientbound(); ok {
		t.Errorf("Disconnect after teardown emitted %+v", ev)
	}
}
