package network

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/quartzmc/quartz/protocol"
)

type pipeTransport struct {
	conn net.Conn
	err  error
}

func (p pipeTransport) Dial(_ context.Context, _ string) (io.ReadWriteCloser, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.conn, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dialPipe(t *testing.T) (*Conn, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	conn, err := Dial(context.Background(), "test:25565", pipeTransport{conn: client}, testLogger())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(conn.Close)
	t.Cleanup(func() { _ = server.Close() })
	return conn, server
}

func TestConnSendOrder(t *testing.T) {
	conn, server := dialPipe(t)

	frames := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	go func() {
		for _, frame := range frames {
			_ = conn.Send(frame)
		}
	}()

	r := protocol.NewReader(server)
	for i, want := range frames {
		got, err := r.ReadFrame()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("frame %d = %q, want %q", i, got, want)
		}
	}
}

func TestConnReadOrder(t *testing.T) {
	conn, server := dialPipe(t)

	frames := [][]byte{[]byte("alpha"), []byte("beta"), []byte("gamma")}
	go func() {
		w := protocol.NewWriter(server)
		for _, frame := range frames {
			_ = w.WriteFrame(frame)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	for i, want := range frames {
		got, err := conn.ReadFrame(ctx)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("frame %d = %q, want %q", i, got, want)
		}
	}
}

func TestConnCloseUnblocks(t *testing.T) {
	conn, _ := dialPipe(t)

	done := make(chan error, 1)
	go func() {
		_, err := conn.ReadFrame(context.Background())
		done <- err
	}()

	conn.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ErrConnectionClosed) {
			t.Errorf("ReadFrame after Close: %v, want ErrConnectionClosed", err)
		}
	case <-time.After(time.Second * 5):
		t.Fatal("ReadFrame still blocked after Close")
	}

	if err := conn.Send([]byte("late")); !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("Send after Close: %v, want ErrConnectionClosed", err)
	}
}

func TestConnSendAfterCloseAlwaysFails(t *testing.T) {
	conn, _ := dialPipe(t)
	conn.Close()

	// The outbound queue still has capacity, so a racy enqueue would
	// succeed some of the time. Every attempt must fail.
	for i := 0; i < 100; i++ {
		if err := conn.Send([]byte("late")); !errors.Is(err, ErrConnectionClosed) {
			t.Fatalf("Send %d after Close: %v, want ErrConnectionClosed", i, err)
		}
	}
}

func TestConnPeerFailure(t *testing.T) {
	conn, server := dialPipe(t)
	_ = server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := conn.ReadFrame(ctx)
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Errorf("ReadFrame after peer close: %v, want *ConnectionError", err)
	}

	select {
	case <-conn.Done():
	case <-time.After(time.Second * 5):
		t.Fatal("connection not marked done after peer failure")
	}
}

func TestConnDrainsInboundAfterClose(t *testing.T) {
	conn, server := dialPipe(t)

	w := protocol.NewWriter(server)
	go func() { _ = w.WriteFrame([]byte("buffered")) }()

	// Wait for the frame to land in the inbound queue, then close.
	deadline := time.Now().Add(time.Second * 5)
	for len(conn.inbound) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("frame never reached the inbound queue")
		}
		time.Sleep(time.Millisecond)
	}
	conn.Close()

	frame, err := conn.ReadFrame(context.Background())
	if err != nil {
		t.Fatalf("ReadFrame after Close: %v", err)
	}
	if !bytes.Equal(frame, []byte("buffered")) {
		t.Errorf("frame = %q", frame)
	}

	if _, err := conn.ReadFrame(context.Background()); !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("ReadFrame on drained closed conn: %v, want ErrConnectionClosed", err)
	}
}

func TestDialFailure(t *testing.T) {
	_, err := Dial(context.Background(), "test:25565", pipeTransport{err: errors.New("refused")}, testLogger())

	var connectErr *ConnectError
	if !errors.As(err, &connectErr) {
		t.Fatalf("err = %v, want *ConnectError", err)
	}
	if connectErr.Timeout {
		t.Error("non-timeout failure reported as timeout")
	}
}

func TestDialTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	_, err := Dial(ctx, "test:25565", pipeTransport{err: context.DeadlineExceeded}, testLogger())

	var connectErr *ConnectError
	if !errors.As(err, &connectErr) {
		t.Fatalf("err = %v, want *ConnectError", err)
	}
	if !connectErr.Timeout {
		t.Error("expired dial not reported as timeout")
	}
}

func TestDialCancelledIsNotTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Dial(ctx, "test:25565", pipeTransport{err: context.Canceled}, testLogger())

	var connectErr *ConnectError
	if !errors.As(err, &connectErr) {
		t.Fatalf("err = %v, want *ConnectError", err)
	}
	if connectErr.Timeout {
		t.Error("cancelled dial reported as timeout")
	}
}
