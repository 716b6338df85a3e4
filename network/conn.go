// Package network owns one outbound stream socket at a time and exposes it
// as two ordered frame queues. It knows nothing about packet semantics: what
// a frame means is decided entirely by the session layer above it.
package network

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/quartzmc/quartz/protocol"
	"github.com/quartzmc/quartz/transport"
)

const defaultQueueDepth = 64

// Conn is an established connection running one read loop and one write
// loop. Inbound frames are delivered in socket order; outbound frames are
// written in Send order. The first transport error tears the whole
// connection down; Conn never reconnects.
type Conn struct {
	conn   io.ReadWriteCloser
	reader *protocol.Reader
	writer *protocol.Writer

	inbound  chan []byte
	outbound chan []byte

	closed chan struct{}
	once   sync.Once

	errMu sync.Mutex
	err   error

	logger *slog.Logger
}

// Dial connects to addr over t and starts the connection's read and write
// loops. The attempt is bounded by ctx; cancellation and expiry surface as a
// ConnectError with Timeout set.
func Dial(ctx context.Context, addr string, t transport.Transport, logger *slog.Logger) (*Conn, error) {
	raw, err := t.Dial(ctx, addr)
	if err != nil {
		return nil, &ConnectError{Addr: addr, Timeout: isTimeout(ctx, err), Cause: err}
	}

	c := &Conn{
		conn:     raw,
		reader:   protocol.NewReader(raw),
		writer:   protocol.NewWriter(raw),
		inbound:  make(chan []byte, defaultQueueDepth),
		outbound: make(chan []byte, defaultQueueDepth),
		closed:   make(chan struct{}),
		logger:   logger,
	}

	go c.readLoop()
	go c.writeLoop()
	return c, nil
}

// Send enqueues one frame for writing. It blocks while the outbound queue is
// full, applying backpressure to the producer rather than dropping frames,
// and fails with ErrConnectionClosed once the connection is down.
func (c *Conn) Send(frame []byte) error {
	select {
	case <-c.closed:
		return ErrConnectionClosed
	case c.outbound <- frame:
		// The select picks at random when both cases are ready. A frame
		// enqueued after teardown is never written, so re-check and report
		// it as undeliverable.
		select {
		case <-c.closed:
			return ErrConnectionClosed
		default:
			return nil
		}
	}
}

// ReadFrame returns the next inbound frame in arrival order. Frames already
// received are drained even after the connection has closed; once the queue
// is empty a closed connection fails with its terminal error, or
// ErrConnectionClosed after a clean shutdown.
func (c *Conn) ReadFrame(ctx context.Context) ([]byte, error) {
	select {
	case frame := <-c.inbound:
		return frame, nil
	default:
	}

	select {
	case frame := <-c.inbound:
		return frame, nil
	case <-c.closed:
		if err := c.Err(); err != nil {
			return nil, err
		}
		return nil, ErrConnectionClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close releases the socket and unblocks any pending Send or ReadFrame.
// It is idempotent.
func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
}

// Done is closed when the connection has terminated for any reason.
func (c *Conn) Done() <-chan struct{} {
	return c.closed
}

// Err returns the transport error that terminated the connection, or nil if
// it closed cleanly or is still up.
func (c *Conn) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *Conn) fail(err error) {
	c.errMu.Lock()
	if c.err == nil {
		c.err = &ConnectionError{Cause: err}
	}
	c.errMu.Unlock()
	c.Close()
}

func (c *Conn) readLoop() {
	for {
		frame, err := c.reader.ReadFrame()
		if err != nil {
			select {
			case <-c.closed:
			default:
				c.logger.Debug("read loop terminated", "err", err)
				c.fail(err)
			}
			return
		}

		select {
		case c.inbound <- frame:
		case <-c.closed:
			return
		}
	}
}

func (c *Conn) writeLoop() {
	for {
		select {
		case frame := <-c.outbound:
			if err := c.writer.WriteFrame(frame); err != nil {
				select {
				case <-c.closed:
				default:
					c.logger.Debug("write loop terminated", "err", err)
					c.fail(err)
				}
				return
			}
		case <-c.closed:
			return
		}
	}
}

// isTimeout reports whether a dial failure was caused by a deadline rather
// than cancellation or a transport error.
func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
