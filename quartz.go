// Package quartz exposes a versioned Minecraft client protocol behind a
// version-agnostic event interface. Applications exchange event values over
// a bus and never see packet IDs or wire layouts; swapping the protocol
// backend requires no application changes.
package quartz

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/quartzmc/quartz/event"
	"github.com/quartzmc/quartz/network"
	"github.com/quartzmc/quartz/session"
	tr "github.com/quartzmc/quartz/transport"
	"github.com/quartzmc/quartz/world"
)

// ErrAlreadyConnected is returned by Connect while a connection is live.
// A Client drives at most one connection at a time.
var ErrAlreadyConnected = errors.New("already connected")

// Backend is the capability surface a protocol backend must provide. It is
// selected at composition time; Client is the bundled protocol-498 backend.
type Backend interface {
	Connect(ctx context.Context, addr string) error
	Disconnect()
	Send(ev event.Serverbound)
	Poll() <-chan event.Clientbound
}

// Client connects to a server and runs the bundled backend over it.
type Client struct {
	transport tr.Transport
	logger    *slog.Logger
	opts      Opts

	bus   *event.Bus
	store *world.Store

	mu   sync.Mutex
	conn *network.Conn
	sess *session.Session
}

// NewClient creates a Client. A nil opts uses DefaultOpts and a nil
// transport uses TCP.
func NewClient(logger *slog.Logger, opts *Opts, transport tr.Transport) *Client {
	if opts == nil {
		opts = DefaultOpts()
	}
	if transport == nil {
		transport = tr.NewTCP()
	}
	return &Client{
		transport: transport,
		logger:    logger,
		opts:      *opts,

		bus:   event.NewBus(opts.EventQueueDepth),
		store: world.NewStore(),
	}
}

// Connect dials addr, starts the login sequence and begins delivering
// clientbound events. The attempt is bounded by the configured connect
// timeout; failures are reported as a *network.ConnectError and are never
// retried internally.
func (c *Client) Connect(ctx context.Context, addr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		select {
		case <-c.conn.Done():
		default:
			return ErrAlreadyConnected
		}
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return &network.ConnectError{Addr: addr, Cause: err}
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return &network.ConnectError{Addr: addr, Cause: err}
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.opts.ConnectTimeout)
	defer cancel()

	conn, err := network.Dial(dialCtx, addr, c.transport, c.logger)
	if err != nil {
		return err
	}

	sess := session.New(conn, c.bus, c.logger, session.Config{
		Username:          c.opts.Username,
		ServerAddress:     host,
		ServerPort:        uint16(port),
		ProtocolVersion:   c.opts.ProtocolVersion,
		Store:             c.store,
		CloseOnChunkError: c.opts.CloseOnChunkError,
	})
	if err := sess.Start(ctx); err != nil {
		return err
	}

	c.conn = conn
	c.sess = sess
	c.logger.Info("connected", "addr", addr, "username", c.opts.Username)
	return nil
}

// Disconnect shuts the current connection down gracefully. It is a no-op
// when not connected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess != nil {
		c.sess.Disconnect()
	}
}

// Send submits a serverbound event to the backend.
func (c *Client) Send(ev event.Serverbound) {
	c.bus.PushServerbound(ev)
}

// Poll exposes the clientbound event queue.
func (c *Client) Poll() <-chan event.Clientbound {
	return c.bus.PollClientbound()
}

// World returns the client-side chunk store.
func (c *Client) World() *world.Store {
	return c.store
}

// Session returns the live session, or nil when not connected.
func (c *Client) Session() *session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess
}
