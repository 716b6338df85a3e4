package transport

import (
	"context"
	"io"
)

// Transport defines an interface for establishing server connections.
type Transport interface {
	// Dial connects to the specified address and returns an io.ReadWriteCloser.
	// The attempt is bounded by ctx; it returns an error if the connection
	// cannot be established in time.
	Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error)
}
