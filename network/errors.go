package network

import (
	"errors"
	"fmt"
)

// ErrConnectionClosed is returned by operations on a Conn whose socket has
// been released, whether by Close or by a transport failure.
var ErrConnectionClosed = errors.New("connection closed")

// ConnectError reports a failed connection attempt. Attempts are never
// retried internally; retry policy belongs to the caller.
type ConnectError struct {
	Addr    string
	Timeout bool
	Cause   error
}

// Error ...
func (e *ConnectError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("connect to %s: timed out", e.Addr)
	}
	return fmt.Sprintf("connect to %s: %v", e.Addr, e.Cause)
}

// Unwrap ...
func (e *ConnectError) Unwrap() error {
	return e.Cause
}

// ConnectionError reports an I/O failure on an established connection. The
// connection is terminal once this surfaces.
type ConnectionError struct {
	Cause error
}

// Error ...
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Cause)
}

// Unwrap ...
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}
