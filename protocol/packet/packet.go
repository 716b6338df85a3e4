// Package packet implements the version-specific wire packets of Minecraft
// Java Edition protocol 498 (release 1.14.4). Packets never leave the
// session layer; everything above it speaks version-agnostic events.
package packet

import "bytes"

// Packet represents a single protocol packet, identified by an ID that is
// only meaningful within one connection state and direction.
type Packet interface {
	// ID returns the packet identifier within its state and direction.
	ID() int32
	// Encode writes the packet body to buf.
	Encode(buf *bytes.Buffer)
	// Decode reads the packet body from buf.
	Decode(buf *bytes.Buffer) error
}
