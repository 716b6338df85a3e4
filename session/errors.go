package session

import "fmt"

// UnexpectedMessageError reports a packet that is not valid in the state the
// connection was in when it arrived. Per-direction ordering guarantees are
// void once a message goes unprocessed, so this error is terminal: the
// session transitions to Closing instead of skipping the packet.
type UnexpectedMessageError struct {
	State    State
	PacketID int32
}

// Error ...
func (e *UnexpectedMessageError) Error() string {
	return fmt.Sprintf("unexpected packet 0x%02X in state %s", e.PacketID, e.State)
}
