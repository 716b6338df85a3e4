package session

// State is the connection's phase in the handshake/login/play state machine.
// It is owned and mutated exclusively by the Session; the network layer
// never inspects it. Protocol 498 has no configuration phase, so none is
// modelled.
type State int32

const (
	StateDisconnected State = iota
	StateHandshaking
	StateLoggingIn
	StatePlaying
	StateClosing
)

// String ...
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateHandshaking:
		return "handshaking"
	case StateLoggingIn:
		return "logging_in"
	case StatePlaying:
		return "playing"
	case StateClosing:
		return "closing"
	}
	return "unknown"
}
