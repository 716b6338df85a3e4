package event

// Bus is the pass-through contract between application and backend: two
// bounded queues, strictly FIFO per direction, with no ordering relationship
// between the directions. The bus owns no state beyond the queues.
type Bus struct {
	clientbound chan Clientbound
	serverbound chan Serverbound
}

// NewBus creates a Bus whose queues hold up to depth events each.
func NewBus(depth int) *Bus {
	return &Bus{
		clientbound: make(chan Clientbound, depth),
		serverbound: make(chan Serverbound, depth),
	}
}

// PushClientbound enqueues an event for the application, blocking while the
// queue is full. Called by the backend only.
func (b *Bus) PushClientbound(ev Clientbound) {
	b.clientbound <- ev
}

// PollClientbound dequeues the next event for the application, blocking
// until one is available. The channel form is exposed so callers can select.
func (b *Bus) PollClientbound() <-chan Clientbound {
	return b.clientbound
}

// TryPollClientbound dequeues the next event without blocking.
func (b *Bus) TryPollClientbound() (Clientbound, bool) {
	select {
	case ev := <-b.clientbound:
		return ev, true
	default:
		return nil, false
	}
}

// PushServerbound enqueues an intent from the application, blocking while
// the queue is full.
func (b *Bus) PushServerbound(ev Serverbound) {
	b.serverbound <- ev
}

// PollServerbound exposes the serverbound queue. Called by the backend only.
func (b *Bus) PollServerbound() <-chan Serverbound {
	return b.serverbound
}
