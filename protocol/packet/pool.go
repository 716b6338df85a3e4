package packet

// Pool maps packet IDs to factory functions for one connection state and
// direction. The session picks the pool matching its current state before
// decoding an inbound frame.
type Pool map[int32]func() Packet

// NewClientboundLoginPool returns the clientbound packets valid while
// logging in.
func NewClientboundLoginPool() Pool {
	return Pool{
		IDLoginDisconnect: func() Packet { return &LoginDisconnect{} },
		IDLoginSuccess:    func() Packet { return &LoginSuccess{} },
	}
}

// NewClientboundPlayPool returns the clientbound packets valid during play.
func NewClientboundPlayPool() Pool {
	return Pool{
		IDChatMessage:    func() Packet { return &ChatMessage{} },
		IDDisconnect:     func() Packet { return &Disconnect{} },
		IDKeepAlive:      func() Packet { return &KeepAlive{} },
		IDChunkData:      func() Packet { return &ChunkData{} },
		IDJoinGame:       func() Packet { return &JoinGame{} },
		IDEntityTeleport: func() Packet { return &EntityTeleport{} },
	}
}
