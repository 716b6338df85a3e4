package packet

// Packet IDs for protocol 498. IDs are scoped to a connection state and a
// direction; the same value can mean different packets in different states.
const (
	// Handshaking, serverbound.
	IDHandshake int32 = 0x00

	// Login, serverbound.
	IDLoginStart int32 = 0x00

	// Login, clientbound.
	IDLoginDisconnect int32 = 0x00
	IDLoginSuccess    int32 = 0x02

	// Play, clientbound.
	IDChatMessage    int32 = 0x0E
	IDDisconnect     int32 = 0x1A
	IDKeepAlive      int32 = 0x20
	IDChunkData      int32 = 0x21
	IDJoinGame       int32 = 0x25
	IDEntityTeleport int32 = 0x56

	// Play, serverbound.
	IDChatSend        int32 = 0x03
	IDKeepAliveServer int32 = 0x0F
	IDPlayerPosition  int32 = 0x11
)

// Handshake next-state values.
const (
	HandshakeNextStatus int32 = 1
	HandshakeNextLogin  int32 = 2
)
