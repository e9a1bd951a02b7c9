package network

// NetAddr is a string representing a network address.
type NetAddr string

// SendRPC is a frame to send and the peer to send it to.
type SendRPC struct {
	To      NetAddr
	Payload []byte
}

// ReceiveRPC is a frame received from a peer. Payload holds one whole frame:
// the type code byte followed by the encoded fields.
type ReceiveRPC struct {
	From    NetAddr
	Payload []byte
}

// Transport is an interface for a network transport. It should be able to consume messages, connect to other transports, send messages, and get its address.
type Transport interface {
	Consume() <-chan ReceiveRPC
	SendToChannel(ReceiveRPC) error
	Connect(Transport) error
	// Disconnect drops a peer, for instance after it sent a frame that
	// could not be decoded.
	Disconnect(NetAddr) error
	SendMessageToPeer(SendRPC) error
	Broadcast([]byte) error
	Peers() []NetAddr
	GetAddr() NetAddr
}
