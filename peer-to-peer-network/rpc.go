package network

import (
	"errors"
	"fmt"

	messages "github.com/AzlanAmjad/canvas-wire/wire-messages"
)

var ErrDecoderPanic = errors.New("decoder panic")

// DecodedMessage is a frame after decoding, tagged with the peer it came from.
type DecodedMessage struct {
	Header messages.MessageType
	From   NetAddr
	// Message is nil when the type's decoder yields no message (Body).
	Message messages.Message
}

type RPCDecodeFunc func(ReceiveRPC) (*DecodedMessage, error)

// DefaultRPCDecoder decodes the payload as a wire message frame. It never
// panics: anything that goes wrong inside the decoder becomes an error, and
// the caller decides what to do with the peer.
func DefaultRPCDecoder(rpc ReceiveRPC) (decoded *DecodedMessage, err error) {
	defer func() {
		if r := recover(); r != nil {
			decoded = nil
			err = fmt.Errorf("error decoding message from %s: %w: %v", rpc.From, ErrDecoderPanic, r)
		}
	}()

	msg, err := messages.DecodeFrame(rpc.Payload)
	if err != nil {
		return nil, fmt.Errorf("error decoding message from %s: %w", rpc.From, err)
	}

	return &DecodedMessage{
		Header:  messages.MessageType(rpc.Payload[0]),
		From:    rpc.From,
		Message: msg,
	}, nil
}

// RPCProcessor is an interface for processing RPCs.
type RPCProcessor interface {
	ProcessMessage(NetAddr, *DecodedMessage) error
}
