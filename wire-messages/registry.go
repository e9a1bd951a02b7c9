package messages

import (
	"fmt"

	rlp "github.com/AzlanAmjad/canvas-wire/rlp-encoding"
)

type decodeFunc func(list *rlp.Node) (Message, error)

type registration struct {
	name   string
	decode decodeFunc
	// stub types never look at their payload
	stub bool
}

// registry maps a type code to its decoder. It is filled in once when the
// package initializes and only read afterwards, so lookups need no locking.
var registry = [...]registration{
	TypeStatus:                {name: "Status", decode: decodeStatus},
	TypeBlock:                 {name: "Block", decode: decodeBlock},
	TypeGetBlock:              {name: "GetBlock", decode: decodeGetBlock},
	TypeBlockHeaders:          {name: "BlockHeaders", decode: decodeBlockHeaders},
	TypeGetBlockHeaders:       {name: "GetBlockHeaders", decode: decodeGetBlockHeaders},
	TypeNewBlockHashes:        {name: "NewBlockHashes", decode: decodeNewBlockHashes},
	TypeTransactions:          {name: "Transactions", decode: decodeTransactions},
	TypeGetBlockHash:          {name: "GetBlockHash", decode: decodeGetBlockHash},
	TypeGetBlockHeadersByHash: {name: "GetBlockHeadersByHash", decode: decodeGetBlockHeadersByHash},
	TypeBlockHeadersByHash:    {name: "BlockHeadersByHash", decode: decodeBlockHeadersByHash},
	TypeGetBlockByHash:        {name: "GetBlockByHash", decode: decodeGetBlockByHash},
	TypeBlockByHash:           {name: "BlockByHash", decode: decodeBlockByHash},
	TypeSkeleton:              {name: "Skeleton", decode: decodeSkeleton},
	TypeGetBody:               {name: "GetBody", decode: decodeGetBody},
	TypeBody:                  {name: "Body", decode: decodeBody, stub: true},
	TypeGetSkeleton:           {name: "GetSkeleton", decode: decodeGetSkeleton},
	TypeNewBlockHash:          {name: "NewBlockHash", decode: decodeNewBlockHash},
}

func lookup(code MessageType) (*registration, error) {
	if int(code) >= len(registry) || registry[code].decode == nil {
		return nil, &UnknownMessageTypeError{Code: code}
	}
	return &registry[code], nil
}

// Types returns every registered code in ascending order.
func Types() []MessageType {
	types := make([]MessageType, 0, len(registry))
	for code, r := range registry {
		if r.decode != nil {
			types = append(types, MessageType(code))
		}
	}
	return types
}

// Decode routes an already decoded field list to the decoder registered for
// code.
//
// A nil Message with a nil error is a valid result: it is what the Body stub
// returns for any payload. Callers must check for it separately from errors.
func Decode(code MessageType, list *rlp.Node) (Message, error) {
	r, err := lookup(code)
	if err != nil {
		return nil, err
	}
	if r.stub {
		return r.decode(list)
	}
	if list == nil || !list.IsList() {
		return nil, fmt.Errorf("decode %s message: %w", r.name, rlpMismatch("payload"))
	}
	msg, err := r.decode(list)
	if err != nil {
		return nil, fmt.Errorf("decode %s message: %w", r.name, err)
	}
	return msg, nil
}

// DecodeFrame decodes a frame as received from a peer: one type code byte
// followed by the encoded field list. Stub types are answered before the
// payload is parsed, so even a malformed Body frame yields (nil, nil).
func DecodeFrame(frame []byte) (Message, error) {
	if len(frame) == 0 {
		return nil, fmt.Errorf("empty frame: %w", ErrTruncatedPayload)
	}
	code := MessageType(frame[0])
	r, err := lookup(code)
	if err != nil {
		return nil, err
	}
	if r.stub {
		return r.decode(nil)
	}
	list, err := rlp.DecodeList(frame[1:])
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", r.name, err)
	}
	return Decode(code, list)
}
