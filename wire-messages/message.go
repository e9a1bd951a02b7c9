package messages

import (
	core "github.com/AzlanAmjad/canvas-wire/blockchain-core"
)

// Message is one decoded peer message. The set of implementations is closed:
// every variant lives in this package and is built once by its decoder.
//
// Decoding normalizes zero-length values: an empty byte field comes back nil,
// and an empty list of transactions, headers or identifiers comes back as a
// non-nil empty slice. Encoding treats nil and empty alike, so a message
// holding []byte{} or a nil slice survives a round trip in the other form.
type Message interface {
	Type() MessageType

	// payload returns the encoded field list, without the type code.
	payload() []byte
}

// StatusMessage announces the best block a peer knows about.
type StatusMessage struct {
	Height  uint64
	TipHash []byte
}

func (StatusMessage) Type() MessageType { return TypeStatus }

// BlockMessage carries one full block.
type BlockMessage struct {
	Block *core.Block
}

func (BlockMessage) Type() MessageType { return TypeBlock }

type GetBlockMessage struct {
	Hash []byte
}

func (GetBlockMessage) Type() MessageType { return TypeGetBlock }

// BlockHeadersMessage, GetBlockHeadersMessage and NewBlockHashesMessage are
// not interpreted here: Payload is the whole encoded field list, handed on
// as received.
type BlockHeadersMessage struct {
	Payload []byte
}

func (BlockHeadersMessage) Type() MessageType { return TypeBlockHeaders }

type GetBlockHeadersMessage struct {
	Payload []byte
}

func (GetBlockHeadersMessage) Type() MessageType { return TypeGetBlockHeaders }

type NewBlockHashesMessage struct {
	Payload []byte
}

func (NewBlockHashesMessage) Type() MessageType { return TypeNewBlockHashes }

// TransactionsMessage relays transactions. Oversized ones never make it in.
// Transactions is never nil after decoding.
type TransactionsMessage struct {
	Transactions []*core.Transaction
}

func (TransactionsMessage) Type() MessageType { return TypeTransactions }

// GetBlockHashMessage asks for the hash of the block at Height.
type GetBlockHashMessage struct {
	RequestID uint64
	Height    uint64
}

func (GetBlockHashMessage) Type() MessageType { return TypeGetBlockHash }

// GetBlockHeadersByHashMessage asks for Count headers ending at Hash.
type GetBlockHeadersByHashMessage struct {
	RequestID uint64
	Hash      []byte
	Count     uint32
}

func (GetBlockHeadersByHashMessage) Type() MessageType { return TypeGetBlockHeadersByHash }

type BlockHeadersByHashMessage struct {
	RequestID uint64
	Headers   []*core.BlockHeader
}

func (BlockHeadersByHashMessage) Type() MessageType { return TypeBlockHeadersByHash }

type GetBlockByHashMessage struct {
	RequestID uint64
	Hash      []byte
}

func (GetBlockByHashMessage) Type() MessageType { return TypeGetBlockByHash }

type BlockByHashMessage struct {
	RequestID uint64
	Block     *core.Block
}

func (BlockByHashMessage) Type() MessageType { return TypeBlockByHash }

// SkeletonMessage answers a GetSkeleton with checkpoints, in chain order.
type SkeletonMessage struct {
	RequestID        uint64
	BlockIdentifiers []core.BlockIdentifier
}

func (SkeletonMessage) Type() MessageType { return TypeSkeleton }

type GetBodyMessage struct {
	RequestID uint64
	Hash      []byte
}

func (GetBodyMessage) Type() MessageType { return TypeGetBody }

// GetSkeletonMessage asks for checkpoints between two blocks.
type GetSkeletonMessage struct {
	HashStart []byte
	HashEnd   []byte
}

func (GetSkeletonMessage) Type() MessageType { return TypeGetSkeleton }

type NewBlockHashMessage struct {
	Hash []byte
}

func (NewBlockHashMessage) Type() MessageType { return TypeNewBlockHash }
