package core

import (
	"golang.org/x/crypto/sha3"

	types "github.com/AzlanAmjad/canvas-wire/data-types"
)

type Hasher[T any] interface {
	Hash(T) types.Hash
}

func keccak256(data []byte) types.Hash {
	var h types.Hash
	d := sha3.NewLegacyKeccak256()
	d.Write(data)
	d.Sum(h[:0])
	return h
}

// BlockHasher hashes the whole block encoding. Implementation of the Hasher interface.
type BlockHasher struct{}

func NewBlockHasher() *BlockHasher {
	return &BlockHasher{}
}

func (h *BlockHasher) Hash(b *Block) types.Hash {
	return keccak256(b.Encoded())
}

// BlockHeaderHasher is a hasher for the block header. Implementation of the Hasher interface.
type BlockHeaderHasher struct{}

func NewBlockHeaderHasher() *BlockHeaderHasher {
	return &BlockHeaderHasher{}
}

func (h *BlockHeaderHasher) Hash(bh *BlockHeader) types.Hash {
	return keccak256(bh.Encoded())
}

// TransactionHasher is a hasher for the transaction. Implementation of the Hasher interface.
type TransactionHasher struct{}

func NewTransactionHasher() *TransactionHasher {
	return &TransactionHasher{}
}

func (h *TransactionHasher) Hash(tx *Transaction) types.Hash {
	return keccak256(tx.Encoded())
}
