package core

import (
	"bytes"

	types "github.com/AzlanAmjad/canvas-wire/data-types"
)

// Block is an encoded block as received from a peer. Its internal layout is
// not interpreted here; the sync logic that consumes messages decodes it.
type Block struct {
	encoded []byte
}

// NewBlock wraps a copy of a block encoding.
func NewBlock(encoded []byte) *Block {
	return &Block{encoded: bytes.Clone(encoded)}
}

// Encoded returns the block encoding. Callers must not modify it.
func (b *Block) Encoded() []byte {
	return b.encoded
}

// Size is the length of the block encoding in bytes.
func (b *Block) Size() int {
	return len(b.encoded)
}

// GetHash returns the hash of the block, computed by hasher.
func (b *Block) GetHash(hasher Hasher[*Block]) types.Hash {
	return hasher.Hash(b)
}

// BlockHeader is an encoded block header, carried by header responses.
type BlockHeader struct {
	encoded []byte
}

// NewBlockHeader wraps a copy of a block header encoding.
func NewBlockHeader(encoded []byte) *BlockHeader {
	return &BlockHeader{encoded: bytes.Clone(encoded)}
}

func (bh *BlockHeader) Encoded() []byte {
	return bh.encoded
}

// GetHash returns the hash of the header, which is also the block hash.
func (bh *BlockHeader) GetHash(hasher Hasher[*BlockHeader]) types.Hash {
	return hasher.Hash(bh)
}

// BlockIdentifier pairs a block hash with its height. Skeleton messages
// carry a sequence of them as sync checkpoints.
type BlockIdentifier struct {
	Hash   []byte
	Number uint64
}

// NewBlockIdentifier copies hash into a new identifier.
func NewBlockIdentifier(hash []byte, number uint64) BlockIdentifier {
	return BlockIdentifier{Hash: bytes.Clone(hash), Number: number}
}
