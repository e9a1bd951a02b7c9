package core

import (
	"bytes"

	types "github.com/AzlanAmjad/canvas-wire/data-types"
)

// Transaction is an encoded transaction relayed by a peer.
type Transaction struct {
	encoded []byte

	// first time this node saw the transaction, in unix nanoseconds.
	// used to order the mempool, not part of the encoding.
	firstSeen int64
}

// NewTransaction wraps a copy of a transaction encoding.
func NewTransaction(encoded []byte) *Transaction {
	return &Transaction{
		encoded: bytes.Clone(encoded),
	}
}

func (t *Transaction) Encoded() []byte {
	return t.encoded
}

// Size is the length of the transaction encoding in bytes.
func (t *Transaction) Size() int {
	return len(t.encoded)
}

// GetHash returns the hash of the transaction.
func (t *Transaction) GetHash(hasher Hasher[*Transaction]) types.Hash {
	return hasher.Hash(t)
}

// Copy returns a transaction with the same encoding and first seen time.
// The encoding is shared; it is never modified.
func (t *Transaction) Copy() *Transaction {
	return &Transaction{encoded: t.encoded, firstSeen: t.firstSeen}
}

func (t *Transaction) SetFirstSeen(firstSeen int64) {
	t.firstSeen = firstSeen
}

func (t *Transaction) GetFirstSeen() int64 {
	return t.firstSeen
}
