package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransactionHash(t *testing.T) {
	tx := NewTransaction([]byte("hello"))
	hasher := NewTransactionHasher()

	// hashing twice gives the same value
	assert.Equal(t, tx.GetHash(hasher), tx.GetHash(hasher))
	assert.NotEqual(t, tx.GetHash(hasher), NewTransaction([]byte("hello!")).GetHash(hasher))
}

func TestTransactionFirstSeen(t *testing.T) {
	tx := NewTransaction([]byte("hello"))
	assert.Equal(t, int64(0), tx.GetFirstSeen())

	now := time.Now().UnixNano()
	tx.SetFirstSeen(now)
	assert.Equal(t, now, tx.GetFirstSeen())

	// first seen is local bookkeeping, the hash ignores it
	other := NewTransaction([]byte("hello"))
	assert.Equal(t, other.GetHash(NewTransactionHasher()), tx.GetHash(NewTransactionHasher()))
}

func TestTransactionCopy(t *testing.T) {
	tx := NewTransaction([]byte{0xc1, 0x01})
	tx.SetFirstSeen(10)

	c := tx.Copy()
	assert.Equal(t, tx, c)

	c.SetFirstSeen(20)
	assert.Equal(t, int64(10), tx.GetFirstSeen())
	assert.Equal(t, int64(20), c.GetFirstSeen())
}
