package types

import (
	"encoding/hex"
	"fmt"
)

// HashLength is the size of a Keccak-256 digest.
const HashLength = 32

// Hash is the hash of a block, block header or transaction encoding.
type Hash [HashLength]byte

// BytesToHash copies b into a Hash. Hashes arrive from peers, so a wrong
// length is an error rather than a panic.
func BytesToHash(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashLength {
		return h, fmt.Errorf("invalid hash length %d, want %d", len(b), HashLength)
	}
	copy(h[:], b)
	return h, nil
}

// HexToHash parses a hex string, with or without a 0x prefix.
func HexToHash(s string) (Hash, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, err
	}
	return BytesToHash(b)
}

func (h Hash) Bytes() []byte {
	return h[:]
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) IsZero() bool {
	for _, b := range h {
		if b != 0 {
			return false
		}
	}
	return true
}
