package rlp

import (
	gethrlp "github.com/ethereum/go-ethereum/rlp"
)

// EncodeBytes encodes b as a string element.
func EncodeBytes(b []byte) []byte {
	w := gethrlp.NewEncoderBuffer(nil)
	defer w.Flush()
	w.WriteBytes(b)
	return w.ToBytes()
}

// EncodeUint encodes v as its minimal big-endian bytes. Zero becomes the
// empty string.
func EncodeUint(v uint64) []byte {
	return gethrlp.AppendUint64(nil, v)
}

// UintBytes returns v as big-endian bytes without leading zeros.
func UintBytes(v uint64) []byte {
	enc := EncodeUint(v)
	switch {
	case v == 0:
		return nil
	case v < 0x80:
		// small values are their own encoding
		return enc
	default:
		return enc[1:]
	}
}

// EncodeList wraps already encoded items in a list header.
func EncodeList(items ...[]byte) []byte {
	w := gethrlp.NewEncoderBuffer(nil)
	defer w.Flush()
	idx := w.List()
	for _, item := range items {
		w.Write(item)
	}
	w.ListEnd(idx)
	return w.ToBytes()
}
