package messages

import (
	"bytes"
	"fmt"

	rlp "github.com/AzlanAmjad/canvas-wire/rlp-encoding"
)

// requireFields fails when list holds fewer than n elements. A missing
// element is never defaulted; only an empty one is.
func requireFields(list *rlp.Node, n int) error {
	if list.Len() < n {
		return fmt.Errorf("%w: need %d fields, got %d", ErrTruncatedPayload, n, list.Len())
	}
	return nil
}

// bytesField copies the bytes at position i. Empty fields come back nil.
func bytesField(list *rlp.Node, i int) []byte {
	return bytes.Clone(list.Item(i).Data())
}

// uintField reads a request id, height or number at position i.
func uintField(list *rlp.Node, i int, name string) (uint64, error) {
	v, err := parseUint64(list.Item(i).Data())
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", name, err)
	}
	return v, nil
}

// parseUint64 reads an unsigned big-endian integer. Empty input is 0, which
// existing peers rely on to send zero ids and heights. Leading zero bytes are
// accepted; more than eight significant bytes overflow.
func parseUint64(data []byte) (uint64, error) {
	if len(data) == 0 {
		return 0, nil
	}
	data = bytes.TrimLeft(data, "\x00")
	if len(data) > 8 {
		return 0, fmt.Errorf("%w: %d byte integer does not fit 64 bits", ErrNumericOverflow, len(data))
	}
	var v uint64
	for _, b := range data {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// parseCount reads the count of a GetBlockHeadersByHash request. Unlike
// parseUint64 it never fails: empty input is 0 and longer input keeps its low
// 32 bits, which is how deployed peers have always read this one field.
func parseCount(data []byte) uint32 {
	var v uint32
	for _, b := range data {
		v = v<<8 | uint32(b)
	}
	return v
}

// nestedList decodes the bytes at position i a second time, as a list.
func nestedList(list *rlp.Node, i int, name string) (*rlp.Node, error) {
	nested, err := rlp.DecodeList(list.Item(i).Data())
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", name, err)
	}
	return nested, nil
}

func rlpMismatch(what string) error {
	return fmt.Errorf("%w: %s is not a list", ErrMalformedEncoding, what)
}
