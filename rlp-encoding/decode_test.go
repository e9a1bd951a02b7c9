package rlp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gethrlp "github.com/ethereum/go-ethereum/rlp"
)

func TestDecodeSingleByte(t *testing.T) {
	node, n, err := Decode([]byte{0x42}, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, String, node.Kind())
	assert.Equal(t, []byte{0x42}, node.Bytes())
	assert.Equal(t, []byte{0x42}, node.Raw())
}

func TestDecodeEmptyString(t *testing.T) {
	node, n, err := Decode([]byte{0x80}, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Empty(t, node.Bytes())
	// an empty string reads as nil, the value numeric fields default from
	assert.Nil(t, node.Data())
}

func TestDecodeShortAndLongStrings(t *testing.T) {
	short := []byte("dog")
	node, n, err := Decode(EncodeBytes(short), 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, short, node.Bytes())

	long := bytes.Repeat([]byte{0xaa}, 1024)
	enc := EncodeBytes(long)
	// 0xb9 followed by a two byte length
	assert.Equal(t, []byte{0xb9, 0x04, 0x00}, enc[:3])

	node, n, err = Decode(enc, 0)
	require.NoError(t, err)
	assert.Equal(t, len(enc), n)
	assert.Equal(t, long, node.Bytes())
}

func TestDecodeAtOffset(t *testing.T) {
	buf := append([]byte{0xff, 0xff}, EncodeBytes([]byte("cat"))...)
	buf = append(buf, 0x01)

	node, n, err := Decode(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte("cat"), node.Bytes())
}

func TestDecodeNestedList(t *testing.T) {
	// [ "cat", [ "dog", [] ], "" ]
	inner := EncodeList(EncodeBytes([]byte("dog")), EncodeList())
	enc := EncodeList(EncodeBytes([]byte("cat")), inner, EncodeBytes(nil))

	node, err := DecodeList(enc)
	require.NoError(t, err)

	assert.True(t, node.IsList())
	assert.Equal(t, 3, node.Len())
	assert.Equal(t, []byte("cat"), node.Item(0).Data())
	assert.Nil(t, node.Item(2).Data())

	nested := node.Item(1)
	assert.True(t, nested.IsList())
	assert.Equal(t, 2, nested.Len())
	assert.Equal(t, []byte("dog"), nested.Item(0).Bytes())
	assert.True(t, nested.Item(1).IsList())
	assert.Equal(t, 0, nested.Item(1).Len())

	// a list field reads as its whole encoding
	assert.Equal(t, inner, nested.Data())
	assert.Equal(t, inner, nested.Raw())
}

func TestDecodeLongList(t *testing.T) {
	items := make([][]byte, 0, 40)
	for i := 0; i < 40; i++ {
		items = append(items, EncodeBytes([]byte("item")))
	}
	enc := EncodeList(items...)
	assert.Equal(t, byte(0xf8), enc[0])

	node, err := DecodeList(enc)
	require.NoError(t, err)
	assert.Equal(t, 40, node.Len())
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
	}{
		{"empty input", []byte{}},
		{"string longer than input", []byte{0x83, 'a', 'b'}},
		{"truncated long string header", []byte{0xb9, 0x01}},
		{"long string length past input", []byte{0xb8, 0x40, 0x01}},
		{"truncated long list header", []byte{0xf9}},
		{"list longer than input", []byte{0xc5, 0x80}},
		{"child overruns its list", []byte{0xc2, 0x83, 'a', 'b', 'c'}},
		{"huge length of length", []byte{0xbf, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := Decode(c.buf, 0)
			assert.ErrorIs(t, err, ErrMalformedEncoding)
		})
	}
}

func TestDecodeOffsetOutOfRange(t *testing.T) {
	_, _, err := Decode([]byte{0x80}, 5)
	assert.ErrorIs(t, err, ErrMalformedEncoding)

	_, _, err = Decode([]byte{0x80}, -1)
	assert.ErrorIs(t, err, ErrMalformedEncoding)
}

func TestDecodeListRejectsTrailingBytesAndStrings(t *testing.T) {
	enc := append(EncodeList(EncodeBytes([]byte("a"))), 0x80)
	_, err := DecodeList(enc)
	assert.ErrorIs(t, err, ErrMalformedEncoding)

	_, err = DecodeList(EncodeBytes([]byte("not a list")))
	assert.ErrorIs(t, err, ErrMalformedEncoding)
}

func nestedLists(depth int) []byte {
	enc := EncodeList()
	for i := 1; i < depth; i++ {
		enc = EncodeList(enc)
	}
	return enc
}

func TestDecodeDepthLimit(t *testing.T) {
	// the innermost list is empty, so MaxDepth+1 nested lists keep
	// MaxDepth of them open at once
	node, err := DecodeList(nestedLists(MaxDepth + 1))
	require.NoError(t, err)
	assert.Equal(t, 1, node.Len())

	_, err = DecodeList(nestedLists(MaxDepth + 2))
	assert.ErrorIs(t, err, ErrMalformedEncoding)
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 0x7f, 0x80, 0xff, 0x100, 0xdeadbeef, 1<<64 - 1}
	items := make([][]byte, 0, len(values))
	for _, v := range values {
		items = append(items, EncodeUint(v))
	}

	node, err := DecodeList(EncodeList(items...))
	require.NoError(t, err)
	require.Equal(t, len(values), node.Len())

	for i, v := range values {
		assert.Equal(t, UintBytes(v), node.Item(i).Data(), "value %d", v)
	}
}

func TestDecodeRejectsNonCanonicalSizes(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
	}{
		{"long form for a one byte string", []byte{0xb8, 0x01, 'a'}},
		{"single byte wrapped in a string header", []byte{0x81, 0x05}},
		{"list length with a leading zero", []byte{0xf9, 0x00, 0x01, 0x80}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := Decode(c.buf, 0)
			assert.ErrorIs(t, err, ErrMalformedEncoding)
			assert.ErrorIs(t, err, gethrlp.ErrCanonSize)
		})
	}
}

func TestEncodeMatchesCanonicalForm(t *testing.T) {
	assert.Equal(t, []byte{0x80}, EncodeBytes(nil))
	assert.Equal(t, []byte{0x05}, EncodeBytes([]byte{0x05}))
	assert.Equal(t, []byte{0x81, 0x80}, EncodeBytes([]byte{0x80}))
	assert.Equal(t, []byte{0x83, 'd', 'o', 'g'}, EncodeBytes([]byte("dog")))

	assert.Equal(t, []byte{0x80}, EncodeUint(0))
	assert.Equal(t, []byte{0x7f}, EncodeUint(0x7f))
	assert.Equal(t, []byte{0x82, 0x04, 0x00}, EncodeUint(1024))

	assert.Nil(t, UintBytes(0))
	assert.Equal(t, []byte{0x7f}, UintBytes(0x7f))
	assert.Equal(t, []byte{0x80}, UintBytes(0x80))
	assert.Equal(t, []byte{0x04, 0x00}, UintBytes(1024))

	assert.Equal(t, []byte{0xc0}, EncodeList())
	assert.Equal(t, []byte{0xc2, 0x80, 0x01}, EncodeList(EncodeBytes(nil), EncodeUint(1)))
}
