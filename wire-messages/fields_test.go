package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUint64(t *testing.T) {
	v, err := parseUint64(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	v, err = parseUint64([]byte{})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	v, err = parseUint64([]byte{0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102), v)

	v, err = parseUint64([]byte{0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	_, err = parseUint64([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9})
	assert.ErrorIs(t, err, ErrNumericOverflow)
}

func TestParseCountDiffersFromParseUint64(t *testing.T) {
	nine := []byte{1, 0, 0, 0, 0, 0, 0, 0, 2}

	// the count path keeps the low 32 bits where ids overflow
	assert.Equal(t, uint32(2), parseCount(nine))
	_, err := parseUint64(nine)
	assert.ErrorIs(t, err, ErrNumericOverflow)

	// both read empty input as zero
	assert.Equal(t, uint32(0), parseCount(nil))
}
