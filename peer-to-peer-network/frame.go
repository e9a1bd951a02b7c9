package network

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxFrameSize caps a single frame read from a peer.
const DefaultMaxFrameSize uint32 = 8 * 1024 * 1024

var ErrFrameTooLarge = errors.New("frame too large")

// WriteFrame writes frame behind a 4 byte big-endian length prefix.
func WriteFrame(w io.Writer, frame []byte, maxSize uint32) error {
	if uint64(len(frame)) > uint64(maxSize) {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrFrameTooLarge, len(frame), maxSize)
	}

	buf := make([]byte, 4+len(frame))
	binary.BigEndian.PutUint32(buf, uint32(len(frame)))
	copy(buf[4:], frame)

	_, err := w.Write(buf)
	return err
}

// ReadFrame reads one length-prefixed frame. The size is checked before any
// of the frame is buffered, so a peer cannot make us allocate more than
// maxSize.
func ReadFrame(r io.Reader, maxSize uint32) ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}

	size := binary.BigEndian.Uint32(prefix[:])
	if size > maxSize {
		return nil, fmt.Errorf("%w: peer announced %d bytes, limit %d", ErrFrameTooLarge, size, maxSize)
	}

	frame := make([]byte, size)
	if _, err := io.ReadFull(r, frame); err != nil {
		return nil, err
	}
	return frame, nil
}
