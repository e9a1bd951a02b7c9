package messages

import (
	"errors"
	"fmt"

	rlp "github.com/AzlanAmjad/canvas-wire/rlp-encoding"
)

var (
	ErrUnknownMessageType = errors.New("unknown message type")
	// ErrTruncatedPayload means a payload list has fewer elements than its
	// message type reads.
	ErrTruncatedPayload = errors.New("truncated payload")
	// ErrNumericOverflow means an integer field does not fit its width.
	ErrNumericOverflow = errors.New("numeric overflow")
	// ErrMalformedEncoding is returned for payloads the tree decoder rejects.
	ErrMalformedEncoding = rlp.ErrMalformedEncoding
)

// UnknownMessageTypeError carries the code nobody registered.
type UnknownMessageTypeError struct {
	Code MessageType
}

func (e *UnknownMessageTypeError) Error() string {
	return fmt.Sprintf("unknown message type: %d", uint8(e.Code))
}

func (e *UnknownMessageTypeError) Is(target error) bool {
	return target == ErrUnknownMessageType
}

// ErrorKind classifies a decode error for logs and metrics labels.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrUnknownMessageType):
		return "unknown_type"
	case errors.Is(err, ErrTruncatedPayload):
		return "truncated_payload"
	case errors.Is(err, ErrNumericOverflow):
		return "numeric_overflow"
	case errors.Is(err, ErrMalformedEncoding):
		return "malformed_encoding"
	default:
		return "other"
	}
}
