package rlp

import (
	"errors"
	"fmt"

	gethrlp "github.com/ethereum/go-ethereum/rlp"
)

// MaxDepth bounds how many lists may be open at once while decoding.
// Peers control the nesting, so the decoder refuses anything deeper.
const MaxDepth = 64

var ErrMalformedEncoding = errors.New("rlp: malformed encoding")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedEncoding, fmt.Sprintf(format, args...))
}

// openList is a list whose items are still being read.
type openList struct {
	node *Node
	end  int
}

// Decode reads the element that starts at offset in buf. It returns the
// decoded node and how many bytes it used. Bytes after the element are left
// alone.
//
// The decoder keeps its own stack of open lists instead of recursing, so the
// work done is linear in the size of the element.
func Decode(buf []byte, offset int) (*Node, int, error) {
	if offset < 0 || offset > len(buf) {
		return nil, 0, malformed("offset %d outside buffer of %d bytes", offset, len(buf))
	}

	var stack []openList
	pos := offset

	for {
		kind, headerLen, contentLen, err := readHeader(buf, pos)
		if err != nil {
			return nil, 0, err
		}
		end := pos + headerLen + contentLen

		// every element has to fit inside the list that holds it
		if len(stack) > 0 && end > stack[len(stack)-1].end {
			return nil, 0, malformed("element at %d ends at %d, past its list end %d", pos, end, stack[len(stack)-1].end)
		}

		node := &Node{
			kind:    kind,
			raw:     buf[pos:end],
			content: buf[pos+headerLen : end],
		}

		if kind == List && contentLen > 0 {
			if len(stack) >= MaxDepth {
				return nil, 0, malformed("nesting deeper than %d lists", MaxDepth)
			}
			stack = append(stack, openList{node: node, end: end})
			pos += headerLen
			continue
		}
		pos = end

		// hand the finished node to its parent, closing every list that
		// is now complete
		for {
			if len(stack) == 0 {
				return node, pos - offset, nil
			}
			top := &stack[len(stack)-1]
			top.node.items = append(top.node.items, node)
			if pos < top.end {
				break
			}
			node = top.node
			stack = stack[:len(stack)-1]
		}
	}
}

// DecodeList decodes buf as exactly one list. Trailing bytes, or a string
// where the list should be, are reported as malformed.
func DecodeList(buf []byte) (*Node, error) {
	_, rest, err := gethrlp.SplitList(buf)
	if errors.Is(err, gethrlp.ErrExpectedList) {
		return nil, malformed("expected a list, got a string")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEncoding, err)
	}
	if len(rest) > 0 {
		return nil, malformed("%d trailing bytes after list", len(rest))
	}
	node, _, err := Decode(buf, 0)
	if err != nil {
		return nil, err
	}
	return node, nil
}

// readHeader parses the prefix at pos and returns the element kind, the
// prefix length and the content length. The content is guaranteed to fit in
// buf. Sizes must be canonical: a long form for short content, or a length
// with leading zero bytes, is malformed.
func readHeader(buf []byte, pos int) (Kind, int, int, error) {
	if pos >= len(buf) {
		return 0, 0, 0, malformed("unexpected end of input at %d", pos)
	}

	kind, content, rest, err := gethrlp.Split(buf[pos:])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: element at %d: %w", ErrMalformedEncoding, pos, err)
	}

	headerLen := len(buf) - pos - len(content) - len(rest)
	if kind == gethrlp.List {
		return List, headerLen, len(content), nil
	}
	// a single byte below 0x80 is its own payload, headerLen is 0
	return String, headerLen, len(content), nil
}
