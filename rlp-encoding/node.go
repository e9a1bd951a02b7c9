package rlp

// Kind tells whether a Node is a byte string or a list.
type Kind uint8

const (
	String Kind = iota
	List
)

func (k Kind) String() string {
	if k == List {
		return "list"
	}
	return "string"
}

// Node is one element of a decoded tree. Nodes share memory with the buffer
// they were decoded from, so callers that keep bytes past the lifetime of
// that buffer must copy them.
type Node struct {
	kind    Kind
	raw     []byte // the full encoding, prefix included
	content []byte // string payload, or the concatenated encodings of the list items
	items   []*Node
}

func (n *Node) Kind() Kind {
	return n.kind
}

func (n *Node) IsList() bool {
	return n.kind == List
}

// Raw returns the exact bytes this node was decoded from.
func (n *Node) Raw() []byte {
	return n.raw
}

// Bytes returns the payload of a string node. For a list it returns the
// concatenated encodings of its items.
func (n *Node) Bytes() []byte {
	return n.content
}

// Data is what a message field reads from a position in a list: the payload
// of a string node (nil when it is empty) or the full encoding of a list node.
func (n *Node) Data() []byte {
	if n.kind == List {
		return n.raw
	}
	if len(n.content) == 0 {
		return nil
	}
	return n.content
}

// Items returns the children of a list node, nil for strings.
func (n *Node) Items() []*Node {
	return n.items
}

// Len returns the number of children of a list node.
func (n *Node) Len() int {
	return len(n.items)
}

// Item returns the i-th child of a list node.
func (n *Node) Item(i int) *Node {
	return n.items[i]
}
