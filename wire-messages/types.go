package messages

import "fmt"

// MessageType is the one-byte code that leads every frame. Codes are part of
// the deployed protocol: they are never renumbered or reused.
type MessageType uint8

const (
	TypeStatus                MessageType = 1
	TypeBlock                 MessageType = 2
	TypeGetBlock              MessageType = 3
	TypeBlockHeaders          MessageType = 4
	TypeGetBlockHeaders       MessageType = 5
	TypeNewBlockHashes        MessageType = 6
	TypeTransactions          MessageType = 7
	TypeGetBlockHash          MessageType = 8
	TypeGetBlockHeadersByHash MessageType = 9
	TypeBlockHeadersByHash    MessageType = 10
	TypeGetBlockByHash        MessageType = 11
	TypeBlockByHash           MessageType = 12
	TypeSkeleton              MessageType = 13
	TypeGetBody               MessageType = 14
	TypeBody                  MessageType = 15
	TypeGetSkeleton           MessageType = 16
	TypeNewBlockHash          MessageType = 17
)

// String returns the registered name of the type, or "Unknown(n)".
func (t MessageType) String() string {
	if int(t) < len(registry) && registry[t].name != "" {
		return registry[t].name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(t))
}
