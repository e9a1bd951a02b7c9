package messages

import (
	"bytes"

	core "github.com/AzlanAmjad/canvas-wire/blockchain-core"
	rlp "github.com/AzlanAmjad/canvas-wire/rlp-encoding"
)

// MaxTransactionSize is the largest transaction encoding a Transactions
// message may carry. Larger ones are dropped without failing the message.
const MaxTransactionSize = 512 * 1024

func decodeStatus(list *rlp.Node) (Message, error) {
	if err := requireFields(list, 2); err != nil {
		return nil, err
	}
	height, err := uintField(list, 0, "height")
	if err != nil {
		return nil, err
	}
	return StatusMessage{Height: height, TipHash: bytesField(list, 1)}, nil
}

func decodeBlock(list *rlp.Node) (Message, error) {
	if err := requireFields(list, 1); err != nil {
		return nil, err
	}
	return BlockMessage{Block: core.NewBlock(list.Item(0).Data())}, nil
}

func decodeGetBlock(list *rlp.Node) (Message, error) {
	if err := requireFields(list, 1); err != nil {
		return nil, err
	}
	return GetBlockMessage{Hash: bytesField(list, 0)}, nil
}

func decodeBlockHeaders(list *rlp.Node) (Message, error) {
	return BlockHeadersMessage{Payload: bytes.Clone(list.Raw())}, nil
}

func decodeGetBlockHeaders(list *rlp.Node) (Message, error) {
	return GetBlockHeadersMessage{Payload: bytes.Clone(list.Raw())}, nil
}

func decodeNewBlockHashes(list *rlp.Node) (Message, error) {
	return NewBlockHashesMessage{Payload: bytes.Clone(list.Raw())}, nil
}

func decodeTransactions(list *rlp.Node) (Message, error) {
	txs := make([]*core.Transaction, 0, list.Len())
	for _, item := range list.Items() {
		data := item.Data()
		if len(data) > MaxTransactionSize {
			continue
		}
		txs = append(txs, core.NewTransaction(data))
	}
	return TransactionsMessage{Transactions: txs}, nil
}

func decodeGetBlockHash(list *rlp.Node) (Message, error) {
	if err := requireFields(list, 2); err != nil {
		return nil, err
	}
	id, err := uintField(list, 0, "requestId")
	if err != nil {
		return nil, err
	}
	height, err := uintField(list, 1, "height")
	if err != nil {
		return nil, err
	}
	return GetBlockHashMessage{RequestID: id, Height: height}, nil
}

func decodeGetBlockHeadersByHash(list *rlp.Node) (Message, error) {
	if err := requireFields(list, 3); err != nil {
		return nil, err
	}
	id, err := uintField(list, 0, "requestId")
	if err != nil {
		return nil, err
	}
	return GetBlockHeadersByHashMessage{
		RequestID: id,
		Hash:      bytesField(list, 1),
		Count:     parseCount(list.Item(2).Data()),
	}, nil
}

func decodeBlockHeadersByHash(list *rlp.Node) (Message, error) {
	if err := requireFields(list, 2); err != nil {
		return nil, err
	}
	id, err := uintField(list, 0, "requestId")
	if err != nil {
		return nil, err
	}
	nested, err := nestedList(list, 1, "headers")
	if err != nil {
		return nil, err
	}
	headers := make([]*core.BlockHeader, 0, nested.Len())
	for _, item := range nested.Items() {
		headers = append(headers, core.NewBlockHeader(item.Data()))
	}
	return BlockHeadersByHashMessage{RequestID: id, Headers: headers}, nil
}

func decodeGetBlockByHash(list *rlp.Node) (Message, error) {
	if err := requireFields(list, 2); err != nil {
		return nil, err
	}
	id, err := uintField(list, 0, "requestId")
	if err != nil {
		return nil, err
	}
	return GetBlockByHashMessage{RequestID: id, Hash: bytesField(list, 1)}, nil
}

func decodeBlockByHash(list *rlp.Node) (Message, error) {
	if err := requireFields(list, 2); err != nil {
		return nil, err
	}
	id, err := uintField(list, 0, "requestId")
	if err != nil {
		return nil, err
	}
	return BlockByHashMessage{RequestID: id, Block: core.NewBlock(list.Item(1).Data())}, nil
}

func decodeSkeleton(list *rlp.Node) (Message, error) {
	if err := requireFields(list, 2); err != nil {
		return nil, err
	}
	id, err := uintField(list, 0, "requestId")
	if err != nil {
		return nil, err
	}
	nested, err := nestedList(list, 1, "blockIdentifiers")
	if err != nil {
		return nil, err
	}
	ids := make([]core.BlockIdentifier, 0, nested.Len())
	for _, item := range nested.Items() {
		bid, err := decodeBlockIdentifier(item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, bid)
	}
	return SkeletonMessage{RequestID: id, BlockIdentifiers: ids}, nil
}

// decodeBlockIdentifier reads one [hash, number] checkpoint.
func decodeBlockIdentifier(item *rlp.Node) (core.BlockIdentifier, error) {
	if !item.IsList() {
		return core.BlockIdentifier{}, rlpMismatch("block identifier")
	}
	if err := requireFields(item, 2); err != nil {
		return core.BlockIdentifier{}, err
	}
	number, err := uintField(item, 1, "number")
	if err != nil {
		return core.BlockIdentifier{}, err
	}
	return core.NewBlockIdentifier(item.Item(0).Data(), number), nil
}

func decodeGetBody(list *rlp.Node) (Message, error) {
	if err := requireFields(list, 2); err != nil {
		return nil, err
	}
	id, err := uintField(list, 0, "requestId")
	if err != nil {
		return nil, err
	}
	return GetBodyMessage{RequestID: id, Hash: bytesField(list, 1)}, nil
}

// decodeBody never produces a message. Body responses are not handled yet,
// and peers sending them must not be treated as misbehaving.
func decodeBody(*rlp.Node) (Message, error) {
	return nil, nil
}

func decodeGetSkeleton(list *rlp.Node) (Message, error) {
	if err := requireFields(list, 2); err != nil {
		return nil, err
	}
	return GetSkeletonMessage{HashStart: bytesField(list, 0), HashEnd: bytesField(list, 1)}, nil
}

func decodeNewBlockHash(list *rlp.Node) (Message, error) {
	if err := requireFields(list, 1); err != nil {
		return nil, err
	}
	return NewBlockHashMessage{Hash: bytesField(list, 0)}, nil
}
