package api

import (
	"encoding/hex"
	"time"

	core "github.com/AzlanAmjad/canvas-wire/blockchain-core"
	network "github.com/AzlanAmjad/canvas-wire/peer-to-peer-network"
	messages "github.com/AzlanAmjad/canvas-wire/wire-messages"
)

var (
	blockHasher       = core.NewBlockHasher()
	headerHasher      = core.NewBlockHeaderHasher()
	transactionHasher = core.NewTransactionHasher()
)

// Decoded is the answer to POST /decode. Message is null when the type's
// decoder yields no message (Body).
type Decoded struct {
	Code    uint8          `json:"code"`
	Type    string         `json:"type"`
	Message map[string]any `json:"message"`
}

type MessageTypeInfo struct {
	Code uint8  `json:"code"`
	Name string `json:"name"`
}

// transaction to send as JSON
type Transaction struct {
	Hash      string     `json:"hash"`
	Size      int        `json:"size"`
	Data      string     `json:"data"`
	FirstSeen *time.Time `json:"first_seen,omitempty"`
}

type Mempool struct {
	Count        int            `json:"count"`
	Transactions []*Transaction `json:"transactions"`
}

// block type to send as JSON
type Block struct {
	Hash string `json:"hash"`
	Size int    `json:"size"`
	Data string `json:"data"`
}

type BlockIdentifier struct {
	Hash   string `json:"hash"`
	Number uint64 `json:"number"`
}

type Peer struct {
	Addr     string    `json:"addr"`
	Height   uint64    `json:"height"`
	TipHash  string    `json:"tip_hash"`
	Messages uint64    `json:"messages"`
	LastSeen time.Time `json:"last_seen"`
}

func CreateJSONTransaction(tx *core.Transaction) *Transaction {
	txJSON := &Transaction{
		Hash: tx.GetHash(transactionHasher).String(),
		Size: tx.Size(),
		Data: hex.EncodeToString(tx.Encoded()),
	}
	if tx.GetFirstSeen() != 0 {
		firstSeen := time.Unix(0, tx.GetFirstSeen()).UTC()
		txJSON.FirstSeen = &firstSeen
	}
	return txJSON
}

func CreateJSONBlock(block *core.Block) *Block {
	return &Block{
		Hash: block.GetHash(blockHasher).String(),
		Size: block.Size(),
		Data: hex.EncodeToString(block.Encoded()),
	}
}

func CreateJSONPeer(stat network.PeerStat) *Peer {
	return &Peer{
		Addr:     string(stat.Addr),
		Height:   stat.Height,
		TipHash:  hex.EncodeToString(stat.TipHash),
		Messages: stat.Messages,
		LastSeen: stat.LastSeen.UTC(),
	}
}

// CreateJSONMessage turns a decoded message into a JSON object, byte fields
// as hex. A nil message, as Body decodes to, gives nil.
func CreateJSONMessage(msg messages.Message) map[string]any {
	switch m := msg.(type) {
	case messages.StatusMessage:
		return map[string]any{"height": m.Height, "tip_hash": hex.EncodeToString(m.TipHash)}
	case messages.BlockMessage:
		return map[string]any{"block": CreateJSONBlock(m.Block)}
	case messages.GetBlockMessage:
		return map[string]any{"hash": hex.EncodeToString(m.Hash)}
	case messages.BlockHeadersMessage:
		return map[string]any{"payload": hex.EncodeToString(m.Payload)}
	case messages.GetBlockHeadersMessage:
		return map[string]any{"payload": hex.EncodeToString(m.Payload)}
	case messages.NewBlockHashesMessage:
		return map[string]any{"payload": hex.EncodeToString(m.Payload)}
	case messages.TransactionsMessage:
		txs := make([]*Transaction, 0, len(m.Transactions))
		for _, tx := range m.Transactions {
			txs = append(txs, CreateJSONTransaction(tx))
		}
		return map[string]any{"transactions": txs}
	case messages.GetBlockHashMessage:
		return map[string]any{"request_id": m.RequestID, "height": m.Height}
	case messages.GetBlockHeadersByHashMessage:
		return map[string]any{"request_id": m.RequestID, "hash": hex.EncodeToString(m.Hash), "count": m.Count}
	case messages.BlockHeadersByHashMessage:
		headers := make([]*Block, 0, len(m.Headers))
		for _, h := range m.Headers {
			headers = append(headers, &Block{
				Hash: h.GetHash(headerHasher).String(),
				Size: len(h.Encoded()),
				Data: hex.EncodeToString(h.Encoded()),
			})
		}
		return map[string]any{"request_id": m.RequestID, "headers": headers}
	case messages.GetBlockByHashMessage:
		return map[string]any{"request_id": m.RequestID, "hash": hex.EncodeToString(m.Hash)}
	case messages.BlockByHashMessage:
		return map[string]any{"request_id": m.RequestID, "block": CreateJSONBlock(m.Block)}
	case messages.SkeletonMessage:
		ids := make([]BlockIdentifier, 0, len(m.BlockIdentifiers))
		for _, id := range m.BlockIdentifiers {
			ids = append(ids, BlockIdentifier{Hash: hex.EncodeToString(id.Hash), Number: id.Number})
		}
		return map[string]any{"request_id": m.RequestID, "block_identifiers": ids}
	case messages.GetBodyMessage:
		return map[string]any{"request_id": m.RequestID, "hash": hex.EncodeToString(m.Hash)}
	case messages.GetSkeletonMessage:
		return map[string]any{"hash_start": hex.EncodeToString(m.HashStart), "hash_end": hex.EncodeToString(m.HashEnd)}
	case messages.NewBlockHashMessage:
		return map[string]any{"hash": hex.EncodeToString(m.Hash)}
	default:
		return nil
	}
}
