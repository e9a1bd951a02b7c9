package messages

import (
	core "github.com/AzlanAmjad/canvas-wire/blockchain-core"
	rlp "github.com/AzlanAmjad/canvas-wire/rlp-encoding"
)

// Encode returns the encoded field list of m, without the type code.
func Encode(m Message) []byte {
	return m.payload()
}

// EncodeFrame returns the type code followed by the encoded field list, the
// form DecodeFrame reads.
func EncodeFrame(m Message) []byte {
	p := m.payload()
	frame := make([]byte, 0, len(p)+1)
	frame = append(frame, byte(m.Type()))
	return append(frame, p...)
}

// passThrough returns an opaque payload, or an empty list when there is none.
func passThrough(payload []byte) []byte {
	if len(payload) == 0 {
		return rlp.EncodeList()
	}
	return payload
}

// opaqueItem returns the element a block, header or transaction travels as.
// Decoding keeps a list element whole but only the content of a string
// element, so anything that is not exactly one list is encoded as a string
// again. Either way the element decodes back to b.
func opaqueItem(b []byte) []byte {
	if _, err := rlp.DecodeList(b); err == nil {
		return b
	}
	return rlp.EncodeBytes(b)
}

func (m StatusMessage) payload() []byte {
	return rlp.EncodeList(rlp.EncodeUint(m.Height), rlp.EncodeBytes(m.TipHash))
}

func (m BlockMessage) payload() []byte {
	return rlp.EncodeList(opaqueItem(m.Block.Encoded()))
}

func (m GetBlockMessage) payload() []byte {
	return rlp.EncodeList(rlp.EncodeBytes(m.Hash))
}

func (m BlockHeadersMessage) payload() []byte {
	return passThrough(m.Payload)
}

func (m GetBlockHeadersMessage) payload() []byte {
	return passThrough(m.Payload)
}

func (m NewBlockHashesMessage) payload() []byte {
	return passThrough(m.Payload)
}

func (m TransactionsMessage) payload() []byte {
	items := make([][]byte, 0, len(m.Transactions))
	for _, tx := range m.Transactions {
		items = append(items, opaqueItem(tx.Encoded()))
	}
	return rlp.EncodeList(items...)
}

func (m GetBlockHashMessage) payload() []byte {
	return rlp.EncodeList(rlp.EncodeUint(m.RequestID), rlp.EncodeUint(m.Height))
}

func (m GetBlockHeadersByHashMessage) payload() []byte {
	return rlp.EncodeList(
		rlp.EncodeUint(m.RequestID),
		rlp.EncodeBytes(m.Hash),
		rlp.EncodeUint(uint64(m.Count)),
	)
}

func (m BlockHeadersByHashMessage) payload() []byte {
	headers := make([][]byte, 0, len(m.Headers))
	for _, h := range m.Headers {
		headers = append(headers, opaqueItem(h.Encoded()))
	}
	return rlp.EncodeList(rlp.EncodeUint(m.RequestID), rlp.EncodeList(headers...))
}

func (m GetBlockByHashMessage) payload() []byte {
	return rlp.EncodeList(rlp.EncodeUint(m.RequestID), rlp.EncodeBytes(m.Hash))
}

func (m BlockByHashMessage) payload() []byte {
	return rlp.EncodeList(rlp.EncodeUint(m.RequestID), opaqueItem(m.Block.Encoded()))
}

func (m SkeletonMessage) payload() []byte {
	ids := make([][]byte, 0, len(m.BlockIdentifiers))
	for _, id := range m.BlockIdentifiers {
		ids = append(ids, encodeBlockIdentifier(id))
	}
	return rlp.EncodeList(rlp.EncodeUint(m.RequestID), rlp.EncodeList(ids...))
}

func encodeBlockIdentifier(id core.BlockIdentifier) []byte {
	return rlp.EncodeList(rlp.EncodeBytes(id.Hash), rlp.EncodeUint(id.Number))
}

func (m GetBodyMessage) payload() []byte {
	return rlp.EncodeList(rlp.EncodeUint(m.RequestID), rlp.EncodeBytes(m.Hash))
}

func (m GetSkeletonMessage) payload() []byte {
	return rlp.EncodeList(rlp.EncodeBytes(m.HashStart), rlp.EncodeBytes(m.HashEnd))
}

func (m NewBlockHashMessage) payload() []byte {
	return rlp.EncodeList(rlp.EncodeBytes(m.Hash))
}
