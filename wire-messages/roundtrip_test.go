package messages

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/AzlanAmjad/canvas-wire/blockchain-core"
	rlp "github.com/AzlanAmjad/canvas-wire/rlp-encoding"
)

func randomHash(r *rand.Rand) []byte {
	b := make([]byte, 32)
	r.Read(b)
	return b
}

// randomEncodedItem returns a small encoded list standing in for a block,
// header or transaction.
func randomEncodedItem(r *rand.Rand) []byte {
	body := make([]byte, 1+r.Intn(200))
	r.Read(body)
	return rlp.EncodeList(rlp.EncodeBytes(body), rlp.EncodeUint(r.Uint64()))
}

func randomMessages(r *rand.Rand) []Message {
	txs := make([]*core.Transaction, 1+r.Intn(5))
	for i := range txs {
		txs[i] = core.NewTransaction(randomEncodedItem(r))
	}

	headers := make([]*core.BlockHeader, 1+r.Intn(5))
	for i := range headers {
		headers[i] = core.NewBlockHeader(randomEncodedItem(r))
	}

	ids := make([]core.BlockIdentifier, 1+r.Intn(5))
	for i := range ids {
		ids[i] = core.NewBlockIdentifier(randomHash(r), r.Uint64())
	}

	return []Message{
		StatusMessage{Height: r.Uint64(), TipHash: randomHash(r)},
		BlockMessage{Block: core.NewBlock(randomEncodedItem(r))},
		GetBlockMessage{Hash: randomHash(r)},
		TransactionsMessage{Transactions: txs},
		GetBlockHashMessage{RequestID: r.Uint64(), Height: r.Uint64()},
		GetBlockHeadersByHashMessage{RequestID: r.Uint64(), Hash: randomHash(r), Count: r.Uint32()},
		BlockHeadersByHashMessage{RequestID: r.Uint64(), Headers: headers},
		GetBlockByHashMessage{RequestID: r.Uint64(), Hash: randomHash(r)},
		BlockByHashMessage{RequestID: r.Uint64(), Block: core.NewBlock(randomEncodedItem(r))},
		SkeletonMessage{RequestID: r.Uint64(), BlockIdentifiers: ids},
		GetBodyMessage{RequestID: r.Uint64(), Hash: randomHash(r)},
		GetSkeletonMessage{HashStart: randomHash(r), HashEnd: randomHash(r)},
		NewBlockHashMessage{Hash: randomHash(r)},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for round := 0; round < 20; round++ {
		for _, msg := range randomMessages(r) {
			decoded, err := DecodeFrame(EncodeFrame(msg))
			require.NoError(t, err, "type %s", msg.Type())
			assert.Equal(t, msg, decoded, "type %s", msg.Type())
		}
	}
}

func TestRoundTripZeroValues(t *testing.T) {
	// zero ids travel as empty strings and come back as zero
	msgs := []Message{
		StatusMessage{Height: 0, TipHash: hashA},
		GetBlockHashMessage{},
		GetBlockHeadersByHashMessage{Hash: hashA},
		GetBodyMessage{Hash: hashB},
	}

	for _, msg := range msgs {
		decoded, err := DecodeFrame(EncodeFrame(msg))
		require.NoError(t, err)
		assert.Equal(t, msg, decoded)
	}
}

func TestEncodeFrameLeadsWithTypeCode(t *testing.T) {
	msg := GetBlockMessage{Hash: hashA}
	f := EncodeFrame(msg)

	assert.Equal(t, byte(TypeGetBlock), f[0])
	assert.Equal(t, Encode(msg), f[1:])
}

func TestTypesAndNames(t *testing.T) {
	types := Types()
	require.Len(t, types, 17)
	for i, code := range types {
		assert.Equal(t, MessageType(i+1), code)
	}

	assert.Equal(t, "Status", TypeStatus.String())
	assert.Equal(t, "GetBlockHeadersByHash", TypeGetBlockHeadersByHash.String())
	assert.Equal(t, "Body", TypeBody.String())
	assert.Equal(t, "NewBlockHash", TypeNewBlockHash.String())
	assert.Equal(t, "Unknown(99)", MessageType(99).String())
	assert.Equal(t, "Unknown(0)", MessageType(0).String())
}

// opaqueItems are elements a peer may send where a block, header or
// transaction is expected, string shaped ones included.
func opaqueItems() [][]byte {
	return [][]byte{
		rlp.EncodeBytes([]byte{0xf8}),
		rlp.EncodeBytes([]byte("abc")),
		rlp.EncodeBytes(rlp.EncodeBytes([]byte("abc"))),
		rlp.EncodeBytes(nil),
		rlp.EncodeBytes([]byte{0x05}),
		rlp.EncodeList(rlp.EncodeBytes([]byte("tx")), rlp.EncodeUint(1)),
		rlp.EncodeList(),
	}
}

func TestTransactionsSurviveReencoding(t *testing.T) {
	in := decodeFrame(t, frame(TypeTransactions, opaqueItems()...)).(TransactionsMessage)
	require.Len(t, in.Transactions, len(opaqueItems()))

	out := decodeFrame(t, EncodeFrame(in)).(TransactionsMessage)
	require.Len(t, out.Transactions, len(in.Transactions))
	for i := range in.Transactions {
		assert.Equal(t, in.Transactions[i].Encoded(), out.Transactions[i].Encoded(), "item %d", i)
	}
}

func TestBlocksAndHeadersSurviveReencoding(t *testing.T) {
	for i, item := range opaqueItems() {
		block := decodeFrame(t, frame(TypeBlock, item)).(BlockMessage)
		again := decodeFrame(t, EncodeFrame(block)).(BlockMessage)
		assert.Equal(t, block.Block.Encoded(), again.Block.Encoded(), "item %d", i)

		byHash := decodeFrame(t, frame(TypeBlockByHash, rlp.EncodeUint(3), item)).(BlockByHashMessage)
		againByHash := decodeFrame(t, EncodeFrame(byHash)).(BlockByHashMessage)
		assert.Equal(t, byHash, againByHash, "item %d", i)
	}

	headers := decodeFrame(t, frame(TypeBlockHeadersByHash, rlp.EncodeUint(1), rlp.EncodeList(opaqueItems()...))).(BlockHeadersByHashMessage)
	again := decodeFrame(t, EncodeFrame(headers)).(BlockHeadersByHashMessage)
	assert.Equal(t, headers, again)
}

func TestStringShapedTransactionIsNotSplit(t *testing.T) {
	// the content of a string element is itself a complete string element
	in := TransactionsMessage{Transactions: []*core.Transaction{core.NewTransaction(rlp.EncodeBytes([]byte("abc")))}}

	out := decodeFrame(t, EncodeFrame(in)).(TransactionsMessage)
	require.Len(t, out.Transactions, 1)
	assert.Equal(t, in.Transactions[0].Encoded(), out.Transactions[0].Encoded())

	one := TransactionsMessage{Transactions: []*core.Transaction{core.NewTransaction([]byte{0xf8})}}
	f := EncodeFrame(one)
	_, err := DecodeFrame(f)
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(TypeTransactions), 0xc2, 0x81, 0xf8}, f)
}

func TestRoundTripNormalizesEmptyValues(t *testing.T) {
	status := decodeFrame(t, EncodeFrame(StatusMessage{Height: 1, TipHash: []byte{}})).(StatusMessage)
	assert.Nil(t, status.TipHash)

	txs := decodeFrame(t, EncodeFrame(TransactionsMessage{})).(TransactionsMessage)
	assert.NotNil(t, txs.Transactions)
	assert.Empty(t, txs.Transactions)

	// nil and empty encode the same way
	assert.Equal(t, EncodeFrame(TransactionsMessage{}), EncodeFrame(TransactionsMessage{Transactions: []*core.Transaction{}}))
	assert.Equal(t, EncodeFrame(StatusMessage{}), EncodeFrame(StatusMessage{TipHash: []byte{}}))
}
