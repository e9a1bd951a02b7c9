package main

import (
	"bytes"
	"crypto/rand"
	"flag"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	core "github.com/AzlanAmjad/canvas-wire/blockchain-core"
	network "github.com/AzlanAmjad/canvas-wire/peer-to-peer-network"
	rlp "github.com/AzlanAmjad/canvas-wire/rlp-encoding"
	messages "github.com/AzlanAmjad/canvas-wire/wire-messages"
)

// test-client acts as a peer: it connects to a node and sends one frame of
// every message type, then a frame the node cannot decode, which gets it
// disconnected.
func main() {
	addr := flag.String("node", "localhost:3000", "node p2p address")
	delay := flag.Duration("delay", 200*time.Millisecond, "pause between frames")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to node")
	}
	defer conn.Close()

	for _, msg := range sampleMessages() {
		if err := network.WriteFrame(conn, messages.EncodeFrame(msg), network.DefaultMaxFrameSize); err != nil {
			logrus.WithError(err).Fatal("Failed to send frame")
		}
		logrus.WithField("type", msg.Type()).Info("Sent frame")
		time.Sleep(*delay)
	}

	// Body frames are accepted but never decoded
	body := append([]byte{byte(messages.TypeBody)}, rlp.EncodeList()...)
	if err := network.WriteFrame(conn, body, network.DefaultMaxFrameSize); err != nil {
		logrus.WithError(err).Fatal("Failed to send frame")
	}
	logrus.WithField("type", messages.TypeBody).Info("Sent frame")
	time.Sleep(*delay)

	// unknown type code, the node drops us
	if err := network.WriteFrame(conn, []byte{0x63, 0xc0}, network.DefaultMaxFrameSize); err != nil {
		logrus.WithError(err).Fatal("Failed to send frame")
	}
	logrus.Info("Sent undecodable frame, waiting for the node to hang up")

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		if _, err := network.ReadFrame(conn, network.DefaultMaxFrameSize); err != nil {
			logrus.WithError(err).Info("Connection closed")
			return
		}
	}
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		logrus.WithError(err).Fatal("Failed to generate random bytes")
	}
	return b
}

func encodedItem(size int) []byte {
	return rlp.EncodeList(rlp.EncodeBytes(randomBytes(size)), rlp.EncodeUint(uint64(time.Now().Unix())))
}

func sampleMessages() []messages.Message {
	block := core.NewBlock(encodedItem(256))
	hash := randomBytes(32)

	txs := make([]*core.Transaction, 0, 3)
	for i := 0; i < 3; i++ {
		txs = append(txs, core.NewTransaction(encodedItem(64)))
	}

	return []messages.Message{
		messages.StatusMessage{Height: 1024, TipHash: hash},
		messages.BlockMessage{Block: block},
		messages.GetBlockMessage{Hash: block.GetHash(core.NewBlockHasher()).Bytes()},
		messages.BlockHeadersMessage{Payload: rlp.EncodeList(encodedItem(32))},
		messages.GetBlockHeadersMessage{Payload: rlp.EncodeList(rlp.EncodeBytes(hash), rlp.EncodeUint(10))},
		messages.NewBlockHashesMessage{Payload: rlp.EncodeList(rlp.EncodeList(rlp.EncodeBytes(hash), rlp.EncodeUint(1)))},
		messages.TransactionsMessage{Transactions: txs},
		messages.GetBlockHashMessage{RequestID: 1, Height: 1000},
		messages.GetBlockHeadersByHashMessage{RequestID: 2, Hash: hash, Count: 192},
		messages.BlockHeadersByHashMessage{RequestID: 3, Headers: []*core.BlockHeader{core.NewBlockHeader(encodedItem(32))}},
		messages.GetBlockByHashMessage{RequestID: 4, Hash: block.GetHash(core.NewBlockHasher()).Bytes()},
		messages.BlockByHashMessage{RequestID: 5, Block: block},
		messages.SkeletonMessage{RequestID: 6, BlockIdentifiers: []core.BlockIdentifier{
			core.NewBlockIdentifier(hash, 0),
			core.NewBlockIdentifier(bytes.Repeat([]byte{0x01}, 32), 192),
		}},
		messages.GetBodyMessage{RequestID: 7, Hash: hash},
		messages.GetSkeletonMessage{HashStart: hash, HashEnd: bytes.Repeat([]byte{0x02}, 32)},
		messages.NewBlockHashMessage{Hash: randomBytes(32)},
	}
}
