package network

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"

	core "github.com/AzlanAmjad/canvas-wire/blockchain-core"
	types "github.com/AzlanAmjad/canvas-wire/data-types"
	messages "github.com/AzlanAmjad/canvas-wire/wire-messages"
)

// The server is a container which will contain every module of the node.
// It reads frames off its transport, decodes them, and answers the ones a
// relaying node can answer: block requests from storage, transactions into
// the mempool, status into the peer table.

// One node runs one transport. Seed nodes are dialed on start when the
// transport can dial.
type ServerOptions struct {
	ID            string
	Transport     Transport
	SeedNodes     []NetAddr
	Logger        log.Logger
	RPCDecodeFunc RPCDecodeFunc
	RPCProcessor  RPCProcessor
	// blocks received from peers, used to answer block requests
	Storage        core.Storage
	MaxMemPoolSize int
}

// PeerStat is what we know about one peer.
type PeerStat struct {
	Addr     NetAddr
	Height   uint64
	TipHash  []byte
	Messages uint64
	LastSeen time.Time
}

type Server struct {
	ServerOptions ServerOptions
	// holds transactions relayed by peers
	memPool     *TxPool
	blockHasher core.Hasher[*core.Block]

	peerLock sync.RWMutex
	peers    map[NetAddr]*PeerStat

	quitChannel chan struct{}
	quitOnce    sync.Once
}

type dialer interface {
	Dial(NetAddr) error
}

// NewServer creates a new server with the given options.
func NewServer(options ServerOptions) (*Server, error) {
	if options.Transport == nil {
		return nil, errors.New("server needs a transport")
	}
	if options.Storage == nil {
		return nil, errors.New("server needs block storage")
	}
	// setting default values if none are specified
	if options.Logger == nil {
		options.Logger = log.NewLogfmtLogger(os.Stderr)
		options.Logger = log.With(options.Logger, "ID", options.ID)
	}
	if options.MaxMemPoolSize == 0 {
		options.MaxMemPoolSize = 100
	}

	s := &Server{
		ServerOptions: options,
		memPool:       NewTxPool(options.MaxMemPoolSize),
		blockHasher:   core.NewBlockHasher(),
		peers:         make(map[NetAddr]*PeerStat),
		quitChannel:   make(chan struct{}),
	}

	// Set the default RPC decoder.
	if s.ServerOptions.RPCDecodeFunc == nil {
		s.ServerOptions.RPCDecodeFunc = DefaultRPCDecoder
	}

	// Set the default RPC processor.
	if s.ServerOptions.RPCProcessor == nil {
		s.ServerOptions.RPCProcessor = s
	}

	s.ServerOptions.Logger.Log(
		"msg", "server created",
		"server_id", s.ServerOptions.ID,
		"addr", options.Transport.GetAddr(),
	)

	return s, nil
}

// dial the seed nodes, our own address is skipped
func (s *Server) bootstrapNetwork() {
	d, ok := s.ServerOptions.Transport.(dialer)
	if !ok {
		return
	}
	for _, seed := range s.ServerOptions.SeedNodes {
		if seed == s.ServerOptions.Transport.GetAddr() {
			s.ServerOptions.Logger.Log("msg", "We are a seed node, not dialing ourselves", "seed", seed)
			continue
		}
		if err := d.Dial(seed); err != nil {
			logrus.WithError(err).WithField("seed", seed).Error("Failed to dial seed node")
			continue
		}
		s.ServerOptions.Logger.Log("msg", "Dialed seed node", "seed", seed)
	}
}

// Start will start the server. It blocks until Stop is called.
func (s *Server) Start() error {
	s.ServerOptions.Logger.Log("msg", "Starting main server loop", "server_id", s.ServerOptions.ID)
	go s.bootstrapNetwork()

	for {
		select {
		case rpc := <-s.ServerOptions.Transport.Consume():
			s.handleRPC(rpc)
		case <-s.quitChannel:
			s.ServerOptions.Logger.Log("msg", "Received quit signal", "server_id", s.ServerOptions.ID)
			s.handleQuit()
			return nil
		}
	}
}

// handleRPC decodes one frame and processes it. A peer whose frame does not
// decode is dropped; nothing it sends can take the node down.
func (s *Server) handleRPC(rpc ReceiveRPC) {
	decoded, err := s.ServerOptions.RPCDecodeFunc(rpc)
	if err != nil {
		RecordDecodeFailure(err)
		logrus.WithError(err).WithFields(logrus.Fields{
			"peer": rpc.From,
			"kind": messages.ErrorKind(err),
		}).Warn("Dropping peer after undecodable message")
		s.dropPeer(rpc.From)
		return
	}

	RecordDecoded(decoded.Header)
	s.touchPeer(rpc.From)

	if decoded.Message == nil {
		s.ServerOptions.Logger.Log("msg", "Ignoring message, decoder yields nothing (Body)", "type", decoded.Header, "from", rpc.From)
		return
	}

	if err := s.ServerOptions.RPCProcessor.ProcessMessage(rpc.From, decoded); err != nil {
		logrus.WithError(err).WithField("type", decoded.Header).Error("Failed to process message")
	}
}

func (s *Server) dropPeer(addr NetAddr) {
	s.peerLock.Lock()
	delete(s.peers, addr)
	s.peerLock.Unlock()

	if err := s.ServerOptions.Transport.Disconnect(addr); err != nil {
		logrus.WithError(err).WithField("peer", addr).Debug("Peer already gone")
	}
	RecordPeerDropped()
}

func (s *Server) touchPeer(addr NetAddr) {
	s.peerLock.Lock()
	defer s.peerLock.Unlock()

	peer := s.peerLocked(addr)
	peer.Messages++
	peer.LastSeen = time.Now()
}

// peerLocked returns the table entry for addr, creating it. peerLock must be
// held.
func (s *Server) peerLocked(addr NetAddr) *PeerStat {
	peer, ok := s.peers[addr]
	if !ok {
		peer = &PeerStat{Addr: addr}
		s.peers[addr] = peer
	}
	return peer
}

func (s *Server) ProcessMessage(from NetAddr, decodedMessage *DecodedMessage) error {
	s.ServerOptions.Logger.Log("msg", "Processing message", "type", decodedMessage.Header, "from", from)

	switch msg := decodedMessage.Message.(type) {
	case messages.StatusMessage:
		return s.processStatus(from, msg)
	case messages.BlockMessage:
		return s.processBlock(from, msg.Block)
	case messages.BlockByHashMessage:
		return s.processBlock(from, msg.Block)
	case messages.GetBlockMessage:
		return s.processGetBlock(from, msg.Hash, func(b *core.Block) messages.Message {
			return messages.BlockMessage{Block: b}
		})
	case messages.GetBlockByHashMessage:
		return s.processGetBlock(from, msg.Hash, func(b *core.Block) messages.Message {
			return messages.BlockByHashMessage{RequestID: msg.RequestID, Block: b}
		})
	case messages.TransactionsMessage:
		return s.processTransactions(from, msg.Transactions)
	case messages.NewBlockHashMessage:
		return s.processNewBlockHash(from, msg.Hash)
	default:
		// decoded fine, but a relaying node has nothing to do with it
		s.ServerOptions.Logger.Log("msg", "No handler for message", "type", decodedMessage.Header, "from", from)
		return nil
	}
}

func (s *Server) processStatus(from NetAddr, msg messages.StatusMessage) error {
	s.peerLock.Lock()
	peer := s.peerLocked(from)
	peer.Height = msg.Height
	peer.TipHash = msg.TipHash
	s.peerLock.Unlock()

	s.ServerOptions.Logger.Log("msg", "Peer status", "peer", from, "height", msg.Height)
	return nil
}

// processBlock stores a block we did not have and tells the other peers
// about it.
func (s *Server) processBlock(from NetAddr, block *core.Block) error {
	hash := block.GetHash(s.blockHasher)

	known, err := s.ServerOptions.Storage.Has(hash)
	if err != nil {
		return err
	}
	if known {
		// we already announced it when we first stored it
		return nil
	}

	if _, err := s.ServerOptions.Storage.Put(block, s.blockHasher); err != nil {
		return fmt.Errorf("store block %s: %w", hash, err)
	}
	s.ServerOptions.Logger.Log("msg", "Stored block", "hash", hash, "size", block.Size())

	go s.broadcast(from, messages.NewBlockHashMessage{Hash: hash.Bytes()})
	return nil
}

func (s *Server) processGetBlock(from NetAddr, rawHash []byte, reply func(*core.Block) messages.Message) error {
	hash, err := types.BytesToHash(rawHash)
	if err != nil {
		return err
	}

	block, err := s.ServerOptions.Storage.Get(hash)
	if errors.Is(err, core.ErrBlockNotFound) {
		s.ServerOptions.Logger.Log("msg", "Requested block not found", "hash", hash, "from", from)
		return nil
	}
	if err != nil {
		return err
	}

	return s.send(from, reply(block))
}

// processTransactions adds new transactions to the mempool and relays only
// those to the other peers.
func (s *Server) processTransactions(from NetAddr, txs []*core.Transaction) error {
	fresh := make([]*core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if s.memPool.Add(tx) {
			fresh = append(fresh, tx)
		}
	}

	s.ServerOptions.Logger.Log("msg", "Received transactions", "from", from, "count", len(txs), "new", len(fresh), "memPoolSize", s.memPool.PendingLen())

	if len(fresh) > 0 {
		go s.broadcast(from, messages.TransactionsMessage{Transactions: fresh})
	}
	return nil
}

// processNewBlockHash asks the announcing peer for a block we do not have.
func (s *Server) processNewBlockHash(from NetAddr, rawHash []byte) error {
	hash, err := types.BytesToHash(rawHash)
	if err != nil {
		return err
	}

	known, err := s.ServerOptions.Storage.Has(hash)
	if err != nil || known {
		return err
	}
	return s.send(from, messages.GetBlockMessage{Hash: hash.Bytes()})
}

func (s *Server) send(to NetAddr, msg messages.Message) error {
	return s.ServerOptions.Transport.SendMessageToPeer(SendRPC{To: to, Payload: messages.EncodeFrame(msg)})
}

// broadcast sends msg to every peer except the one it came from.
func (s *Server) broadcast(from NetAddr, msg messages.Message) {
	frame := messages.EncodeFrame(msg)
	for _, peer := range s.ServerOptions.Transport.Peers() {
		if peer == from {
			continue
		}
		err := s.ServerOptions.Transport.SendMessageToPeer(SendRPC{To: peer, Payload: frame})
		if err != nil {
			logrus.WithError(err).WithField("peer", peer).Error("Failed to send message to peer")
		}
	}
}

// PeerStats returns a snapshot of the peer table ordered by address.
func (s *Server) PeerStats() []PeerStat {
	s.peerLock.RLock()
	defer s.peerLock.RUnlock()

	addrs := maps.Keys(s.peers)
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	stats := make([]PeerStat, 0, len(addrs))
	for _, addr := range addrs {
		stats = append(stats, *s.peers[addr])
	}
	return stats
}

// PendingTransactions lists the mempool, first seen first.
func (s *Server) PendingTransactions() []*core.Transaction {
	return s.memPool.GetPendingTransactions()
}

// Stop will stop the server.
func (s *Server) Stop() {
	s.quitOnce.Do(func() { close(s.quitChannel) })
}

// handleQuit will handle the quit signal sent by Stop()
func (s *Server) handleQuit() {
	s.ServerOptions.Storage.Shutdown()
}
