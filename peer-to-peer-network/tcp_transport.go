package network

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/go-kit/log"
	"github.com/sirupsen/logrus"
)

// TCPTransport is a transport that communicates with peers over TCP. Every
// frame on a connection is length prefixed, see ReadFrame.
type TCPTransport struct {
	Addr         NetAddr
	MaxFrameSize uint32
	Logger       log.Logger

	listener net.Listener
	lock     sync.RWMutex
	peers    map[NetAddr]*TCPPeer
	rpcCh    chan ReceiveRPC
	quitCh   chan struct{}
	quitOnce sync.Once
}

type TCPPeer struct {
	conn net.Conn
	// tells us if the connection was established by us
	// (dialing / outgoing) or by another peer (accepting / incoming)
	Incoming bool
	// frames are written whole, one writer at a time
	writeLock sync.Mutex
}

func (tp *TCPPeer) Send(frame []byte, maxSize uint32) error {
	tp.writeLock.Lock()
	defer tp.writeLock.Unlock()
	return WriteFrame(tp.conn, frame, maxSize)
}

// NewTCPTransport creates a new instance of TCPTransport.
func NewTCPTransport(addr NetAddr, maxFrameSize uint32, ID string) *TCPTransport {
	if maxFrameSize == 0 {
		maxFrameSize = DefaultMaxFrameSize
	}

	transport := &TCPTransport{
		Addr:         addr,
		MaxFrameSize: maxFrameSize,
		peers:        make(map[NetAddr]*TCPPeer),
		rpcCh:        make(chan ReceiveRPC, localQueueSize),
		quitCh:       make(chan struct{}),
	}

	// set the default logger
	transport.Logger = log.NewLogfmtLogger(os.Stderr)
	transport.Logger = log.With(transport.Logger, "ID", ID)

	return transport
}

// start the tcp transport
func (t *TCPTransport) Start() error {
	listener, err := net.Listen("tcp", string(t.Addr))
	if err != nil {
		return err
	}

	t.listener = listener
	// resolves ":0" style addresses to the port we actually got
	t.Addr = NetAddr(listener.Addr().String())

	t.Logger.Log("msg", "TCP transport listening", "addr", t.Addr)

	// forever loop to accept incoming connections
	go t.listen()

	return nil
}

// listen listens for incoming connections.
func (t *TCPTransport) listen() {
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			select {
			case <-t.quitCh:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logrus.WithError(err).Error("Error accepting connection")
			continue
		}

		t.addPeer(conn, true)
	}
}

// Dial connects to a peer listening at addr.
func (t *TCPTransport) Dial(addr NetAddr) error {
	if addr == t.Addr {
		return fmt.Errorf("refusing to dial ourselves at %s", addr)
	}
	conn, err := net.Dial("tcp", string(addr))
	if err != nil {
		return err
	}
	t.addPeer(conn, false)
	return nil
}

// addPeer registers the connection and starts its read loop. Each
// connection is read in its own goroutine.
func (t *TCPTransport) addPeer(conn net.Conn, incoming bool) {
	addr := NetAddr(conn.RemoteAddr().String())
	peer := &TCPPeer{conn: conn, Incoming: incoming}

	t.lock.Lock()
	t.peers[addr] = peer
	t.lock.Unlock()

	t.Logger.Log("msg", "Peer added", "us", conn.LocalAddr(), "peer", addr, "incoming", incoming)

	go t.readLoop(addr, peer)
}

// readLoop hands every frame to the consumer. A read error of any kind,
// an oversized frame included, ends the connection.
func (t *TCPTransport) readLoop(addr NetAddr, peer *TCPPeer) {
	defer t.removePeer(addr, peer)

	for {
		frame, err := ReadFrame(peer.conn, t.MaxFrameSize)
		if err != nil {
			select {
			case <-t.quitCh:
			default:
				logrus.WithError(err).WithField("peer", addr).Info("Closing peer connection")
			}
			return
		}

		select {
		case t.rpcCh <- ReceiveRPC{From: addr, Payload: frame}:
		case <-t.quitCh:
			return
		}
	}
}

func (t *TCPTransport) removePeer(addr NetAddr, peer *TCPPeer) {
	t.lock.Lock()
	if t.peers[addr] == peer {
		delete(t.peers, addr)
	}
	t.lock.Unlock()
	peer.conn.Close()
}

func (t *TCPTransport) Consume() <-chan ReceiveRPC {
	return t.rpcCh
}

// SendToChannel queues a frame as if a peer had sent it.
func (t *TCPTransport) SendToChannel(rpc ReceiveRPC) error {
	select {
	case t.rpcCh <- rpc:
		return nil
	case <-t.quitCh:
		return errors.New("transport closed")
	}
}

// Connect dials the listening address of another transport.
func (t *TCPTransport) Connect(other Transport) error {
	return t.Dial(other.GetAddr())
}

// Disconnect closes the connection to a peer. Its read loop then exits and
// forgets it.
func (t *TCPTransport) Disconnect(addr NetAddr) error {
	t.lock.Lock()
	peer, ok := t.peers[addr]
	delete(t.peers, addr)
	t.lock.Unlock()

	if !ok {
		return fmt.Errorf("peer %s not found", addr)
	}
	return peer.conn.Close()
}

func (t *TCPTransport) SendMessageToPeer(rpc SendRPC) error {
	t.lock.RLock()
	peer, ok := t.peers[rpc.To]
	t.lock.RUnlock()
	if !ok {
		return fmt.Errorf("peer %s not found", rpc.To)
	}
	return peer.Send(rpc.Payload, t.MaxFrameSize)
}

func (t *TCPTransport) Broadcast(payload []byte) error {
	for _, addr := range t.Peers() {
		if err := t.SendMessageToPeer(SendRPC{To: addr, Payload: payload}); err != nil {
			logrus.WithError(err).WithField("peer", addr).Error("Failed to send message to peer")
		}
	}
	return nil
}

func (t *TCPTransport) Peers() []NetAddr {
	t.lock.RLock()
	defer t.lock.RUnlock()
	addrs := make([]NetAddr, 0, len(t.peers))
	for addr := range t.peers {
		addrs = append(addrs, addr)
	}
	return addrs
}

func (t *TCPTransport) GetAddr() NetAddr {
	return t.Addr
}

// Close stops accepting peers and closes every open connection.
func (t *TCPTransport) Close() error {
	t.quitOnce.Do(func() { close(t.quitCh) })

	var err error
	if t.listener != nil {
		err = t.listener.Close()
	}

	t.lock.Lock()
	for addr, peer := range t.peers {
		peer.conn.Close()
		delete(t.peers, addr)
	}
	t.lock.Unlock()

	return err
}
