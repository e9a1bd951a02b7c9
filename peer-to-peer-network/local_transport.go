package network

import (
	"fmt"
	"sync"
)

/*
LocalTransport is a transport that is used for communication between modules in the same process.
LocalTransport is not going over the network (TCP or UDP), like other transports might, it is just
sending messages to a channel within the same process.
*/

const localQueueSize = 1024

type LocalTransport struct {
	Addr      NetAddr
	peers     map[NetAddr]Transport
	Lock      sync.RWMutex
	ConsumeCh chan ReceiveRPC
}

func NewLocalTransport(addr NetAddr) *LocalTransport {
	return &LocalTransport{
		Addr:      addr,
		peers:     make(map[NetAddr]Transport),
		ConsumeCh: make(chan ReceiveRPC, localQueueSize),
	}
}

// method to consume from the channel, used by the transport itself
func (t *LocalTransport) Consume() <-chan ReceiveRPC {
	return t.ConsumeCh
}

// method to send to the channel, used by other peers
func (t *LocalTransport) SendToChannel(rpc ReceiveRPC) error {
	t.ConsumeCh <- rpc
	return nil
}

// method to connect to another transport, used by transport itself
func (t *LocalTransport) Connect(other Transport) error {
	t.Lock.Lock()
	defer t.Lock.Unlock()
	t.peers[other.GetAddr()] = other
	return nil
}

// Disconnect forgets a peer. Frames it already queued are still consumed.
func (t *LocalTransport) Disconnect(addr NetAddr) error {
	t.Lock.Lock()
	defer t.Lock.Unlock()
	if _, ok := t.peers[addr]; !ok {
		return fmt.Errorf("peer %s not found", addr)
	}
	delete(t.peers, addr)
	return nil
}

// method to send a message, sends to another peers channel, used by transport itself
func (t *LocalTransport) SendMessageToPeer(rpc SendRPC) error {
	t.Lock.RLock()
	peer, ok := t.peers[rpc.To]
	t.Lock.RUnlock()
	if !ok {
		return fmt.Errorf("peer %s not found", rpc.To)
	}
	return peer.SendToChannel(ReceiveRPC{From: t.GetAddr(), Payload: rpc.Payload})
}

// Broadcast sends payload to every connected peer.
func (t *LocalTransport) Broadcast(payload []byte) error {
	t.Lock.RLock()
	defer t.Lock.RUnlock()
	for _, peer := range t.peers {
		if err := peer.SendToChannel(ReceiveRPC{From: t.GetAddr(), Payload: payload}); err != nil {
			return err
		}
	}
	return nil
}

// Peers lists the addresses of every connected peer.
func (t *LocalTransport) Peers() []NetAddr {
	t.Lock.RLock()
	defer t.Lock.RUnlock()
	addrs := make([]NetAddr, 0, len(t.peers))
	for addr := range t.peers {
		addrs = append(addrs, addr)
	}
	return addrs
}

// method to get the address of the transport, used by transport itself
func (t *LocalTransport) GetAddr() NetAddr {
	return t.Addr
}
