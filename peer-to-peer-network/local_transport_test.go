package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnect(t *testing.T) {
	var addr1 NetAddr = "addr1"
	var addr2 NetAddr = "addr2"

	t1 := NewLocalTransport(addr1)
	t2 := NewLocalTransport(addr2)

	t1.Connect(t2)
	t2.Connect(t1)

	assert.Equal(t, t1.peers[addr2], t2)
	assert.Equal(t, t2.peers[addr1], t1)
}

func TestSendMessage(t *testing.T) {
	var addr1 NetAddr = "addr1"
	var addr2 NetAddr = "addr2"

	t1 := NewLocalTransport(addr1)
	t2 := NewLocalTransport(addr2)

	t1.Connect(t2)
	t2.Connect(t1)

	msg := []byte("hello")
	assert.NoError(t, t1.SendMessageToPeer(SendRPC{To: addr2, Payload: msg}))

	received := <-t2.Consume()
	assert.Equal(t, addr1, received.From)
	assert.Equal(t, msg, received.Payload)
}

func TestSendToUnknownPeer(t *testing.T) {
	t1 := NewLocalTransport("addr1")
	assert.Error(t, t1.SendMessageToPeer(SendRPC{To: "nobody", Payload: []byte("hello")}))
}

func TestDisconnect(t *testing.T) {
	t1 := NewLocalTransport("addr1")
	t2 := NewLocalTransport("addr2")
	t1.Connect(t2)

	assert.NoError(t, t1.Disconnect("addr2"))
	assert.Error(t, t1.SendMessageToPeer(SendRPC{To: "addr2", Payload: []byte("hello")}))

	// disconnecting twice reports the missing peer
	assert.Error(t, t1.Disconnect("addr2"))
}

func TestBroadcast(t *testing.T) {
	var addr1 NetAddr = "addr1"
	var addr2 NetAddr = "addr2"
	var addr3 NetAddr = "addr3"

	t1 := NewLocalTransport(addr1)
	t2 := NewLocalTransport(addr2)
	t3 := NewLocalTransport(addr3)

	t1.Connect(t2)
	t1.Connect(t3)

	msg := []byte("hello")
	assert.NoError(t, t1.Broadcast(msg))

	received1 := <-t2.Consume()
	assert.Equal(t, msg, received1.Payload)

	received2 := <-t3.Consume()
	assert.Equal(t, msg, received2.Payload)
}

func TestPeers(t *testing.T) {
	t1 := NewLocalTransport("addr1")
	assert.Empty(t, t1.Peers())

	t1.Connect(NewLocalTransport("addr2"))
	t1.Connect(NewLocalTransport("addr3"))

	assert.ElementsMatch(t, []NetAddr{"addr2", "addr3"}, t1.Peers())
}
