package network

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	messages "github.com/AzlanAmjad/canvas-wire/wire-messages"
)

var (
	registerOnce sync.Once

	messagesDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "canvas",
			Subsystem: "wire",
			Name:      "messages_decoded_total",
			Help:      "Frames decoded from peers, by message type.",
		},
		[]string{"type"},
	)
	decodeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "canvas",
			Subsystem: "wire",
			Name:      "decode_failures_total",
			Help:      "Frames that failed to decode, by error kind.",
		},
		[]string{"kind"},
	)
	peersDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "canvas",
			Subsystem: "p2p",
			Name:      "peers_dropped_total",
			Help:      "Peers disconnected after sending an undecodable frame.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(messagesDecoded, decodeFailures, peersDropped)
	})
}

func RecordDecoded(t messages.MessageType) {
	RegisterMetrics()
	messagesDecoded.WithLabelValues(t.String()).Inc()
}

func RecordDecodeFailure(err error) {
	RegisterMetrics()
	decodeFailures.WithLabelValues(messages.ErrorKind(err)).Inc()
}

func RecordPeerDropped() {
	RegisterMetrics()
	peersDropped.Inc()
}
