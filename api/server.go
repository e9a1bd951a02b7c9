package api

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	core "github.com/AzlanAmjad/canvas-wire/blockchain-core"
	network "github.com/AzlanAmjad/canvas-wire/peer-to-peer-network"
	messages "github.com/AzlanAmjad/canvas-wire/wire-messages"
)

// This is the inspection API of a node.
// We use the Echo web framework to build our API here

// frames posted to /decode are hex, so twice the frame limit plus slack
const maxDecodeBody = 2*int64(network.DefaultMaxFrameSize) + 16

// server configuration struct
type ServerConfig struct {
	// ListenAddr is the address the server listens on
	ListenAddr string
	Logger     log.Logger
}

// Node is the part of the p2p server the API reads from.
type Node interface {
	PeerStats() []network.PeerStat
	PendingTransactions() []*core.Transaction
}

// Server is the API Server for the node
type Server struct {
	config *ServerConfig
	node   Node
	echo   *echo.Echo
}

// NewServer creates a new Server and registers its routes.
func NewServer(config *ServerConfig, node Node) *Server {
	if config.Logger == nil {
		config.Logger = log.NewLogfmtLogger(os.Stderr)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{config: config, node: node, echo: e}

	// routes for the API
	e.POST("/decode", s.decodeFrame)
	e.GET("/types", s.getTypes)
	e.GET("/mempool", s.getMempool)
	e.GET("/peers", s.getPeers)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return s
}

// Handler exposes the routes, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the server. It blocks until the server stops.
func (s *Server) Start() error {
	s.config.Logger.Log("msg", "API server listening", "addr", s.config.ListenAddr)

	err := s.echo.Start(s.config.ListenAddr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// decodeFrame is the handler for POST /decode. The body is one frame in
// hex: the type code followed by the encoded fields.
func (s *Server) decodeFrame(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxDecodeBody))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	text := strings.TrimPrefix(strings.TrimSpace(string(body)), "0x")
	frame, err := hex.DecodeString(text)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "body is not a hex frame"})
	}

	msg, err := messages.DecodeFrame(frame)
	if err != nil {
		s.config.Logger.Log("msg", "Frame did not decode", "kind", messages.ErrorKind(err), "err", err)
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"error": err.Error(),
			"kind":  messages.ErrorKind(err),
		})
	}

	code := messages.MessageType(frame[0])
	return c.JSON(http.StatusOK, &Decoded{
		Code:    uint8(code),
		Type:    code.String(),
		Message: CreateJSONMessage(msg),
	})
}

// getTypes is the handler for GET /types
func (s *Server) getTypes(c echo.Context) error {
	types := make([]MessageTypeInfo, 0, len(messages.Types()))
	for _, t := range messages.Types() {
		types = append(types, MessageTypeInfo{Code: uint8(t), Name: t.String()})
	}
	return c.JSON(http.StatusOK, types)
}

// getMempool is the handler for GET /mempool
func (s *Server) getMempool(c echo.Context) error {
	pending := s.node.PendingTransactions()

	mempool := Mempool{
		Count:        len(pending),
		Transactions: make([]*Transaction, 0, len(pending)),
	}
	for _, tx := range pending {
		mempool.Transactions = append(mempool.Transactions, CreateJSONTransaction(tx))
	}
	return c.JSON(http.StatusOK, mempool)
}

// getPeers is the handler for GET /peers
func (s *Server) getPeers(c echo.Context) error {
	stats := s.node.PeerStats()

	peers := make([]*Peer, 0, len(stats))
	for _, stat := range stats {
		peers = append(peers, CreateJSONPeer(stat))
	}
	return c.JSON(http.StatusOK, peers)
}
