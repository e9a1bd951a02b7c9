package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/sirupsen/logrus"

	"github.com/AzlanAmjad/canvas-wire/api"
	core "github.com/AzlanAmjad/canvas-wire/blockchain-core"
	"github.com/AzlanAmjad/canvas-wire/config"
	network "github.com/AzlanAmjad/canvas-wire/peer-to-peer-network"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to load config")
		}
	}
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("Invalid config")
	}
	logrus.SetLevel(cfg.LogLevel)

	logger := log.NewLogfmtLogger(os.Stderr)
	logger = log.With(logger, "ID", cfg.ID)

	storage, err := core.NewLevelDBStorage(cfg.DBPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open block storage")
	}

	transport := network.NewTCPTransport(network.NetAddr(cfg.ListenAddr), cfg.MaxFrameSize, cfg.ID)
	transport.Logger = logger
	if err := transport.Start(); err != nil {
		logrus.WithError(err).Fatal("Failed to start TCP transport")
	}

	seeds := make([]network.NetAddr, 0, len(cfg.Seeds))
	for _, seed := range cfg.Seeds {
		seeds = append(seeds, network.NetAddr(seed))
	}

	server, err := network.NewServer(network.ServerOptions{
		ID:             cfg.ID,
		Transport:      transport,
		SeedNodes:      seeds,
		Logger:         logger,
		Storage:        storage,
		MaxMemPoolSize: cfg.MempoolSize,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create server")
	}

	apiServer := api.NewServer(&api.ServerConfig{ListenAddr: cfg.APIAddr, Logger: logger}, server)
	go func() {
		if err := apiServer.Start(); err != nil {
			logrus.WithError(err).Fatal("API server stopped")
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(ctx); err != nil {
			logrus.WithError(err).Error("Failed to shut down API server")
		}
		transport.Close()
		server.Stop()
	}()

	if err := server.Start(); err != nil {
		logrus.WithError(err).Fatal("Server stopped")
	}
}
