package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// Config holds everything a node needs to start.
type Config struct {
	ID           string
	ListenAddr   string
	APIAddr      string
	Seeds        []string
	MaxFrameSize uint32
	DBPath       string
	MempoolSize  int
	LogLevel     logrus.Level
}

type fileConfig struct {
	ID           string   `toml:"id"`
	ListenAddr   string   `toml:"listen_addr"`
	APIAddr      string   `toml:"api_addr"`
	Seeds        []string `toml:"seeds"`
	MaxFrameSize uint32   `toml:"max_frame_size"`
	DBPath       string   `toml:"db_path"`
	MempoolSize  int      `toml:"mempool_size"`
	LogLevel     string   `toml:"log_level"`
}

// Default returns the configuration of a local node listening on port 3000.
func Default() Config {
	return Config{
		ID:           "local",
		ListenAddr:   "localhost:3000",
		APIAddr:      "localhost:8080",
		MaxFrameSize: 8 * 1024 * 1024,
		DBPath:       "./leveldb/local/blocks",
		MempoolSize:  1000,
		LogLevel:     logrus.InfoLevel,
	}
}

// Load reads a TOML file and overlays the keys it defines on Default().
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("id") {
		if id := strings.TrimSpace(raw.ID); id != "" {
			cfg.ID = id
			// keep nodes on one machine from sharing a database
			cfg.DBPath = fmt.Sprintf("./leveldb/%s/blocks", id)
		}
	}
	if meta.IsDefined("listen_addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.ListenAddr)
	}
	if meta.IsDefined("api_addr") {
		cfg.APIAddr = strings.TrimSpace(raw.APIAddr)
	}
	if meta.IsDefined("seeds") {
		cfg.Seeds = normalizeSeeds(raw.Seeds)
	}
	if meta.IsDefined("max_frame_size") {
		cfg.MaxFrameSize = raw.MaxFrameSize
	}
	if meta.IsDefined("db_path") {
		cfg.DBPath = strings.TrimSpace(raw.DBPath)
	}
	if meta.IsDefined("mempool_size") {
		cfg.MempoolSize = raw.MempoolSize
	}
	if meta.IsDefined("log_level") {
		level, err := logrus.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return Config{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = level
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the node cannot run with.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must be set")
	}
	if c.MaxFrameSize == 0 {
		return fmt.Errorf("max_frame_size must be positive")
	}
	if c.MempoolSize <= 0 {
		return fmt.Errorf("mempool_size must be positive")
	}
	return nil
}

func normalizeSeeds(seeds []string) []string {
	out := make([]string, 0, len(seeds))
	seen := make(map[string]struct{}, len(seeds))
	for _, s := range seeds {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
