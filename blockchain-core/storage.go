package core

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"

	types "github.com/AzlanAmjad/canvas-wire/data-types"
)

var ErrBlockNotFound = errors.New("block not found")

// Storage keeps the blocks a node has received so it can answer block
// requests from other peers.
type Storage interface {
	Put(block *Block, hasher Hasher[*Block]) (types.Hash, error)
	Get(hash types.Hash) (*Block, error)
	Has(hash types.Hash) (bool, error)
	Shutdown()
}

// LevelDBStorage is a storage implementation using LevelDB.
type LevelDBStorage struct {
	DB *leveldb.DB
}

// NewLevelDBStorage opens (or creates) a LevelDB database at dbPath.
func NewLevelDBStorage(dbPath string) (*LevelDBStorage, error) {
	db, err := leveldb.OpenFile(dbPath, nil)
	if err != nil {
		return nil, fmt.Errorf("open block storage %s: %w", dbPath, err)
	}
	return &LevelDBStorage{DB: db}, nil
}

// NewMemoryStorage creates a LevelDB storage that lives only in memory.
func NewMemoryStorage() (*LevelDBStorage, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &LevelDBStorage{DB: db}, nil
}

// Put stores the block encoding under its hash and returns that hash.
func (s *LevelDBStorage) Put(block *Block, hasher Hasher[*Block]) (types.Hash, error) {
	hash := block.GetHash(hasher)
	if err := s.DB.Put(hash.Bytes(), block.Encoded(), nil); err != nil {
		return hash, err
	}
	return hash, nil
}

// Get returns the block stored under hash.
func (s *LevelDBStorage) Get(hash types.Hash) (*Block, error) {
	value, err := s.DB.Get(hash.Bytes(), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, hash)
	}
	if err != nil {
		return nil, err
	}
	return NewBlock(value), nil
}

func (s *LevelDBStorage) Has(hash types.Hash) (bool, error) {
	return s.DB.Has(hash.Bytes(), nil)
}

// Shutdown closes the database.
func (s *LevelDBStorage) Shutdown() {
	s.DB.Close()
}
