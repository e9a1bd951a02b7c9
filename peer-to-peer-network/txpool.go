package network

import (
	"container/heap"
	"sort"
	"sync"
	"time"

	core "github.com/AzlanAmjad/canvas-wire/blockchain-core"
	types "github.com/AzlanAmjad/canvas-wire/data-types"
)

// Transaction Mempool
// Keeps the transactions peers relayed to us. A transaction is only relayed
// onwards the first time we see it. Both maps are capped at MaxLength, but
// All is pruned separately so it keeps remembering hashes for a while.

type TxPool struct {
	lock      sync.RWMutex
	All       *SortedTxMap // all transactions we have ever seen
	Pending   *SortedTxMap // pending transactions that we have yet to consume
	MaxLength int          // prune the oldest transactions (smallest timestamps) when a map gets too big
}

// seen hashes outlive pending ones by this factor
const seenFactor = 4

func NewTxPool(maxLength int) *TxPool {
	return &TxPool{
		All:       NewSortedTxMap(),
		Pending:   NewSortedTxMap(),
		MaxLength: maxLength,
	}
}

// Add stores a copy of tx unless it was seen before, and reports whether tx
// was new. The copy gets the current time as its first seen time when tx
// has none; tx itself is left alone.
func (t *TxPool) Add(tx *core.Transaction) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	hash := tx.GetHash(t.All.TransactionHasher)
	if t.All.Has(hash) {
		return false
	}

	tx = tx.Copy()
	if tx.GetFirstSeen() == 0 {
		tx.SetFirstSeen(time.Now().UnixNano())
	}

	t.Pending.Add(tx)
	t.All.Add(tx)
	for t.Pending.Len() > t.MaxLength {
		t.Pending.RemoveOldestTransaction()
	}
	for t.All.Len() > t.MaxLength*seenFactor {
		t.All.RemoveOldestTransaction()
	}
	return true
}

func (t *TxPool) PendingLen() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.Pending.Len()
}

func (t *TxPool) AllLen() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.All.Len()
}

func (t *TxPool) GetPendingTransactions() []*core.Transaction {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.Pending.GetTransactions()
}

func (t *TxPool) PendingHas(hash types.Hash) bool {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.Pending.Has(hash)
}

func (t *TxPool) AllHas(hash types.Hash) bool {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.All.Has(hash)
}

// data structures that contain transactions in a sorted manner
// accessible by hash like a map
// basically a priority queue layered with a hash map
type SortedTxMap struct {
	transactions      map[types.Hash]*core.Transaction
	TransactionHasher core.Hasher[*core.Transaction]
	priorityQueue     PriorityQueue
}

// new sorted tx map
func NewSortedTxMap() *SortedTxMap {
	pq := make(PriorityQueue, 0)
	heap.Init(&pq)
	return &SortedTxMap{
		transactions:      make(map[types.Hash]*core.Transaction),
		TransactionHasher: core.NewTransactionHasher(),
		priorityQueue:     pq,
	}
}

// length of transactions
func (c *SortedTxMap) Len() int {
	return len(c.transactions)
}

// Adds a transaction. Caller is responsible for checking if the transaction
// is already in the map.
func (c *SortedTxMap) Add(tx *core.Transaction) {
	c.transactions[tx.GetHash(c.TransactionHasher)] = tx
	heap.Push(&c.priorityQueue, tx)
}

// get a transaction, using the hash of the transaction
func (c *SortedTxMap) Get(hash types.Hash) *core.Transaction {
	return c.transactions[hash]
}

// checks if the transaction already exists
func (c *SortedTxMap) Has(hash types.Hash) bool {
	_, ok := c.transactions[hash]
	return ok
}

// GetTransactions returns every transaction, first seen first. The map is
// left untouched.
func (c *SortedTxMap) GetTransactions() []*core.Transaction {
	transactions := make([]*core.Transaction, len(c.priorityQueue))
	copy(transactions, c.priorityQueue)
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].GetFirstSeen() < transactions[j].GetFirstSeen()
	})
	return transactions
}

// removes the oldest transaction (smallest timestamp)
func (c *SortedTxMap) RemoveOldestTransaction() {
	if c.priorityQueue.Len() == 0 {
		return
	}
	tx := heap.Pop(&c.priorityQueue).(*core.Transaction)
	delete(c.transactions, tx.GetHash(c.TransactionHasher))
}

// PriorityQueue orders transactions by the time we first saw them.
// Implements heap.Interface.
type PriorityQueue []*core.Transaction

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	return pq[i].GetFirstSeen() < pq[j].GetFirstSeen()
}

func (pq PriorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *PriorityQueue) Push(x any) {
	*pq = append(*pq, x.(*core.Transaction))
}

func (pq *PriorityQueue) Pop() any {
	old := *pq
	n := len(old)
	tx := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return tx
}
