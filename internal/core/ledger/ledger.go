// Package ledger is the committed state of the node: typed entries addressed
// by keylets, stored in a key-value database behind a read cache.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/storage/database"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of entries kept in the read cache.
const DefaultCacheSize = 4096

// Reader provides read access to state entries. A missing entry reads as
// (nil, nil).
type Reader interface {
	Read(k keylet.Keylet) ([]byte, error)
	Exists(k keylet.Keylet) (bool, error)
}

// Change is one committed write; nil Data erases the key.
type Change struct {
	Key  [32]byte
	Data []byte
}

// Ledger is the base view every transaction sandbox is layered on.
type Ledger struct {
	mu    sync.RWMutex
	db    database.DB
	cache *lru.Cache[[32]byte, []byte]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New wraps db. cacheSize <= 0 selects DefaultCacheSize.
func New(db database.DB, cacheSize int) (*Ledger, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[[32]byte, []byte](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Ledger{db: db, cache: cache}, nil
}

// Read returns the encoded entry at k.
func (l *Ledger) Read(k keylet.Keylet) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.read(k.Key)
}

func (l *Ledger) read(key [32]byte) ([]byte, error) {
	if data, ok := l.cache.Get(key); ok {
		l.hits.Add(1)
		return data, nil
	}
	l.misses.Add(1)

	data, err := l.db.Read(context.Background(), key[:])
	if errors.Is(err, database.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state %x: %w", key[:8], err)
	}
	l.cache.Add(key, data)
	return data, nil
}

// Exists reports whether an entry is stored at k.
func (l *Ledger) Exists(k keylet.Keylet) (bool, error) {
	data, err := l.Read(k)
	return data != nil, err
}

// Commit writes changes in one atomic batch.
func (l *Ledger) Commit(changes []Change) error {
	if len(changes) == 0 {
		return nil
	}

	ops := make([]database.BatchOperation, 0, len(changes))
	for _, c := range changes {
		key := append([]byte(nil), c.Key[:]...)
		if c.Data == nil {
			ops = append(ops, database.BatchOperation{Type: database.BatchDelete, Key: key})
		} else {
			ops = append(ops, database.BatchOperation{Type: database.BatchPut, Key: key, Value: c.Data})
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.db.Batch(context.Background(), ops); err != nil {
		// The cache may now disagree with a partially failed backend.
		l.cache.Purge()
		return fmt.Errorf("commit %d changes: %w", len(changes), err)
	}
	for _, c := range changes {
		if c.Data == nil {
			l.cache.Remove(c.Key)
		} else {
			l.cache.Add(c.Key, c.Data)
		}
	}
	return nil
}

// ForEach iterates over all stored entries in key order.
// If fn returns false, iteration stops early.
func (l *Ledger) ForEach(fn func(key [32]byte, data []byte) bool) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	it, err := l.db.Iterator(context.Background(), nil, nil)
	if err != nil {
		return err
	}
	defer it.Close()

	for it.Next() {
		var key [32]byte
		if len(it.Key()) != len(key) {
			continue
		}
		copy(key[:], it.Key())
		if !fn(key, it.Value()) {
			break
		}
	}
	return it.Error()
}

// CacheStats returns read cache hits and misses.
func (l *Ledger) CacheStats() (hits, misses uint64) {
	return l.hits.Load(), l.misses.Load()
}

// ReadEntry decodes the entry at k into out. It reports false when absent.
func ReadEntry(r Reader, k keylet.Keylet, out entry.Entry) (bool, error) {
	data, err := r.Read(k)
	if err != nil || data == nil {
		return false, err
	}
	if err := entry.Decode(data, out); err != nil {
		return false, err
	}
	return true, nil
}
