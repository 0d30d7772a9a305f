// Package memory is an ordered in-process database backend, used by tests
// and by nodes configured with node_db type "memory".
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/LeJamon/goMarketd/internal/storage/database"
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
)

type DB struct {
	mu     sync.RWMutex
	tree   *rbt.Tree[string, []byte]
	closed bool
}

func NewDB() *DB {
	return &DB{tree: rbt.New[string, []byte]()}
}

func (m *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, database.ErrDBClosed
	}
	v, found := m.tree.Get(string(key))
	if !found {
		return nil, database.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *DB) Write(ctx context.Context, key, value []byte) error {
	return m.Batch(ctx, []database.BatchOperation{{Type: database.BatchPut, Key: key, Value: value}})
}

func (m *DB) Delete(ctx context.Context, key []byte) error {
	return m.Batch(ctx, []database.BatchOperation{{Type: database.BatchDelete, Key: key}})
}

func (m *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return database.ErrDBClosed
	}
	for _, op := range ops {
		if op.Type != database.BatchPut && op.Type != database.BatchDelete {
			return fmt.Errorf("unknown batch operation type: %d", op.Type)
		}
	}
	for _, op := range ops {
		if op.Type == database.BatchPut {
			m.tree.Put(string(op.Key), append([]byte(nil), op.Value...))
		} else {
			m.tree.Remove(string(op.Key))
		}
	}
	return nil
}

// Iterator snapshots the requested range so callers may write while iterating.
func (m *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, database.ErrDBClosed
	}

	it := &Iterator{pos: -1}
	walk := m.tree.Iterator()
	for walk.Next() {
		k := walk.Key()
		if start != nil && k < string(start) {
			continue
		}
		if end != nil && k >= string(end) {
			break
		}
		it.keys = append(it.keys, []byte(k))
		it.values = append(it.values, append([]byte(nil), walk.Value()...))
	}
	return it, nil
}

func (m *DB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

type Iterator struct {
	keys   [][]byte
	values [][]byte
	pos    int
}

func (it *Iterator) Next() bool {
	if it.pos+1 >= len(it.keys) {
		it.pos = len(it.keys)
		return false
	}
	it.pos++
	return true
}

func (it *Iterator) Key() []byte   { return it.keys[it.pos] }
func (it *Iterator) Value() []byte { return it.values[it.pos] }
func (it *Iterator) Error() error  { return nil }
func (it *Iterator) Close() error  { return nil }

// Manager hands out one DB per name for the process lifetime.
type Manager struct {
	mu  sync.Mutex
	dbs map[string]*DB
}

func NewManager() *Manager {
	return &Manager{dbs: make(map[string]*DB)}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, ok := m.dbs[name]
	if !ok {
		db = NewDB()
		m.dbs[name] = db
	}
	return db, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, db := range m.dbs {
		db.Close()
		delete(m.dbs, name)
	}
	return nil
}
