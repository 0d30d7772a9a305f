package leveldb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/LeJamon/goMarketd/internal/storage/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

type DB struct {
	db *leveldb.DB
}

func NewDB(db *leveldb.DB) *DB {
	return &DB{db: db}
}

func (l *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	if l.db == nil {
		return nil, database.ErrDBClosed
	}
	val, err := l.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, database.ErrKeyNotFound
	}
	return val, err
}

func (l *DB) Write(ctx context.Context, key, value []byte) error {
	if l.db == nil {
		return database.ErrDBClosed
	}
	return l.db.Put(key, value, &opt.WriteOptions{Sync: true})
}

func (l *DB) Delete(ctx context.Context, key []byte) error {
	if l.db == nil {
		return database.ErrDBClosed
	}
	return l.db.Delete(key, &opt.WriteOptions{Sync: true})
}

func (l *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	if l.db == nil {
		return database.ErrDBClosed
	}

	batch := new(leveldb.Batch)
	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			batch.Put(op.Key, op.Value)
		case database.BatchDelete:
			batch.Delete(op.Key)
		default:
			return fmt.Errorf("unknown batch operation type: %d", op.Type)
		}
	}
	return l.db.Write(batch, &opt.WriteOptions{Sync: true})
}

func (l *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	if l.db == nil {
		return nil, database.ErrDBClosed
	}
	return &Iterator{iter: l.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)}, nil
}

// Iterator copies keys and values out, since goleveldb reuses its buffers.
type Iterator struct {
	iter  iterator.Iterator
	key   []byte
	value []byte
}

func (it *Iterator) Next() bool {
	if !it.iter.Next() {
		return false
	}
	it.key = append(it.key[:0], it.iter.Key()...)
	it.value = append([]byte(nil), it.iter.Value()...)
	return true
}

func (it *Iterator) Key() []byte   { return it.key }
func (it *Iterator) Value() []byte { return it.value }
func (it *Iterator) Error() error  { return it.iter.Error() }

func (it *Iterator) Close() error {
	it.iter.Release()
	return nil
}

type Manager struct {
	dbs  map[string]*leveldb.DB
	path string
	mu   sync.Mutex
}

func NewManager(path string) *Manager {
	return &Manager{dbs: make(map[string]*leveldb.DB), path: path}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if db, ok := m.dbs[name]; ok {
		return NewDB(db), nil
	}
	db, err := leveldb.OpenFile(filepath.Join(m.path, name+".ldb"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", name, err)
	}
	m.dbs[name] = db
	return NewDB(db), nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error
	for name, db := range m.dbs {
		if err := db.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close database %s: %w", name, err)
		}
		delete(m.dbs, name)
	}
	return lastErr
}
