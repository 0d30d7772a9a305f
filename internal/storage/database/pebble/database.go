package pebble

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/LeJamon/goMarketd/internal/storage/database"
	"github.com/cockroachdb/pebble"
)

type DB struct {
	db *pebble.DB
}

func NewDB(db *pebble.DB) *DB {
	return &DB{db: db}
}

func (p *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	if p.db == nil {
		return nil, database.ErrDBClosed
	}

	val, closer, err := p.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, database.ErrKeyNotFound
		}
		return nil, err
	}
	defer closer.Close()

	valCopy := make([]byte, len(val))
	copy(valCopy, val)
	return valCopy, nil
}

func (p *DB) Write(ctx context.Context, key, value []byte) error {
	if p.db == nil {
		return database.ErrDBClosed
	}
	return p.db.Set(key, value, pebble.Sync)
}

func (p *DB) Delete(ctx context.Context, key []byte) error {
	if p.db == nil {
		return database.ErrDBClosed
	}
	return p.db.Delete(key, pebble.Sync)
}

func (p *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	if p.db == nil {
		return database.ErrDBClosed
	}

	batch := p.db.NewBatch()
	defer batch.Close()

	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			if err := batch.Set(op.Key, op.Value, nil); err != nil {
				return err
			}
		case database.BatchDelete:
			if err := batch.Delete(op.Key, nil); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown batch operation type: %d", op.Type)
		}
	}

	return batch.Commit(pebble.Sync)
}

type Iterator struct {
	iter    *pebble.Iterator
	end     []byte
	started bool
	key     []byte
	value   []byte
}

func (p *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	if p.db == nil {
		return nil, database.ErrDBClosed
	}

	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: start,
		UpperBound: end,
	})
	if err != nil {
		return nil, err
	}

	return &Iterator{iter: iter, end: end}, nil
}

func (it *Iterator) Next() bool {
	if !it.started {
		it.started = true
		it.iter.First()
	} else {
		it.iter.Next()
	}

	if !it.iter.Valid() {
		return false
	}

	key := it.iter.Key()
	if it.end != nil && bytes.Compare(key, it.end) >= 0 {
		return false
	}

	it.key = append(it.key[:0], key...)
	it.value = append([]byte(nil), it.iter.Value()...)
	return true
}

func (it *Iterator) Key() []byte {
	return it.key
}

func (it *Iterator) Value() []byte {
	return it.value
}

func (it *Iterator) Error() error {
	return it.iter.Error()
}

func (it *Iterator) Close() error {
	return it.iter.Close()
}
