// Package backends selects a database.Manager implementation by name.
package backends

import (
	"fmt"
	"os"

	"github.com/LeJamon/goMarketd/internal/storage/database"
	"github.com/LeJamon/goMarketd/internal/storage/database/leveldb"
	"github.com/LeJamon/goMarketd/internal/storage/database/memory"
	"github.com/LeJamon/goMarketd/internal/storage/database/pebble"
)

const (
	Pebble  = "pebble"
	LevelDB = "leveldb"
	Memory  = "memory"
)

// NewManager opens a manager of the given type rooted at path.
func NewManager(kind, path string) (database.Manager, error) {
	switch kind {
	case Memory:
		return memory.NewManager(), nil
	case Pebble, LevelDB:
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		if kind == Pebble {
			return pebble.NewManager(path), nil
		}
		return leveldb.NewManager(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", database.ErrUnknownBackend, kind)
	}
}
