package pebble

import (
	"testing"

	"github.com/LeJamon/goMarketd/internal/storage/database/dbtest"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Manager {
	manager := NewManager(t.TempDir())
	t.Cleanup(func() { _ = manager.Close() })
	return manager
}

func TestPebbleDB(t *testing.T) {
	manager := setupTestDB(t)
	db, err := manager.OpenDB("state")
	require.NoError(t, err)
	dbtest.Run(t, db)
}
