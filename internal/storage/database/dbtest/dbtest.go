// Package dbtest holds the behaviour every database backend must share.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/LeJamon/goMarketd/internal/storage/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises db with reads, writes, batches and ranged iteration.
func Run(t *testing.T, db database.DB) {
	ctx := context.Background()

	t.Run("ReadWriteDelete", func(t *testing.T) {
		key := []byte("rw-key")
		_, err := db.Read(ctx, key)
		require.ErrorIs(t, err, database.ErrKeyNotFound)

		require.NoError(t, db.Write(ctx, key, []byte("v1")))
		got, err := db.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)

		require.NoError(t, db.Write(ctx, key, []byte("v2")))
		got, err = db.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), got)

		require.NoError(t, db.Delete(ctx, key))
		_, err = db.Read(ctx, key)
		assert.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("Batch", func(t *testing.T) {
		require.NoError(t, db.Write(ctx, []byte("batch-gone"), []byte("x")))

		ops := []database.BatchOperation{
			{Type: database.BatchPut, Key: []byte("batch-a"), Value: []byte("1")},
			{Type: database.BatchPut, Key: []byte("batch-b"), Value: []byte("2")},
			{Type: database.BatchDelete, Key: []byte("batch-gone")},
		}
		require.NoError(t, db.Batch(ctx, ops))

		got, err := db.Read(ctx, []byte("batch-b"))
		require.NoError(t, err)
		assert.Equal(t, []byte("2"), got)
		_, err = db.Read(ctx, []byte("batch-gone"))
		assert.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("IteratorRange", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.NoError(t, db.Write(ctx, []byte(fmt.Sprintf("iter-%d", i)), []byte{byte(i)}))
		}

		it, err := db.Iterator(ctx, []byte("iter-1"), []byte("iter-4"))
		require.NoError(t, err)
		defer it.Close()

		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
		}
		require.NoError(t, it.Error())
		assert.Equal(t, []string{"iter-1", "iter-2", "iter-3"}, keys)
	})
}
