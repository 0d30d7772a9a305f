package ledger

import (
	"testing"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/LeJamon/goMarketd/internal/storage/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) *Ledger {
	l, err := New(memory.NewDB(), 16)
	require.NoError(t, err)
	return l
}

func TestLedgerCommitAndRead(t *testing.T) {
	l := newTestLedger(t)
	k := keylet.FindersFee()

	data, err := l.Read(k)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, l.Commit([]Change{{Key: k.Key, Data: entry.MustEncode(&entry.FindersFee{Bps: 250})}}))

	var fee entry.FindersFee
	found, err := ReadEntry(l, k, &fee)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint16(250), fee.Bps)

	require.NoError(t, l.Commit([]Change{{Key: k.Key}}))
	exists, err := l.Exists(k)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLedgerForEach(t *testing.T) {
	l := newTestLedger(t)
	c := types.MustParseAccountID("0x00000000000000000000000000000000000000c1")

	changes := []Change{
		{Key: keylet.Book(c).Key, Data: entry.MustEncode(&entry.Book{Collection: c})},
		{Key: keylet.FindersFee().Key, Data: entry.MustEncode(&entry.FindersFee{Bps: 1})},
	}
	require.NoError(t, l.Commit(changes))

	count := 0
	require.NoError(t, l.ForEach(func(key [32]byte, data []byte) bool {
		_, err := entry.DecodeAny(data)
		assert.NoError(t, err)
		count++
		return true
	}))
	assert.Equal(t, 2, count)
}

func TestLedgerCacheStats(t *testing.T) {
	l := newTestLedger(t)
	k := keylet.FindersFee()
	require.NoError(t, l.Commit([]Change{{Key: k.Key, Data: entry.MustEncode(&entry.FindersFee{Bps: 5})}}))

	_, err := l.Read(k)
	require.NoError(t, err)
	hits, _ := l.CacheStats()
	assert.Equal(t, uint64(1), hits)
}
