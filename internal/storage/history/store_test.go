package history

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func rec(seq uint64, idx int, typ string, offerID uint64) Record {
	return Record{
		Sequence:   seq,
		Index:      idx,
		TxHash:     "ab",
		Type:       typ,
		Collection: "0xc1",
		OfferID:    offerID,
		Payload:    json.RawMessage(`{"offerId":1}`),
		Time:       time.UnixMilli(1700000000000).UTC(),
	}
}

func TestAppendAndQuery(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	require.NoError(t, s.Append(ctx, []Record{rec(1, 0, "OfferCreated", 1)}))
	require.NoError(t, s.Append(ctx, []Record{rec(2, 0, "OfferCreated", 2)}))
	require.NoError(t, s.Append(ctx, []Record{
		rec(3, 0, "RoyaltyPayout", 0),
		rec(3, 1, "OfferFilled", 1),
	}))

	got, err := s.OfferHistory(ctx, "0xc1", 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "OfferCreated", got[0].Type)
	assert.Equal(t, "OfferFilled", got[1].Type)
	assert.JSONEq(t, `{"offerId":1}`, string(got[1].Payload))
	assert.Equal(t, rec(1, 0, "", 0).Time, got[0].Time)

	got, err = s.Events(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(2), got[0].Sequence)
	assert.Equal(t, uint64(3), got[1].Sequence)
	assert.Equal(t, 0, got[1].Index)

	last, err := s.LastSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), last)
}

func TestAppendIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	batch := []Record{rec(1, 0, "OfferCreated", 1)}
	require.NoError(t, s.Append(ctx, batch))
	require.NoError(t, s.Append(ctx, batch))

	got, err := s.Events(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestQueryValidation(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	_, err := s.Events(ctx, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
	_, err = s.Events(ctx, 0, MaxLimit+1)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	last, err := s.LastSequence(ctx)
	require.NoError(t, err)
	assert.Zero(t, last)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Append(ctx, []Record{rec(1, 0, "x", 0)}), ErrStoreClosed)
	_, err = s.OfferHistory(ctx, "0xc1", 1)
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "dsn")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	assert.Equal(t, "a = $1 AND b = $2", pg.rebind("a = ? AND b = ?"))
	lite := &Store{driver: DriverSQLite}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}
