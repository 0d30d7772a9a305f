package events

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/collectionoffers"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/LeJamon/goMarketd/internal/storage/history"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice      = types.MustParseAccountID("0x00000000000000000000000000000000000000a1")
	collection = types.MustParseAccountID("0x00000000000000000000000000000000000000c1")
)

func created(seq, id uint64) tx.ApplyResult {
	return tx.ApplyResult{
		Result:   tx.TesSUCCESS,
		Applied:  true,
		TxType:   tx.TypeCollectionOfferCreate,
		Account:  alice,
		Sequence: seq,
		Events: []tx.Event{collectionoffers.OfferCreated{
			Collection: collection,
			OfferID:    id,
			Offer:      entry.Offer{Collection: collection, ID: id, Maker: alice, Amount: types.NewAmount(10)},
		}},
	}
}

type recordingSink struct {
	mu      sync.Mutex
	batches []Batch
	err     error
}

func (*recordingSink) Name() string { return "recording" }

func (s *recordingSink) Write(_ context.Context, b Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, b)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func TestNewBatch(t *testing.T) {
	b, err := NewBatch(created(7, 3), time.Unix(0, 0))
	require.NoError(t, err)

	assert.Equal(t, uint64(7), b.Sequence)
	assert.Equal(t, "CollectionOfferCreate", b.TxType)
	require.Len(t, b.Events, 1)
	e := b.Events[0]
	assert.Equal(t, "OfferCreated", e.Type)
	assert.Equal(t, collection.String()+":3", e.Key)
	assert.Equal(t, collection.String(), e.Collection)
	assert.Equal(t, uint64(3), e.OfferID)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(e.Payload, &payload))
	assert.Equal(t, float64(3), payload["offerId"])

	recs := b.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, uint64(7), recs[0].Sequence)
	assert.Equal(t, uint64(3), recs[0].OfferID)
}

func TestPublisherFansOutAndSurvivesSinkErrors(t *testing.T) {
	failing := &recordingSink{err: errors.New("down")}
	ok := &recordingSink{}
	p := NewPublisher(4, failing, ok)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- p.Run(ctx) }()

	p.Publish(created(1, 1))
	p.Publish(tx.ApplyResult{Sequence: 2}) // no events, skipped
	p.Publish(created(3, 2))

	require.Eventually(t, func() bool { return ok.count() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, failing.count())
	cancel()
	require.NoError(t, <-done)

	// After Run returns, Publish drops instead of blocking.
	p.Publish(created(4, 3))
	assert.Equal(t, 2, ok.count())
}

func TestPublisherDrainsOnShutdown(t *testing.T) {
	sink := &recordingSink{}
	p := NewPublisher(8, sink)
	p.Publish(created(1, 1))
	p.Publish(created(2, 2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, p.Run(ctx))
	assert.Equal(t, 2, sink.count())
}

func TestHistorySink(t *testing.T) {
	ctx := context.Background()
	store, err := history.Open(ctx, history.DriverSQLite, filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)
	defer store.Close()

	b, err := NewBatch(created(5, 9), time.Now())
	require.NoError(t, err)
	require.NoError(t, HistorySink{Store: store}.Write(ctx, b))

	recs, err := store.OfferHistory(ctx, collection.String(), 9)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "OfferCreated", recs[0].Type)
}

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaSinkKeysByOffer(t *testing.T) {
	w := &fakeWriter{}
	s := NewKafkaSinkWithWriter(w)

	r := created(2, 4)
	r.Events = append(r.Events, collectionoffers.FindersFeeUpdated{FindersFeeBps: 50})
	b, err := NewBatch(r, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Write(context.Background(), b))

	require.Len(t, w.msgs, 2)
	assert.Equal(t, collection.String()+":4", string(w.msgs[0].Key))
	assert.Equal(t, "FindersFeeUpdated", string(w.msgs[1].Key))
	assert.Equal(t, "type", w.msgs[0].Headers[0].Key)

	var value struct {
		Sequence uint64 `json:"sequence"`
		Type     string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &value))
	assert.Equal(t, uint64(2), value.Sequence)
	assert.Equal(t, "OfferCreated", value.Type)

	require.NoError(t, s.Close())
	assert.True(t, w.closed)
}
