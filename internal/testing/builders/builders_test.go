package builders

import (
	"testing"

	"github.com/LeJamon/goMarketd/internal/core/collectionoffers"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice      = types.MustParseAccountID("0x00000000000000000000000000000000000000a1")
	carol      = types.MustParseAccountID("0x00000000000000000000000000000000000000c2")
	collection = types.MustParseAccountID("0x00000000000000000000000000000000000000c1")
)

func TestBidBuilder(t *testing.T) {
	bid := Bid(alice, collection, 500).Build()
	assert.Equal(t, tx.TypeCollectionOfferCreate, bid.TxType())
	assert.Equal(t, "500", bid.GetCommon().Value.String())

	short := Bid(alice, collection, 500).Value(1).Build().(*collectionoffers.CollectionOfferCreate)
	assert.Equal(t, "500", short.Amount.String())
	assert.Equal(t, "1", short.Value.String())
}

func TestRepriceBuilder(t *testing.T) {
	down := Reprice(alice, collection, 3, 100).Build().(*collectionoffers.CollectionOfferSetAmount)
	assert.True(t, down.Value.IsZero())
	assert.Equal(t, uint64(3), down.OfferID)

	up := Reprice(alice, collection, 3, 800).Value(300).Build()
	assert.Equal(t, "300", up.GetCommon().Value.String())
}

func TestFillBuilder(t *testing.T) {
	plain := Fill(alice, collection, 7).Build().(*collectionoffers.CollectionOfferFill)
	assert.True(t, plain.MinAmount.IsZero())
	assert.True(t, plain.Finder.IsZero())

	full := Fill(alice, collection, 7).MinAmount(450).Finder(carol).Build().(*collectionoffers.CollectionOfferFill)
	assert.Equal(t, "450", full.MinAmount.String())
	assert.Equal(t, carol, full.Finder)
	require.NoError(t, full.Validate())
}
