package collectionoffers

import (
	"errors"
	"testing"

	"github.com/LeJamon/goMarketd/internal/core/assets"
	"github.com/LeJamon/goMarketd/internal/core/collectionoffers/mocks"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReentrantTransferIsRefused(t *testing.T) {
	ctrl := gomock.NewController(t)
	nft := mocks.NewMockAssetTransfer(ctrl)
	m := New(Options{Assets: nft})
	f := newFixture(t, m)
	f.create(alice, 100)
	before := f.book()

	var inner tx.Result
	nft.EXPECT().OwnerOf(gomock.Any(), collection, gomock.Any()).Return(seller, nil)
	nft.EXPECT().TransferNFT(gomock.Any(), collection, gomock.Any(), seller, alice).
		DoAndReturn(func(ctx *tx.ApplyContext, c types.AccountID, _ types.TokenID, _, to types.AccountID) tx.Result {
			inner = m.CancelOffer(ctx.As(to), c, 1)
			return inner
		})

	res := f.apply(NewCollectionOfferFill(seller, collection, types.NewTokenID(1), amt(100), types.ZeroAccount))
	assert.Equal(t, tx.TefREENTRANT, inner)
	assert.Equal(t, tx.TefREENTRANT, res)

	assert.Equal(t, before, f.book())
	assert.Equal(t, "0", f.balance(seller))
	assert.Equal(t, "100", f.balance(module))
	f.check()

	// The lock is released after the refused call.
	f.ok(NewCollectionOfferCancel(alice, collection, 1))
}

func TestReentrantPullIsRefused(t *testing.T) {
	ctrl := gomock.NewController(t)
	value := mocks.NewMockValueTransfer(ctrl)
	m := New(Options{Value: value})
	f := newFixture(t, m)

	value.EXPECT().Pull(gomock.Any(), alice, amt(10)).
		DoAndReturn(func(ctx *tx.ApplyContext, _ types.AccountID, a types.Amount) tx.Result {
			return m.SetFindersFee(ctx.As(registrar), 0)
		})

	assert.Equal(t, tx.TefREENTRANT, f.apply(NewCollectionOfferCreate(alice, collection, amt(10))))
	assert.True(t, f.book().Empty())
	bps, err := FindersFeeBps(f.e.Ledger())
	require.NoError(t, err)
	assert.Equal(t, DefaultFindersFeeBps, bps)
}

func TestRoyaltyInsolvencyRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	royalties := mocks.NewMockRoyaltyResolver(ctrl)
	f := newFixture(t, New(Options{Royalties: royalties}))
	f.create(alice, 100)

	royalties.EXPECT().Royalties(gomock.Any(), collection, types.NewTokenID(1), amt(100)).
		Return([]assets.Payout{
			{Recipient: artist, Amount: amt(60)},
			{Recipient: treasury, Amount: amt(60)},
		}, nil)

	assert.Equal(t, tx.TecROYALTY_INSOLVENT, f.apply(NewCollectionOfferFill(seller, collection, types.NewTokenID(1), amt(100), types.ZeroAccount)))
	assert.Equal(t, "0", f.balance(artist))
	assert.Equal(t, []uint64{1}, f.order())
	f.check()
}

func TestRoyaltyLookupFailurePaysNone(t *testing.T) {
	ctrl := gomock.NewController(t)
	royalties := mocks.NewMockRoyaltyResolver(ctrl)
	fees := mocks.NewMockProtocolFeeResolver(ctrl)
	f := newFixture(t, New(Options{Royalties: royalties, ProtocolFee: fees}))
	f.create(alice, 100)

	royalties.EXPECT().Royalties(gomock.Any(), collection, gomock.Any(), gomock.Any()).
		Return(nil, errors.New("registry unavailable"))
	fees.EXPECT().ProtocolFee(gomock.Any(), module).Return(treasury, uint16(1000), nil)

	f.ok(NewCollectionOfferFill(seller, collection, types.NewTokenID(1), amt(100), types.ZeroAccount))
	assert.Equal(t, "10", f.balance(treasury))
	assert.Equal(t, "90", f.balance(seller))
	f.check()
}

func TestProtocolFeeFailureIsInternal(t *testing.T) {
	ctrl := gomock.NewController(t)
	fees := mocks.NewMockProtocolFeeResolver(ctrl)
	f := newFixture(t, New(Options{ProtocolFee: fees}))
	f.create(alice, 100)

	fees.EXPECT().ProtocolFee(gomock.Any(), module).Return(types.ZeroAccount, uint16(0), errors.New("boom"))

	assert.Equal(t, tx.TefINTERNAL, f.apply(NewCollectionOfferFill(seller, collection, types.NewTokenID(1), amt(100), types.ZeroAccount)))
	assert.Equal(t, []uint64{1}, f.order())
}

func TestProtocolFeeAboveWholeIsInternal(t *testing.T) {
	ctrl := gomock.NewController(t)
	fees := mocks.NewMockProtocolFeeResolver(ctrl)
	f := newFixture(t, New(Options{ProtocolFee: fees}))
	f.create(alice, 100)
	before := f.book()

	fees.EXPECT().ProtocolFee(gomock.Any(), module).Return(treasury, uint16(20000), nil)

	assert.Equal(t, tx.TefINTERNAL, f.apply(NewCollectionOfferFill(seller, collection, types.NewTokenID(1), amt(100), types.ZeroAccount)))
	assert.Equal(t, before, f.book())
	assert.Equal(t, "0", f.balance(treasury))
	assert.Equal(t, "0", f.balance(seller))
	assert.Equal(t, "100", f.balance(module))
	f.check()
}
