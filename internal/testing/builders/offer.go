package builders

import (
	"github.com/LeJamon/goMarketd/internal/core/collectionoffers"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
)

// BidBuilder provides a fluent interface for building CollectionOfferCreate transactions.
type BidBuilder struct {
	account    types.AccountID
	collection types.AccountID
	amount     types.Amount
	value      *types.Amount
}

// Bid creates a new BidBuilder. The attached value defaults to the amount.
func Bid(account, collection types.AccountID, amount uint64) *BidBuilder {
	return &BidBuilder{account: account, collection: collection, amount: types.NewAmount(amount)}
}

// Value overrides the attached value.
func (b *BidBuilder) Value(v uint64) *BidBuilder {
	a := types.NewAmount(v)
	b.value = &a
	return b
}

// Build constructs the CollectionOfferCreate transaction.
func (b *BidBuilder) Build() tx.Transaction {
	t := collectionoffers.NewCollectionOfferCreate(b.account, b.collection, b.amount)
	if b.value != nil {
		t.Value = *b.value
	}
	return t
}

// RepriceBuilder provides a fluent interface for building CollectionOfferSetAmount transactions.
type RepriceBuilder struct {
	account    types.AccountID
	collection types.AccountID
	offerID    uint64
	amount     types.Amount
	value      *types.Amount
}

// Reprice creates a new RepriceBuilder.
func Reprice(account, collection types.AccountID, offerID, amount uint64) *RepriceBuilder {
	return &RepriceBuilder{account: account, collection: collection, offerID: offerID, amount: types.NewAmount(amount)}
}

// Value sets the attached value, the positive delta when raising.
func (b *RepriceBuilder) Value(v uint64) *RepriceBuilder {
	a := types.NewAmount(v)
	b.value = &a
	return b
}

// Build constructs the CollectionOfferSetAmount transaction.
func (b *RepriceBuilder) Build() tx.Transaction {
	t := collectionoffers.NewCollectionOfferSetAmount(b.account, b.collection, b.offerID, b.amount)
	if b.value != nil {
		t.Value = *b.value
	}
	return t
}

// Cancel builds a CollectionOfferCancel transaction.
func Cancel(account, collection types.AccountID, offerID uint64) tx.Transaction {
	return collectionoffers.NewCollectionOfferCancel(account, collection, offerID)
}

// FinderFee builds a CollectionOfferSetFindersFee transaction.
func FinderFee(account, collection types.AccountID, offerID uint64, bps uint16) tx.Transaction {
	return collectionoffers.NewCollectionOfferSetFindersFee(account, collection, offerID, bps)
}

// GlobalFinderFee builds a FindersFeeSet transaction.
func GlobalFinderFee(account types.AccountID, bps uint16) tx.Transaction {
	return collectionoffers.NewFindersFeeSet(account, bps)
}

// FillBuilder provides a fluent interface for building CollectionOfferFill transactions.
type FillBuilder struct {
	account    types.AccountID
	collection types.AccountID
	tokenID    types.TokenID
	minAmount  types.Amount
	finder     types.AccountID
}

// Fill creates a new FillBuilder with no minimum and no finder.
func Fill(account, collection types.AccountID, tokenID uint64) *FillBuilder {
	return &FillBuilder{account: account, collection: collection, tokenID: types.NewTokenID(tokenID)}
}

// MinAmount sets the lowest acceptable ceiling.
func (b *FillBuilder) MinAmount(v uint64) *FillBuilder {
	b.minAmount = types.NewAmount(v)
	return b
}

// Finder names the account credited with the finder's fee.
func (b *FillBuilder) Finder(finder types.AccountID) *FillBuilder {
	b.finder = finder
	return b
}

// Build constructs the CollectionOfferFill transaction.
func (b *FillBuilder) Build() tx.Transaction {
	return collectionoffers.NewCollectionOfferFill(b.account, b.collection, b.tokenID, b.minAmount, b.finder)
}
