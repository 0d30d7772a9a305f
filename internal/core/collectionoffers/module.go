// Package collectionoffers implements collection-wide purchase offers: a
// per-collection order book of escrowed bids that any holder of a token in
// the collection can fill by selling into the highest one.
//
// Offers of one collection form a doubly linked chain sorted by amount from
// the floor (lowest) to the ceiling (highest). The book entry caches both
// extremes so the best offer is found in O(1).
package collectionoffers

//go:generate mockgen -destination=mocks/collaborators.go -package=mocks github.com/LeJamon/goMarketd/internal/core/collectionoffers ValueTransfer,AssetTransfer,RoyaltyResolver,ProtocolFeeResolver

import (
	"sync/atomic"

	"github.com/LeJamon/goMarketd/internal/core/assets"
	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"go.uber.org/zap"
)

// ValueTransfer moves offer funds between accounts and the module escrow.
type ValueTransfer interface {
	Pull(ctx *tx.ApplyContext, from types.AccountID, amount types.Amount) tx.Result
	Push(ctx *tx.ApplyContext, to types.AccountID, amount types.Amount) tx.Result
}

// AssetTransfer reads NFT ownership and moves NFTs for approved owners.
type AssetTransfer interface {
	OwnerOf(r ledger.Reader, collection types.AccountID, tokenID types.TokenID) (types.AccountID, error)
	TransferNFT(ctx *tx.ApplyContext, collection types.AccountID, tokenID types.TokenID, from, to types.AccountID) tx.Result
}

// RoyaltyResolver returns the royalty payouts owed on a sale.
type RoyaltyResolver interface {
	Royalties(r ledger.Reader, collection types.AccountID, tokenID types.TokenID, amount types.Amount) ([]assets.Payout, error)
}

// ProtocolFeeResolver returns the protocol fee recipient and rate for a module.
type ProtocolFeeResolver interface {
	ProtocolFee(r ledger.Reader, module types.AccountID) (types.AccountID, uint16, error)
}

// Options wires a Module to its collaborators. Nil fields get the
// implementations from the assets package.
type Options struct {
	Value       ValueTransfer
	Assets      AssetTransfer
	Royalties   RoyaltyResolver
	ProtocolFee ProtocolFeeResolver
}

// Module owns the entry points of the order book.
type Module struct {
	value       ValueTransfer
	assets      AssetTransfer
	royalties   RoyaltyResolver
	protocolFee ProtocolFeeResolver

	locked atomic.Bool
}

// New creates a module.
func New(opts Options) *Module {
	m := &Module{
		value:       opts.Value,
		assets:      opts.Assets,
		royalties:   opts.Royalties,
		protocolFee: opts.ProtocolFee,
	}
	if m.value == nil {
		m.value = assets.Escrow{Asset: assets.Native}
	}
	if m.assets == nil {
		m.assets = assets.TransferAuthority{}
	}
	if m.royalties == nil {
		m.royalties = assets.RoyaltyRegistry{}
	}
	if m.protocolFee == nil {
		m.protocolFee = assets.ProtocolFeeRegistry{}
	}
	return m
}

var defaultModule atomic.Pointer[Module]

// Default returns the module used by parsed transactions.
func Default() *Module {
	if m := defaultModule.Load(); m != nil {
		return m
	}
	defaultModule.CompareAndSwap(nil, New(Options{}))
	return defaultModule.Load()
}

func logger() *zap.Logger {
	return zap.L().Named("collectionoffers")
}

// SetDefault replaces the module used by parsed transactions.
func SetDefault(m *Module) {
	defaultModule.Store(m)
}
