package collectionoffers

import (
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"go.uber.org/zap"
)

// CreateOffer escrows amount from the caller and adds a pending offer for
// any token of collection. The attached value must equal amount.
func (m *Module) CreateOffer(ctx *tx.ApplyContext, collection types.AccountID, amount types.Amount) tx.Result {
	release, r := m.enter()
	if !r.IsSuccess() {
		return r
	}
	defer release()

	if amount.IsZero() {
		return tx.TemINVALID_AMOUNT
	}
	if ctx.Value.Cmp(amount) != 0 {
		return tx.TecINCORRECT_VALUE
	}
	if r := m.value.Pull(ctx, ctx.Account, amount); !r.IsSuccess() {
		return r
	}

	ch, err := loadChain(ctx, collection)
	if err != nil {
		return internal(err)
	}
	ch.book.OfferCount++
	o := &entry.Offer{
		Collection: collection,
		ID:         ch.book.OfferCount,
		Maker:      ctx.Account,
		Amount:     amount,
	}
	if err := ch.insert(o); err != nil {
		return internal(err)
	}
	ch.book.Active++
	escrowed, overflow := ch.book.Escrowed.Add(amount)
	if overflow {
		return tx.TefINTERNAL
	}
	ch.book.Escrowed = escrowed
	if err := ch.save(); err != nil {
		return internal(err)
	}

	ctx.Emit(OfferCreated{Collection: collection, OfferID: o.ID, Offer: *o})
	return tx.TesSUCCESS
}

// SetOfferAmount changes a pending offer's amount. An increase must be
// attached as value and is escrowed; a decrease is refunded. The offer is
// repositioned exactly as if it had been inserted with the new amount.
func (m *Module) SetOfferAmount(ctx *tx.ApplyContext, collection types.AccountID, offerID uint64, newAmount types.Amount) tx.Result {
	release, r := m.enter()
	if !r.IsSuccess() {
		return r
	}
	defer release()

	if newAmount.IsZero() {
		return tx.TemINVALID_AMOUNT
	}
	ch, err := loadChain(ctx, collection)
	if err != nil {
		return internal(err)
	}
	o, found, err := ch.lookup(offerID)
	if err != nil {
		return internal(err)
	}
	if !found {
		return tx.TecOFFER_NOT_FOUND
	}
	if o.Maker != ctx.Account {
		return tx.TecUNAUTHORIZED
	}

	prevAmount := o.Amount
	switch newAmount.Cmp(prevAmount) {
	case 1:
		delta, _ := newAmount.Sub(prevAmount)
		if ctx.Value.Cmp(delta) != 0 {
			return tx.TecINCORRECT_VALUE
		}
		if r := m.value.Pull(ctx, ctx.Account, delta); !r.IsSuccess() {
			return r
		}
	case -1:
		if !ctx.Value.IsZero() {
			return tx.TecINCORRECT_VALUE
		}
		delta, _ := prevAmount.Sub(newAmount)
		if r := m.value.Push(ctx, ctx.Account, delta); !r.IsSuccess() {
			return r
		}
	default:
		if !ctx.Value.IsZero() {
			return tx.TecINCORRECT_VALUE
		}
	}

	// Reload after the transfer so the splice sees current state.
	if ch, err = loadChain(ctx, collection); err != nil {
		return internal(err)
	}
	if o, err = ch.get(offerID); err != nil {
		return internal(err)
	}
	if err := ch.unlink(o); err != nil {
		return internal(err)
	}
	o.Amount = newAmount
	if err := ch.insert(o); err != nil {
		return internal(err)
	}

	escrowed, underflow := ch.book.Escrowed.Sub(prevAmount)
	if underflow {
		return tx.TefINTERNAL
	}
	if escrowed, overflow := escrowed.Add(newAmount); !overflow {
		ch.book.Escrowed = escrowed
	} else {
		return tx.TefINTERNAL
	}
	if err := ch.save(); err != nil {
		return internal(err)
	}

	ctx.Emit(OfferAmountUpdated{Collection: collection, OfferID: offerID, PreviousAmount: prevAmount, Offer: *o})
	return tx.TesSUCCESS
}

// CancelOffer removes a pending offer and refunds its maker.
func (m *Module) CancelOffer(ctx *tx.ApplyContext, collection types.AccountID, offerID uint64) tx.Result {
	release, r := m.enter()
	if !r.IsSuccess() {
		return r
	}
	defer release()

	if !ctx.Value.IsZero() {
		return tx.TecINCORRECT_VALUE
	}
	ch, err := loadChain(ctx, collection)
	if err != nil {
		return internal(err)
	}
	o, found, err := ch.lookup(offerID)
	if err != nil {
		return internal(err)
	}
	if !found {
		return tx.TecOFFER_NOT_FOUND
	}
	if o.Maker != ctx.Account {
		return tx.TecUNAUTHORIZED
	}

	snapshot := *o
	if err := ch.unlink(o); err != nil {
		return internal(err)
	}
	if err := ch.settle(o, entry.StatusCanceled); err != nil {
		return internal(err)
	}
	if err := ch.save(); err != nil {
		return internal(err)
	}
	if r := m.value.Push(ctx, snapshot.Maker, snapshot.Amount); !r.IsSuccess() {
		return r
	}

	ctx.Emit(OfferCanceled{Collection: collection, OfferID: offerID, Offer: snapshot})
	return tx.TesSUCCESS
}

// FillOffer sells the caller's token into the collection's highest offer.
// The offer amount is split, each share taken from what is left of the
// previous step: royalties, then the protocol fee, then the finders fee if
// a finder is named. The seller receives the remainder and the token moves
// to the offer's maker.
func (m *Module) FillOffer(ctx *tx.ApplyContext, collection types.AccountID, tokenID types.TokenID, minAmount types.Amount, finder types.AccountID) tx.Result {
	release, r := m.enter()
	if !r.IsSuccess() {
		return r
	}
	defer release()

	if !ctx.Value.IsZero() {
		return tx.TecINCORRECT_VALUE
	}
	owner, err := m.assets.OwnerOf(ctx.View, collection, tokenID)
	if err != nil {
		return internal(err)
	}
	if owner.IsZero() || owner != ctx.Account {
		return tx.TecNOT_TOKEN_OWNER
	}

	ch, err := loadChain(ctx, collection)
	if err != nil {
		return internal(err)
	}
	if ch.book.Empty() {
		return tx.TecNO_ACTIVE_OFFER
	}
	if ch.book.CeilingAmount.Cmp(minAmount) < 0 {
		return tx.TecPRICE_BELOW_MINIMUM
	}

	o, err := ch.get(ch.book.CeilingID)
	if err != nil {
		return internal(err)
	}
	snapshot := *o
	feeBps, err := ResolveFindersFee(ctx.View, collection, o.ID)
	if err != nil {
		return internal(err)
	}
	if err := ch.unlink(o); err != nil {
		return internal(err)
	}
	if err := ch.settle(o, entry.StatusFilled); err != nil {
		return internal(err)
	}
	if err := ch.save(); err != nil {
		return internal(err)
	}

	filled := OfferFilled{
		Collection: collection,
		OfferID:    snapshot.ID,
		TokenID:    tokenID,
		Filler:     ctx.Account,
		Finder:     finder,
		Offer:      snapshot,
	}
	remaining := snapshot.Amount

	payouts, err := m.royalties.Royalties(ctx.View, collection, tokenID, remaining)
	if err != nil {
		logger().Warn("royalty lookup failed, paying none",
			zap.Stringer("collection", collection), zap.Error(err))
		payouts = nil
	}
	for _, p := range payouts {
		rest, underflow := remaining.Sub(p.Amount)
		if underflow {
			return tx.TecROYALTY_INSOLVENT
		}
		if r := m.value.Push(ctx, p.Recipient, p.Amount); !r.IsSuccess() {
			return r
		}
		remaining = rest
		filled.Royalties, _ = filled.Royalties.Add(p.Amount)
		ctx.Emit(RoyaltyPayout{Collection: collection, TokenID: tokenID, Recipient: p.Recipient, Amount: p.Amount})
	}

	recipient, protocolBps, err := m.protocolFee.ProtocolFee(ctx.View, ctx.Config.Module)
	if err != nil {
		return internal(err)
	}
	if protocolBps > types.MaxBps {
		return tx.TefINTERNAL
	}
	if fee := remaining.MulBps(protocolBps); !fee.IsZero() {
		rest, underflow := remaining.Sub(fee)
		if underflow {
			return tx.TefINTERNAL
		}
		if r := m.value.Push(ctx, recipient, fee); !r.IsSuccess() {
			return r
		}
		remaining = rest
		filled.ProtocolFee = fee
		ctx.Emit(ProtocolFeePayout{Module: ctx.Config.Module, Recipient: recipient, Amount: fee})
	}

	if !finder.IsZero() {
		if fee := remaining.MulBps(feeBps); !fee.IsZero() {
			rest, underflow := remaining.Sub(fee)
			if underflow {
				return tx.TefINTERNAL
			}
			if r := m.value.Push(ctx, finder, fee); !r.IsSuccess() {
				return r
			}
			remaining = rest
			filled.FindersFee = fee
		}
	}

	if r := m.value.Push(ctx, ctx.Account, remaining); !r.IsSuccess() {
		return r
	}
	filled.Proceeds = remaining

	if r := m.assets.TransferNFT(ctx, collection, tokenID, ctx.Account, snapshot.Maker); !r.IsSuccess() {
		return r
	}

	ctx.Emit(ExchangeExecuted{
		Seller:     ctx.Account,
		Buyer:      snapshot.Maker,
		Collection: collection,
		TokenID:    tokenID,
		Amount:     snapshot.Amount,
	})
	ctx.Emit(filled)
	return tx.TesSUCCESS
}

func internal(err error) tx.Result {
	logger().Error("collection offer state error", zap.Error(err))
	return tx.TefINTERNAL
}
