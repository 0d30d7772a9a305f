package collectionoffers

import (
	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
)

// DefaultFindersFeeBps applies until the registrar sets a global fee.
const DefaultFindersFeeBps uint16 = 100

// FindersFeeBps returns the global finders fee.
func FindersFeeBps(r ledger.Reader) (uint16, error) {
	var fee entry.FindersFee
	found, err := ledger.ReadEntry(r, keylet.FindersFee(), &fee)
	if err != nil {
		return 0, err
	}
	if !found {
		return DefaultFindersFeeBps, nil
	}
	return fee.Bps, nil
}

// FindersFeeOverride returns an offer's override and whether one is set.
// An override of zero is an explicit zero fee, distinct from unset.
func FindersFeeOverride(r ledger.Reader, collection types.AccountID, offerID uint64) (uint16, bool, error) {
	var o entry.FindersFeeOverride
	found, err := ledger.ReadEntry(r, keylet.FindersFeeOverride(collection, offerID), &o)
	if err != nil || !found {
		return 0, false, err
	}
	return o.Bps, true, nil
}

// ResolveFindersFee returns the fee a fill of the offer pays its finder:
// the override if set, else the global fee.
func ResolveFindersFee(r ledger.Reader, collection types.AccountID, offerID uint64) (uint16, error) {
	bps, set, err := FindersFeeOverride(r, collection, offerID)
	if err != nil || set {
		return bps, err
	}
	return FindersFeeBps(r)
}

func clearOverride(ctx *tx.ApplyContext, collection types.AccountID, offerID uint64) error {
	k := keylet.FindersFeeOverride(collection, offerID)
	exists, err := ctx.View.Exists(k)
	if err != nil || !exists {
		return err
	}
	return ctx.EraseEntry(k)
}

// SetFindersFee sets the global finders fee. Registrar only.
func (m *Module) SetFindersFee(ctx *tx.ApplyContext, bps uint16) tx.Result {
	release, r := m.enter()
	if !r.IsSuccess() {
		return r
	}
	defer release()

	if ctx.Config.Registrar.IsZero() || ctx.Account != ctx.Config.Registrar {
		return tx.TecUNAUTHORIZED
	}
	if bps > types.MaxBps {
		return tx.TemINVALID_BPS
	}
	if err := ctx.PutEntry(keylet.FindersFee(), &entry.FindersFee{Bps: bps}); err != nil {
		return tx.TefINTERNAL
	}
	ctx.Emit(FindersFeeUpdated{FindersFeeBps: bps})
	return tx.TesSUCCESS
}

// SetOfferFindersFee overrides the finders fee of one pending offer. Only
// its maker may do so.
func (m *Module) SetOfferFindersFee(ctx *tx.ApplyContext, collection types.AccountID, offerID uint64, bps uint16) tx.Result {
	release, r := m.enter()
	if !r.IsSuccess() {
		return r
	}
	defer release()

	ch, err := loadChain(ctx, collection)
	if err != nil {
		return tx.TefINTERNAL
	}
	o, found, err := ch.lookup(offerID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if !found {
		return tx.TecOFFER_NOT_FOUND
	}
	if o.Maker != ctx.Account {
		return tx.TecUNAUTHORIZED
	}
	if bps > types.MaxBps {
		return tx.TemINVALID_BPS
	}
	err = ctx.PutEntry(keylet.FindersFeeOverride(collection, offerID), &entry.FindersFeeOverride{
		Collection: collection,
		OfferID:    offerID,
		Bps:        bps,
	})
	if err != nil {
		return tx.TefINTERNAL
	}
	ctx.Emit(OfferFindersFeeUpdated{Collection: collection, OfferID: offerID, FindersFeeBps: bps, Offer: *o})
	return tx.TesSUCCESS
}

// Bootstrap stores the initial global finders fee if none is set yet.
func Bootstrap(l *ledger.Ledger, bps uint16) error {
	exists, err := l.Exists(keylet.FindersFee())
	if err != nil || exists {
		return err
	}
	data, err := entry.Encode(&entry.FindersFee{Bps: bps})
	if err != nil {
		return err
	}
	return l.Commit([]ledger.Change{{Key: keylet.FindersFee().Key, Data: data}})
}
