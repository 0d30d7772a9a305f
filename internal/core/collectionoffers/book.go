package collectionoffers

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
)

var errBrokenChain = errors.New("offer chain references a missing offer")

// chain edits one collection's offer chain and extremes index inside a
// transaction. Node writes go straight to the sandbox; the book entry is
// written by save.
type chain struct {
	ctx        *tx.ApplyContext
	collection types.AccountID
	book       entry.Book
}

func loadChain(ctx *tx.ApplyContext, collection types.AccountID) (*chain, error) {
	ch := &chain{ctx: ctx, collection: collection}
	found, err := ctx.ReadEntry(keylet.Book(collection), &ch.book)
	if err != nil {
		return nil, err
	}
	if !found {
		ch.book = entry.Book{Collection: collection}
	}
	return ch, nil
}

func (ch *chain) save() error {
	return ch.ctx.PutEntry(keylet.Book(ch.collection), &ch.book)
}

// lookup returns a pending offer, or false if the id is unknown or settled.
func (ch *chain) lookup(id uint64) (*entry.Offer, bool, error) {
	if id == 0 {
		return nil, false, nil
	}
	var o entry.Offer
	found, err := ch.ctx.ReadEntry(keylet.Offer(ch.collection, id), &o)
	if err != nil || !found {
		return nil, false, err
	}
	return &o, true, nil
}

// get returns an offer the chain links to; absence means corrupt state.
func (ch *chain) get(id uint64) (*entry.Offer, error) {
	o, found, err := ch.lookup(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s #%d", errBrokenChain, ch.collection, id)
	}
	return o, nil
}

func (ch *chain) put(o *entry.Offer) error {
	return ch.ctx.PutEntry(keylet.Offer(ch.collection, o.ID), o)
}

// insertFirst makes o the only node.
func (ch *chain) insertFirst(o *entry.Offer) error {
	o.PrevID, o.NextID = 0, 0
	ch.book.FloorID, ch.book.CeilingID = o.ID, o.ID
	return ch.put(o)
}

// insertBefore splices o on the floor side of refID.
func (ch *chain) insertBefore(o *entry.Offer, refID uint64) error {
	ref, err := ch.get(refID)
	if err != nil {
		return err
	}
	o.PrevID, o.NextID = ref.PrevID, ref.ID
	if ref.PrevID != 0 {
		prev, err := ch.get(ref.PrevID)
		if err != nil {
			return err
		}
		prev.NextID = o.ID
		if err := ch.put(prev); err != nil {
			return err
		}
	} else {
		ch.book.FloorID = o.ID
	}
	ref.PrevID = o.ID
	if err := ch.put(ref); err != nil {
		return err
	}
	return ch.put(o)
}

// insertAfter splices o on the ceiling side of refID.
func (ch *chain) insertAfter(o *entry.Offer, refID uint64) error {
	ref, err := ch.get(refID)
	if err != nil {
		return err
	}
	o.PrevID, o.NextID = ref.ID, ref.NextID
	if ref.NextID != 0 {
		next, err := ch.get(ref.NextID)
		if err != nil {
			return err
		}
		next.PrevID = o.ID
		if err := ch.put(next); err != nil {
			return err
		}
	} else {
		ch.book.CeilingID = o.ID
	}
	ref.NextID = o.ID
	if err := ch.put(ref); err != nil {
		return err
	}
	return ch.put(o)
}

// unlink detaches o from its neighbours and clears its links. It does not
// write o itself; the caller either erases or reinserts it.
func (ch *chain) unlink(o *entry.Offer) error {
	if o.PrevID != 0 {
		prev, err := ch.get(o.PrevID)
		if err != nil {
			return err
		}
		prev.NextID = o.NextID
		if err := ch.put(prev); err != nil {
			return err
		}
	} else {
		ch.book.FloorID = o.NextID
	}
	if o.NextID != 0 {
		next, err := ch.get(o.NextID)
		if err != nil {
			return err
		}
		next.PrevID = o.PrevID
		if err := ch.put(next); err != nil {
			return err
		}
	} else {
		ch.book.CeilingID = o.PrevID
	}
	o.PrevID, o.NextID = 0, 0
	return ch.refreshExtremes()
}

// refreshExtremes re-derives the cached floor and ceiling amounts.
func (ch *chain) refreshExtremes() error {
	ch.book.FloorAmount, ch.book.CeilingAmount = types.Amount{}, types.Amount{}
	if ch.book.FloorID != 0 {
		floor, err := ch.get(ch.book.FloorID)
		if err != nil {
			return err
		}
		ch.book.FloorAmount = floor.Amount
	}
	if ch.book.CeilingID != 0 {
		ceiling, err := ch.get(ch.book.CeilingID)
		if err != nil {
			return err
		}
		ch.book.CeilingAmount = ceiling.Amount
	}
	return nil
}

// settle erases a pending offer and its override and records how it ended.
// The offer must already be unlinked.
func (ch *chain) settle(o *entry.Offer, status entry.Status) error {
	if err := ch.ctx.EraseEntry(keylet.Offer(ch.collection, o.ID)); err != nil {
		return err
	}
	if err := clearOverride(ch.ctx, ch.collection, o.ID); err != nil {
		return err
	}
	ch.book.Active--
	escrowed, underflow := ch.book.Escrowed.Sub(o.Amount)
	if underflow {
		return fmt.Errorf("escrow underflow settling %s #%d", ch.collection, o.ID)
	}
	ch.book.Escrowed = escrowed
	return ch.ctx.InsertEntry(keylet.OfferStatus(ch.collection, o.ID), &entry.OfferStatus{
		Collection: ch.collection,
		OfferID:    o.ID,
		Status:     status,
	})
}
