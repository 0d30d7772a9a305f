package collectionoffers

import "github.com/LeJamon/goMarketd/internal/core/ledger/entry"

// insert places o in sorted position. The rule is a scan from the floor
// that stops at the first node whose amount is >= o.Amount and inserts
// before it, appending after the ceiling if no such node exists. A new
// offer therefore lands floor-ward of every existing offer of equal
// amount.
//
// The two shortcuts give the same result as the scan: an amount above the
// ceiling would exhaust it, and an amount at or below the floor would stop
// at the first node.
func (ch *chain) insert(o *entry.Offer) error {
	if err := ch.place(o); err != nil {
		return err
	}
	return ch.refreshExtremes()
}

func (ch *chain) place(o *entry.Offer) error {
	if ch.book.Empty() {
		return ch.insertFirst(o)
	}
	if o.Amount.Cmp(ch.book.CeilingAmount) > 0 {
		return ch.insertAfter(o, ch.book.CeilingID)
	}
	if o.Amount.Cmp(ch.book.FloorAmount) <= 0 {
		return ch.insertBefore(o, ch.book.FloorID)
	}

	cur, err := ch.get(ch.book.FloorID)
	if err != nil {
		return err
	}
	for cur.Amount.Cmp(o.Amount) < 0 {
		if cur.NextID == 0 {
			return ch.insertAfter(o, cur.ID)
		}
		if cur, err = ch.get(cur.NextID); err != nil {
			return err
		}
	}
	return ch.insertBefore(o, cur.ID)
}
