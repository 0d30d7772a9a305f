package collectionoffers

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goMarketd/internal/core/assets"
	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/types"
)

// CheckBook verifies the structure of one collection's book: the chain is
// sorted and doubly linked, the cached extremes match its ends, and the
// active count and escrow total match its nodes.
func CheckBook(r ledger.Reader, collection types.AccountID) error {
	b, err := Book(r, collection)
	if err != nil {
		return err
	}
	if (b.FloorID == 0) != (b.CeilingID == 0) {
		return fmt.Errorf("%s: floor %d and ceiling %d disagree on emptiness", collection, b.FloorID, b.CeilingID)
	}

	var (
		count   uint64
		sum     types.Amount
		prev    entry.Offer
		seen    = make(map[uint64]bool)
		errWalk error
	)
	err = Walk(r, collection, func(o entry.Offer) bool {
		switch {
		case seen[o.ID]:
			errWalk = fmt.Errorf("%s: offer %d visited twice", collection, o.ID)
		case o.ID == 0 || o.ID > b.OfferCount:
			errWalk = fmt.Errorf("%s: offer id %d outside 1..%d", collection, o.ID, b.OfferCount)
		case o.Amount.IsZero():
			errWalk = fmt.Errorf("%s: offer %d has zero amount", collection, o.ID)
		case o.PrevID != prev.ID:
			errWalk = fmt.Errorf("%s: offer %d prev is %d, want %d", collection, o.ID, o.PrevID, prev.ID)
		case prev.ID != 0 && prev.Amount.Cmp(o.Amount) > 0:
			errWalk = fmt.Errorf("%s: offer %d (%s) follows larger offer %d (%s)", collection, o.ID, o.Amount, prev.ID, prev.Amount)
		}
		if errWalk != nil {
			return false
		}
		seen[o.ID] = true
		count++
		var overflow bool
		if sum, overflow = sum.Add(o.Amount); overflow {
			errWalk = fmt.Errorf("%s: escrow total overflows", collection)
			return false
		}
		prev = o
		return true
	})
	if err = errors.Join(err, errWalk); err != nil {
		return err
	}

	if prev.ID != b.CeilingID {
		return fmt.Errorf("%s: chain ends at %d, ceiling is %d", collection, prev.ID, b.CeilingID)
	}
	if count != b.Active {
		return fmt.Errorf("%s: %d offers linked, book counts %d", collection, count, b.Active)
	}
	if sum.Cmp(b.Escrowed) != 0 {
		return fmt.Errorf("%s: offers sum to %s, book escrows %s", collection, sum, b.Escrowed)
	}
	if count > 0 {
		floor, _, err := Offer(r, collection, b.FloorID)
		if err != nil {
			return err
		}
		if floor.Amount.Cmp(b.FloorAmount) != 0 || prev.Amount.Cmp(b.CeilingAmount) != 0 {
			return fmt.Errorf("%s: cached extremes %s..%s, chain has %s..%s",
				collection, b.FloorAmount, b.CeilingAmount, floor.Amount, prev.Amount)
		}
	} else if !b.FloorAmount.IsZero() || !b.CeilingAmount.IsZero() {
		return fmt.Errorf("%s: empty book caches nonzero extremes", collection)
	}
	return nil
}

// CheckAll verifies every book in the ledger and that the module account
// holds at least the sum of all escrowed offers.
func CheckAll(l *ledger.Ledger, module types.AccountID) error {
	var (
		books []types.AccountID
		total types.Amount
		errs  []error
	)
	var errScan error
	err := l.ForEach(func(_ [32]byte, data []byte) bool {
		if t, err := entry.TypeOf(data); err != nil || t != entry.TypeBook {
			return true
		}
		var b entry.Book
		if errScan = entry.Decode(data, &b); errScan != nil {
			return false
		}
		books = append(books, b.Collection)
		var overflow bool
		if total, overflow = total.Add(b.Escrowed); overflow {
			errScan = errors.New("escrow total overflows")
			return false
		}
		return true
	})
	if err = errors.Join(err, errScan); err != nil {
		return err
	}
	for _, c := range books {
		if err := CheckBook(l, c); err != nil {
			errs = append(errs, err)
		}
	}
	held, err := assets.BalanceOf(l, assets.Native, module)
	if err != nil {
		return err
	}
	if held.Cmp(total) < 0 {
		errs = append(errs, fmt.Errorf("module %s holds %s, offers escrow %s", module, held, total))
	}
	return errors.Join(errs...)
}
