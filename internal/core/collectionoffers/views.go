package collectionoffers

import (
	"fmt"

	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/types"
)

// Book returns the collection's book entry. A collection nobody has bid on
// has an empty book.
func Book(r ledger.Reader, collection types.AccountID) (entry.Book, error) {
	b := entry.Book{Collection: collection}
	if _, err := ledger.ReadEntry(r, keylet.Book(collection), &b); err != nil {
		return entry.Book{}, err
	}
	return b, nil
}

// Offer returns a pending offer. Unknown and settled ids yield false.
func Offer(r ledger.Reader, collection types.AccountID, offerID uint64) (entry.Offer, bool, error) {
	var o entry.Offer
	if offerID == 0 {
		return o, false, nil
	}
	found, err := ledger.ReadEntry(r, keylet.Offer(collection, offerID), &o)
	return o, found, err
}

// OfferStatus reports how a settled offer ended. Pending and unknown ids
// yield false.
func OfferStatus(r ledger.Reader, collection types.AccountID, offerID uint64) (entry.Status, bool, error) {
	var s entry.OfferStatus
	found, err := ledger.ReadEntry(r, keylet.OfferStatus(collection, offerID), &s)
	return s.Status, found, err
}

// FloorOfferID returns the id of the lowest offer, 0 if the book is empty.
func FloorOfferID(r ledger.Reader, collection types.AccountID) (uint64, error) {
	b, err := Book(r, collection)
	return b.FloorID, err
}

// FloorOfferAmount returns the lowest offer amount, 0 if the book is empty.
func FloorOfferAmount(r ledger.Reader, collection types.AccountID) (types.Amount, error) {
	b, err := Book(r, collection)
	return b.FloorAmount, err
}

// CeilingOfferID returns the id of the highest offer, 0 if the book is empty.
func CeilingOfferID(r ledger.Reader, collection types.AccountID) (uint64, error) {
	b, err := Book(r, collection)
	return b.CeilingID, err
}

// CeilingOfferAmount returns the highest offer amount, 0 if the book is empty.
func CeilingOfferAmount(r ledger.Reader, collection types.AccountID) (types.Amount, error) {
	b, err := Book(r, collection)
	return b.CeilingAmount, err
}

// Walk visits pending offers from the floor to the ceiling until fn
// returns false.
func Walk(r ledger.Reader, collection types.AccountID, fn func(entry.Offer) bool) error {
	b, err := Book(r, collection)
	if err != nil {
		return err
	}
	id := b.FloorID
	for steps := uint64(0); id != 0; steps++ {
		if steps > b.Active {
			return fmt.Errorf("%w: cycle in %s", errBrokenChain, collection)
		}
		o, found, err := Offer(r, collection, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s #%d", errBrokenChain, collection, id)
		}
		if !fn(o) {
			return nil
		}
		id = o.NextID
	}
	return nil
}

// Offers lists pending offers floor first.
func Offers(r ledger.Reader, collection types.AccountID) ([]entry.Offer, error) {
	var out []entry.Offer
	err := Walk(r, collection, func(o entry.Offer) bool {
		out = append(out, o)
		return true
	})
	return out, err
}
