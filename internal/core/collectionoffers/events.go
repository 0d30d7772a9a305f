package collectionoffers

import (
	"fmt"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/types"
)

// OfferCreated is emitted when an offer enters the book.
type OfferCreated struct {
	Collection types.AccountID `json:"collection"`
	OfferID    uint64          `json:"offerId"`
	Offer      entry.Offer     `json:"offer"`
}

// OfferAmountUpdated is emitted when a maker changes an offer's amount.
type OfferAmountUpdated struct {
	Collection     types.AccountID `json:"collection"`
	OfferID        uint64          `json:"offerId"`
	PreviousAmount types.Amount    `json:"previousAmount"`
	Offer          entry.Offer     `json:"offer"`
}

// OfferCanceled carries the offer as it was before removal.
type OfferCanceled struct {
	Collection types.AccountID `json:"collection"`
	OfferID    uint64          `json:"offerId"`
	Offer      entry.Offer     `json:"offer"`
}

// OfferFilled carries the offer as it was before removal and the split of
// its amount.
type OfferFilled struct {
	Collection  types.AccountID `json:"collection"`
	OfferID     uint64          `json:"offerId"`
	TokenID     types.TokenID   `json:"tokenId"`
	Filler      types.AccountID `json:"filler"`
	Finder      types.AccountID `json:"finder"`
	Royalties   types.Amount    `json:"royalties"`
	ProtocolFee types.Amount    `json:"protocolFee"`
	FindersFee  types.Amount    `json:"findersFee"`
	Proceeds    types.Amount    `json:"proceeds"`
	Offer       entry.Offer     `json:"offer"`
}

// FindersFeeUpdated is emitted when the registrar changes the global fee.
type FindersFeeUpdated struct {
	FindersFeeBps uint16 `json:"findersFeeBps"`
}

// OfferFindersFeeUpdated is emitted when a maker overrides an offer's fee.
type OfferFindersFeeUpdated struct {
	Collection    types.AccountID `json:"collection"`
	OfferID       uint64          `json:"offerId"`
	FindersFeeBps uint16          `json:"findersFeeBps"`
	Offer         entry.Offer     `json:"offer"`
}

type RoyaltyPayout struct {
	Collection types.AccountID `json:"collection"`
	TokenID    types.TokenID   `json:"tokenId"`
	Recipient  types.AccountID `json:"recipient"`
	Amount     types.Amount    `json:"amount"`
}

type ProtocolFeePayout struct {
	Module    types.AccountID `json:"module"`
	Recipient types.AccountID `json:"recipient"`
	Amount    types.Amount    `json:"amount"`
}

// ExchangeExecuted describes the swap of a fill: the buyer's funds for the
// seller's token.
type ExchangeExecuted struct {
	Seller     types.AccountID `json:"seller"`
	Buyer      types.AccountID `json:"buyer"`
	Collection types.AccountID `json:"collection"`
	TokenID    types.TokenID   `json:"tokenId"`
	Amount     types.Amount    `json:"amount"`
}

func (OfferCreated) EventType() string           { return "OfferCreated" }
func (OfferAmountUpdated) EventType() string     { return "OfferAmountUpdated" }
func (OfferCanceled) EventType() string          { return "OfferCanceled" }
func (OfferFilled) EventType() string            { return "OfferFilled" }
func (FindersFeeUpdated) EventType() string      { return "FindersFeeUpdated" }
func (OfferFindersFeeUpdated) EventType() string { return "OfferFindersFeeUpdated" }
func (RoyaltyPayout) EventType() string          { return "RoyaltyPayout" }
func (ProtocolFeePayout) EventType() string      { return "ProtocolFeePayout" }
func (ExchangeExecuted) EventType() string       { return "ExchangeExecuted" }

func offerKey(collection types.AccountID, id uint64) string {
	return fmt.Sprintf("%s:%d", collection, id)
}

// EventKey groups an offer's events, e.g. as a message partition key.
func (e OfferCreated) EventKey() string           { return offerKey(e.Collection, e.OfferID) }
func (e OfferAmountUpdated) EventKey() string     { return offerKey(e.Collection, e.OfferID) }
func (e OfferCanceled) EventKey() string          { return offerKey(e.Collection, e.OfferID) }
func (e OfferFilled) EventKey() string            { return offerKey(e.Collection, e.OfferID) }
func (e OfferFindersFeeUpdated) EventKey() string { return offerKey(e.Collection, e.OfferID) }
func (e RoyaltyPayout) EventKey() string          { return e.Collection.String() }
func (e ExchangeExecuted) EventKey() string       { return e.Collection.String() }

// OfferRef names the offer an event concerns.
func (e OfferCreated) OfferRef() (types.AccountID, uint64)           { return e.Collection, e.OfferID }
func (e OfferAmountUpdated) OfferRef() (types.AccountID, uint64)     { return e.Collection, e.OfferID }
func (e OfferCanceled) OfferRef() (types.AccountID, uint64)          { return e.Collection, e.OfferID }
func (e OfferFilled) OfferRef() (types.AccountID, uint64)            { return e.Collection, e.OfferID }
func (e OfferFindersFeeUpdated) OfferRef() (types.AccountID, uint64) { return e.Collection, e.OfferID }
