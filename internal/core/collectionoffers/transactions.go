package collectionoffers

import (
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
)

func init() {
	tx.Register(tx.TypeCollectionOfferCreate, func() tx.Transaction {
		return &CollectionOfferCreate{BaseTx: *tx.NewBaseTx(tx.TypeCollectionOfferCreate, types.ZeroAccount)}
	})
	tx.Register(tx.TypeCollectionOfferSetAmount, func() tx.Transaction {
		return &CollectionOfferSetAmount{BaseTx: *tx.NewBaseTx(tx.TypeCollectionOfferSetAmount, types.ZeroAccount)}
	})
	tx.Register(tx.TypeCollectionOfferSetFindersFee, func() tx.Transaction {
		return &CollectionOfferSetFindersFee{BaseTx: *tx.NewBaseTx(tx.TypeCollectionOfferSetFindersFee, types.ZeroAccount)}
	})
	tx.Register(tx.TypeCollectionOfferCancel, func() tx.Transaction {
		return &CollectionOfferCancel{BaseTx: *tx.NewBaseTx(tx.TypeCollectionOfferCancel, types.ZeroAccount)}
	})
	tx.Register(tx.TypeCollectionOfferFill, func() tx.Transaction {
		return &CollectionOfferFill{BaseTx: *tx.NewBaseTx(tx.TypeCollectionOfferFill, types.ZeroAccount)}
	})
	tx.Register(tx.TypeFindersFeeSet, func() tx.Transaction {
		return &FindersFeeSet{BaseTx: *tx.NewBaseTx(tx.TypeFindersFeeSet, types.ZeroAccount)}
	})
}

func validateCollection(b *tx.BaseTx, collection types.AccountID) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if collection.IsZero() {
		return tx.Malformed(tx.TemINVALID_ACCOUNT, "Collection is required")
	}
	return nil
}

// CollectionOfferCreate places an offer of Amount on Collection. Value must
// carry the same amount.
type CollectionOfferCreate struct {
	tx.BaseTx

	Collection types.AccountID `json:"Collection"`
	Amount     types.Amount    `json:"Amount"`
}

// NewCollectionOfferCreate creates an offer transaction with Value set to amount.
func NewCollectionOfferCreate(account, collection types.AccountID, amount types.Amount) *CollectionOfferCreate {
	t := &CollectionOfferCreate{
		BaseTx:     *tx.NewBaseTx(tx.TypeCollectionOfferCreate, account),
		Collection: collection,
		Amount:     amount,
	}
	t.Value = amount
	return t
}

func (t *CollectionOfferCreate) Validate() error {
	if err := validateCollection(&t.BaseTx, t.Collection); err != nil {
		return err
	}
	if t.Amount.IsZero() {
		return tx.Malformed(tx.TemINVALID_AMOUNT, "Amount must be positive")
	}
	return nil
}

func (t *CollectionOfferCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	return Default().CreateOffer(ctx, t.Collection, t.Amount)
}

// CollectionOfferSetAmount changes the amount of a pending offer.
type CollectionOfferSetAmount struct {
	tx.BaseTx

	Collection types.AccountID `json:"Collection"`
	OfferID    uint64          `json:"OfferID"`
	Amount     types.Amount    `json:"Amount"`
}

// NewCollectionOfferSetAmount creates an amount change. Value is left zero;
// callers raising an offer set it to the increase.
func NewCollectionOfferSetAmount(account, collection types.AccountID, offerID uint64, amount types.Amount) *CollectionOfferSetAmount {
	return &CollectionOfferSetAmount{
		BaseTx:     *tx.NewBaseTx(tx.TypeCollectionOfferSetAmount, account),
		Collection: collection,
		OfferID:    offerID,
		Amount:     amount,
	}
}

func (t *CollectionOfferSetAmount) Validate() error {
	if err := validateCollection(&t.BaseTx, t.Collection); err != nil {
		return err
	}
	if t.Amount.IsZero() {
		return tx.Malformed(tx.TemINVALID_AMOUNT, "Amount must be positive")
	}
	return nil
}

func (t *CollectionOfferSetAmount) Apply(ctx *tx.ApplyContext) tx.Result {
	return Default().SetOfferAmount(ctx, t.Collection, t.OfferID, t.Amount)
}

// CollectionOfferSetFindersFee overrides the finders fee of a pending offer.
type CollectionOfferSetFindersFee struct {
	tx.BaseTx

	Collection    types.AccountID `json:"Collection"`
	OfferID       uint64          `json:"OfferID"`
	FindersFeeBps uint16          `json:"FindersFeeBps"`
}

func NewCollectionOfferSetFindersFee(account, collection types.AccountID, offerID uint64, bps uint16) *CollectionOfferSetFindersFee {
	return &CollectionOfferSetFindersFee{
		BaseTx:        *tx.NewBaseTx(tx.TypeCollectionOfferSetFindersFee, account),
		Collection:    collection,
		OfferID:       offerID,
		FindersFeeBps: bps,
	}
}

func (t *CollectionOfferSetFindersFee) Validate() error {
	if err := validateCollection(&t.BaseTx, t.Collection); err != nil {
		return err
	}
	return tx.RequireZeroValue(&t.BaseTx)
}

// The bps bound is checked in Apply, after authorization.
func (t *CollectionOfferSetFindersFee) Apply(ctx *tx.ApplyContext) tx.Result {
	return Default().SetOfferFindersFee(ctx, t.Collection, t.OfferID, t.FindersFeeBps)
}

// CollectionOfferCancel withdraws a pending offer.
type CollectionOfferCancel struct {
	tx.BaseTx

	Collection types.AccountID `json:"Collection"`
	OfferID    uint64          `json:"OfferID"`
}

func NewCollectionOfferCancel(account, collection types.AccountID, offerID uint64) *CollectionOfferCancel {
	return &CollectionOfferCancel{
		BaseTx:     *tx.NewBaseTx(tx.TypeCollectionOfferCancel, account),
		Collection: collection,
		OfferID:    offerID,
	}
}

func (t *CollectionOfferCancel) Validate() error {
	return validateCollection(&t.BaseTx, t.Collection)
}

func (t *CollectionOfferCancel) Apply(ctx *tx.ApplyContext) tx.Result {
	return Default().CancelOffer(ctx, t.Collection, t.OfferID)
}

// CollectionOfferFill sells TokenID into the collection's highest offer.
// MinAmount protects the seller against the ceiling moving before the
// transaction applies. Finder is optional.
type CollectionOfferFill struct {
	tx.BaseTx

	Collection types.AccountID `json:"Collection"`
	TokenID    types.TokenID   `json:"TokenID"`
	MinAmount  types.Amount    `json:"MinAmount"`
	Finder     types.AccountID `json:"Finder"`
}

func NewCollectionOfferFill(account, collection types.AccountID, tokenID types.TokenID, minAmount types.Amount, finder types.AccountID) *CollectionOfferFill {
	return &CollectionOfferFill{
		BaseTx:     *tx.NewBaseTx(tx.TypeCollectionOfferFill, account),
		Collection: collection,
		TokenID:    tokenID,
		MinAmount:  minAmount,
		Finder:     finder,
	}
}

func (t *CollectionOfferFill) Validate() error {
	return validateCollection(&t.BaseTx, t.Collection)
}

func (t *CollectionOfferFill) Apply(ctx *tx.ApplyContext) tx.Result {
	return Default().FillOffer(ctx, t.Collection, t.TokenID, t.MinAmount, t.Finder)
}

// FindersFeeSet sets the global finders fee. Registrar only.
type FindersFeeSet struct {
	tx.BaseTx

	FindersFeeBps uint16 `json:"FindersFeeBps"`
}

func NewFindersFeeSet(account types.AccountID, bps uint16) *FindersFeeSet {
	return &FindersFeeSet{
		BaseTx:        *tx.NewBaseTx(tx.TypeFindersFeeSet, account),
		FindersFeeBps: bps,
	}
}

func (t *FindersFeeSet) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	return tx.RequireZeroValue(&t.BaseTx)
}

func (t *FindersFeeSet) Apply(ctx *tx.ApplyContext) tx.Result {
	return Default().SetFindersFee(ctx, t.FindersFeeBps)
}
