package assets

import (
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
)

func init() {
	tx.Register(tx.TypeDeposit, func() tx.Transaction {
		return &Deposit{BaseTx: *tx.NewBaseTx(tx.TypeDeposit, types.ZeroAccount)}
	})
	tx.Register(tx.TypeTokenMint, func() tx.Transaction {
		return &TokenMint{BaseTx: *tx.NewBaseTx(tx.TypeTokenMint, types.ZeroAccount)}
	})
	tx.Register(tx.TypeTokenTransfer, func() tx.Transaction {
		return &TokenTransfer{BaseTx: *tx.NewBaseTx(tx.TypeTokenTransfer, types.ZeroAccount)}
	})
	tx.Register(tx.TypeModuleApprove, func() tx.Transaction {
		return &ModuleApprove{BaseTx: *tx.NewBaseTx(tx.TypeModuleApprove, types.ZeroAccount)}
	})
	tx.Register(tx.TypeRoyaltySet, func() tx.Transaction {
		return &RoyaltySet{BaseTx: *tx.NewBaseTx(tx.TypeRoyaltySet, types.ZeroAccount)}
	})
	tx.Register(tx.TypeProtocolFeeSet, func() tx.Transaction {
		return &ProtocolFeeSet{BaseTx: *tx.NewBaseTx(tx.TypeProtocolFeeSet, types.ZeroAccount)}
	})
}

func registrarOnly(ctx *tx.ApplyContext) tx.Result {
	if ctx.Config.Registrar.IsZero() || ctx.Account != ctx.Config.Registrar {
		return tx.TecUNAUTHORIZED
	}
	return tx.TesSUCCESS
}

// Deposit credits an account with units of an asset. Registrar only; this is
// how value enters a standalone node.
type Deposit struct {
	tx.BaseTx

	Destination types.AccountID `json:"Destination"`
	Asset       types.AccountID `json:"Asset"`
	Amount      types.Amount    `json:"Amount"`
}

// NewDeposit creates a Deposit of native currency.
func NewDeposit(registrar, destination types.AccountID, amount types.Amount) *Deposit {
	return &Deposit{
		BaseTx:      *tx.NewBaseTx(tx.TypeDeposit, registrar),
		Destination: destination,
		Amount:      amount,
	}
}

func (d *Deposit) Validate() error {
	if err := d.BaseTx.Validate(); err != nil {
		return err
	}
	if err := tx.RequireZeroValue(&d.BaseTx); err != nil {
		return err
	}
	if d.Destination.IsZero() {
		return tx.Malformed(tx.TemINVALID_ACCOUNT, "Destination is required")
	}
	if d.Amount.IsZero() {
		return tx.Malformed(tx.TemINVALID_AMOUNT, "Amount must be positive")
	}
	return nil
}

func (d *Deposit) Apply(ctx *tx.ApplyContext) tx.Result {
	if r := registrarOnly(ctx); !r.IsSuccess() {
		return r
	}
	return Credit(ctx, d.Asset, d.Destination, d.Amount)
}

// TokenMint records a new NFT. Registrar only.
type TokenMint struct {
	tx.BaseTx

	Collection types.AccountID `json:"Collection"`
	TokenID    types.TokenID   `json:"TokenID"`
	Owner      types.AccountID `json:"Owner"`
}

func NewTokenMint(registrar, collection types.AccountID, tokenID types.TokenID, owner types.AccountID) *TokenMint {
	return &TokenMint{
		BaseTx:     *tx.NewBaseTx(tx.TypeTokenMint, registrar),
		Collection: collection,
		TokenID:    tokenID,
		Owner:      owner,
	}
}

func (m *TokenMint) Validate() error {
	if err := m.BaseTx.Validate(); err != nil {
		return err
	}
	if err := tx.RequireZeroValue(&m.BaseTx); err != nil {
		return err
	}
	if m.Collection.IsZero() || m.Owner.IsZero() {
		return tx.Malformed(tx.TemINVALID_ACCOUNT, "Collection and Owner are required")
	}
	return nil
}

func (m *TokenMint) Apply(ctx *tx.ApplyContext) tx.Result {
	if r := registrarOnly(ctx); !r.IsSuccess() {
		return r
	}
	exists, err := ctx.View.Exists(keylet.Token(m.Collection, m.TokenID))
	if err != nil {
		return tx.TefINTERNAL
	}
	if exists {
		return tx.TecTOKEN_EXISTS
	}
	if err := setOwner(ctx, m.Collection, m.TokenID, m.Owner); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// TokenTransfer moves a token the caller owns.
type TokenTransfer struct {
	tx.BaseTx

	Collection  types.AccountID `json:"Collection"`
	TokenID     types.TokenID   `json:"TokenID"`
	Destination types.AccountID `json:"Destination"`
}

func NewTokenTransfer(owner, collection types.AccountID, tokenID types.TokenID, destination types.AccountID) *TokenTransfer {
	return &TokenTransfer{
		BaseTx:      *tx.NewBaseTx(tx.TypeTokenTransfer, owner),
		Collection:  collection,
		TokenID:     tokenID,
		Destination: destination,
	}
}

func (t *TokenTransfer) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if err := tx.RequireZeroValue(&t.BaseTx); err != nil {
		return err
	}
	if t.Collection.IsZero() || t.Destination.IsZero() {
		return tx.Malformed(tx.TemINVALID_ACCOUNT, "Collection and Destination are required")
	}
	return nil
}

func (t *TokenTransfer) Apply(ctx *tx.ApplyContext) tx.Result {
	owner, err := OwnerOf(ctx.View, t.Collection, t.TokenID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if owner.IsZero() || owner != ctx.Account {
		return tx.TecNOT_TOKEN_OWNER
	}
	if err := setOwner(ctx, t.Collection, t.TokenID, t.Destination); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// ModuleApprove grants or revokes a module's right to move the caller's NFTs.
type ModuleApprove struct {
	tx.BaseTx

	Module   types.AccountID `json:"Module"`
	Approved bool            `json:"Approved"`
}

func NewModuleApprove(owner, module types.AccountID, approved bool) *ModuleApprove {
	return &ModuleApprove{
		BaseTx:   *tx.NewBaseTx(tx.TypeModuleApprove, owner),
		Module:   module,
		Approved: approved,
	}
}

func (a *ModuleApprove) Validate() error {
	if err := a.BaseTx.Validate(); err != nil {
		return err
	}
	if err := tx.RequireZeroValue(&a.BaseTx); err != nil {
		return err
	}
	if a.Module.IsZero() {
		return tx.Malformed(tx.TemINVALID_ACCOUNT, "Module is required")
	}
	return nil
}

func (a *ModuleApprove) Apply(ctx *tx.ApplyContext) tx.Result {
	k := keylet.Approval(ctx.Account, a.Module)
	exists, err := ctx.View.Exists(k)
	if err != nil {
		return tx.TefINTERNAL
	}
	switch {
	case a.Approved && !exists:
		err = ctx.InsertEntry(k, &entry.Approval{Owner: ctx.Account, Module: a.Module})
	case !a.Approved && exists:
		err = ctx.EraseEntry(k)
	}
	if err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// RoyaltySet replaces a collection's royalty schedule. An empty list clears it.
type RoyaltySet struct {
	tx.BaseTx

	Collection types.AccountID          `json:"Collection"`
	Recipients []entry.RoyaltyRecipient `json:"Recipients"`
}

func NewRoyaltySet(registrar, collection types.AccountID, recipients ...entry.RoyaltyRecipient) *RoyaltySet {
	return &RoyaltySet{
		BaseTx:     *tx.NewBaseTx(tx.TypeRoyaltySet, registrar),
		Collection: collection,
		Recipients: recipients,
	}
}

func (s *RoyaltySet) Validate() error {
	if err := s.BaseTx.Validate(); err != nil {
		return err
	}
	if err := tx.RequireZeroValue(&s.BaseTx); err != nil {
		return err
	}
	if s.Collection.IsZero() {
		return tx.Malformed(tx.TemINVALID_ACCOUNT, "Collection is required")
	}
	total := 0
	for _, r := range s.Recipients {
		if r.Account.IsZero() {
			return tx.Malformed(tx.TemINVALID_ACCOUNT, "royalty recipient is required")
		}
		total += int(r.Bps)
	}
	if total > types.MaxBps {
		return tx.Malformed(tx.TemINVALID_BPS, "royalties total %d bps", total)
	}
	return nil
}

func (s *RoyaltySet) Apply(ctx *tx.ApplyContext) tx.Result {
	if r := registrarOnly(ctx); !r.IsSuccess() {
		return r
	}
	k := keylet.Royalty(s.Collection)
	var err error
	if len(s.Recipients) == 0 {
		var exists bool
		if exists, err = ctx.View.Exists(k); err == nil && exists {
			err = ctx.EraseEntry(k)
		}
	} else {
		err = ctx.PutEntry(k, &entry.Royalty{Collection: s.Collection, Recipients: s.Recipients})
	}
	if err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// ProtocolFeeSet configures the fee a module pays on every settlement.
type ProtocolFeeSet struct {
	tx.BaseTx

	Module    types.AccountID `json:"Module"`
	Recipient types.AccountID `json:"Recipient"`
	Bps       uint16          `json:"Bps"`
}

func NewProtocolFeeSet(registrar, module, recipient types.AccountID, bps uint16) *ProtocolFeeSet {
	return &ProtocolFeeSet{
		BaseTx:    *tx.NewBaseTx(tx.TypeProtocolFeeSet, registrar),
		Module:    module,
		Recipient: recipient,
		Bps:       bps,
	}
}

func (p *ProtocolFeeSet) Validate() error {
	if err := p.BaseTx.Validate(); err != nil {
		return err
	}
	if err := tx.RequireZeroValue(&p.BaseTx); err != nil {
		return err
	}
	if p.Module.IsZero() {
		return tx.Malformed(tx.TemINVALID_ACCOUNT, "Module is required")
	}
	if p.Bps > 0 && p.Recipient.IsZero() {
		return tx.Malformed(tx.TemINVALID_ACCOUNT, "Recipient is required for a non-zero fee")
	}
	return tx.CheckBps(p.Bps)
}

func (p *ProtocolFeeSet) Apply(ctx *tx.ApplyContext) tx.Result {
	if r := registrarOnly(ctx); !r.IsSuccess() {
		return r
	}
	err := ctx.PutEntry(keylet.ProtocolFee(p.Module), &entry.ProtocolFee{
		Module:    p.Module,
		Recipient: p.Recipient,
		Bps:       p.Bps,
	})
	if err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
