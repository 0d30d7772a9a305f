package assets

import (
	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
)

// OwnerOf returns the holder of a token, or the zero account if it was never minted.
func OwnerOf(r ledger.Reader, collection types.AccountID, tokenID types.TokenID) (types.AccountID, error) {
	var tok entry.Token
	if _, err := ledger.ReadEntry(r, keylet.Token(collection, tokenID), &tok); err != nil {
		return types.ZeroAccount, err
	}
	return tok.Owner, nil
}

// IsApproved reports whether owner allows module to move its tokens.
func IsApproved(r ledger.Reader, owner, module types.AccountID) (bool, error) {
	return r.Exists(keylet.Approval(owner, module))
}

func setOwner(ctx *tx.ApplyContext, collection types.AccountID, tokenID types.TokenID, owner types.AccountID) error {
	return ctx.PutEntry(keylet.Token(collection, tokenID), &entry.Token{
		Collection: collection,
		TokenID:    tokenID,
		Owner:      owner,
	})
}

// TransferAuthority moves NFTs on behalf of the module configured in the
// engine, which owners must have approved.
type TransferAuthority struct{}

// OwnerOf returns the holder of a token.
func (TransferAuthority) OwnerOf(r ledger.Reader, collection types.AccountID, tokenID types.TokenID) (types.AccountID, error) {
	return OwnerOf(r, collection, tokenID)
}

// TransferNFT moves a token from one account to another.
func (TransferAuthority) TransferNFT(ctx *tx.ApplyContext, collection types.AccountID, tokenID types.TokenID, from, to types.AccountID) tx.Result {
	owner, err := OwnerOf(ctx.View, collection, tokenID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if owner.IsZero() || owner != from {
		return tx.TecNOT_TOKEN_OWNER
	}
	approved, err := IsApproved(ctx.View, from, ctx.Config.Module)
	if err != nil {
		return tx.TefINTERNAL
	}
	if !approved {
		return tx.TecNO_APPROVAL
	}
	if err := setOwner(ctx, collection, tokenID, to); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
