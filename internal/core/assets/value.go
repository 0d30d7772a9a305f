// Package assets holds the asset collaborators used by marketplace modules:
// fungible balances, NFT ownership and transfer authority, module
// approvals, royalty schedules and protocol fees. All state lives in the
// caller's ApplyContext, so movements commit or roll back with the
// transaction that made them.
package assets

import (
	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
)

// Native is the asset id of the native currency.
var Native = types.ZeroAccount

// BalanceOf returns what account holds of asset.
func BalanceOf(r ledger.Reader, asset, account types.AccountID) (types.Amount, error) {
	var b entry.Balance
	if _, err := ledger.ReadEntry(r, keylet.Balance(asset, account), &b); err != nil {
		return types.Amount{}, err
	}
	return b.Amount, nil
}

func setBalance(ctx *tx.ApplyContext, asset, account types.AccountID, amount types.Amount) error {
	k := keylet.Balance(asset, account)
	if amount.IsZero() {
		exists, err := ctx.View.Exists(k)
		if err != nil || !exists {
			return err
		}
		return ctx.EraseEntry(k)
	}
	return ctx.PutEntry(k, &entry.Balance{Asset: asset, Account: account, Amount: amount})
}

// Credit adds amount to account's balance.
func Credit(ctx *tx.ApplyContext, asset, account types.AccountID, amount types.Amount) tx.Result {
	if amount.IsZero() {
		return tx.TesSUCCESS
	}
	bal, err := BalanceOf(ctx.View, asset, account)
	if err != nil {
		return tx.TefINTERNAL
	}
	sum, overflow := bal.Add(amount)
	if overflow {
		return tx.TefINTERNAL
	}
	if err := setBalance(ctx, asset, account, sum); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// Debit removes amount from account's balance, failing with tecUNFUNDED if
// the balance is short.
func Debit(ctx *tx.ApplyContext, asset, account types.AccountID, amount types.Amount) tx.Result {
	if amount.IsZero() {
		return tx.TesSUCCESS
	}
	bal, err := BalanceOf(ctx.View, asset, account)
	if err != nil {
		return tx.TefINTERNAL
	}
	rest, underflow := bal.Sub(amount)
	if underflow {
		return tx.TecUNFUNDED
	}
	if err := setBalance(ctx, asset, account, rest); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// Transfer moves amount of asset between two accounts.
func Transfer(ctx *tx.ApplyContext, asset, from, to types.AccountID, amount types.Amount) tx.Result {
	if r := Debit(ctx, asset, from, amount); !r.IsSuccess() {
		return r
	}
	return Credit(ctx, asset, to, amount)
}

// Escrow moves one asset between accounts and the module escrow account
// named by the engine configuration.
type Escrow struct {
	Asset types.AccountID
}

// Pull moves amount from an account into escrow.
func (e Escrow) Pull(ctx *tx.ApplyContext, from types.AccountID, amount types.Amount) tx.Result {
	return Transfer(ctx, e.Asset, from, ctx.Config.Module, amount)
}

// Push pays amount out of escrow.
func (e Escrow) Push(ctx *tx.ApplyContext, to types.AccountID, amount types.Amount) tx.Result {
	return Transfer(ctx, e.Asset, ctx.Config.Module, to, amount)
}
