package assets

import (
	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/types"
)

// Payout is one royalty recipient's share of a sale.
type Payout struct {
	Recipient types.AccountID
	Amount    types.Amount
}

// RoyaltyRegistry resolves royalties from per-collection schedules.
type RoyaltyRegistry struct{}

// Royalties returns the payouts owed on a sale of amount. Collections
// without a schedule owe none.
func (RoyaltyRegistry) Royalties(r ledger.Reader, collection types.AccountID, _ types.TokenID, amount types.Amount) ([]Payout, error) {
	var sched entry.Royalty
	found, err := ledger.ReadEntry(r, keylet.Royalty(collection), &sched)
	if err != nil || !found {
		return nil, err
	}
	payouts := make([]Payout, 0, len(sched.Recipients))
	for _, rcpt := range sched.Recipients {
		payouts = append(payouts, Payout{Recipient: rcpt.Account, Amount: amount.MulBps(rcpt.Bps)})
	}
	return payouts, nil
}

// ProtocolFeeRegistry resolves the protocol fee charged to a module.
type ProtocolFeeRegistry struct{}

// ProtocolFee returns the fee recipient and rate for module. A module with
// no setting pays nothing.
func (ProtocolFeeRegistry) ProtocolFee(r ledger.Reader, module types.AccountID) (types.AccountID, uint16, error) {
	var fee entry.ProtocolFee
	found, err := ledger.ReadEntry(r, keylet.ProtocolFee(module), &fee)
	if err != nil || !found {
		return types.ZeroAccount, 0, err
	}
	return fee.Recipient, fee.Bps, nil
}
