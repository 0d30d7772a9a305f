package tx

import (
	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/types"
)

// Event is a notification emitted by a transaction. Events are only
// delivered when the transaction commits.
type Event interface {
	EventType() string
}

// ApplyContext provides all the state and helpers needed to apply a transaction.
type ApplyContext struct {
	// View is the transaction's ApplyStateTable
	View LedgerView

	// Account is the caller
	Account types.AccountID

	// Value is the native currency attached to the call
	Value types.Amount

	Config   EngineConfig
	TxHash   [32]byte
	Sequence uint64

	events *[]Event
}

// NewApplyContext builds a context over view. Used by the engine and by
// tests that drive entry points directly.
func NewApplyContext(view LedgerView, account types.AccountID, value types.Amount, config EngineConfig) *ApplyContext {
	return &ApplyContext{
		View:    view,
		Account: account,
		Value:   value,
		Config:  config,
		events:  new([]Event),
	}
}

// As returns a context sharing view and event log but acting for account
// with no attached value. Collaborators use it to call back into entry points.
func (ctx *ApplyContext) As(account types.AccountID) *ApplyContext {
	c := *ctx
	c.Account = account
	c.Value = types.Amount{}
	return &c
}

// Emit records an event for delivery after commit.
func (ctx *ApplyContext) Emit(e Event) {
	*ctx.events = append(*ctx.events, e)
}

// Events returns the events emitted so far.
func (ctx *ApplyContext) Events() []Event {
	return *ctx.events
}

// ReadEntry decodes the entry at k. It reports false when absent.
func (ctx *ApplyContext) ReadEntry(k keylet.Keylet, out entry.Entry) (bool, error) {
	return ledger.ReadEntry(ctx.View, k, out)
}

// InsertEntry encodes and inserts e at k.
func (ctx *ApplyContext) InsertEntry(k keylet.Keylet, e entry.Entry) error {
	data, err := entry.Encode(e)
	if err != nil {
		return err
	}
	return ctx.View.Insert(k, data)
}

// UpdateEntry encodes e over the existing entry at k.
func (ctx *ApplyContext) UpdateEntry(k keylet.Keylet, e entry.Entry) error {
	data, err := entry.Encode(e)
	if err != nil {
		return err
	}
	return ctx.View.Update(k, data)
}

// PutEntry inserts or updates e at k.
func (ctx *ApplyContext) PutEntry(k keylet.Keylet, e entry.Entry) error {
	exists, err := ctx.View.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return ctx.UpdateEntry(k, e)
	}
	return ctx.InsertEntry(k, e)
}

// EraseEntry removes the entry at k.
func (ctx *ApplyContext) EraseEntry(k keylet.Keylet) error {
	return ctx.View.Erase(k)
}
