package testing

import (
	"encoding/json"
	"testing"

	"github.com/LeJamon/goMarketd/internal/config"
	"github.com/LeJamon/goMarketd/internal/core/assets"
	"github.com/LeJamon/goMarketd/internal/core/collectionoffers"
	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/LeJamon/goMarketd/internal/storage/database/memory"
)

// Well-known identities of the test environment.
var (
	Registrar  = types.MustParseAccountID(config.DefaultRegistrar)
	Module     = types.MustParseAccountID(config.DefaultModule)
	Collection = types.MustParseAccountID("0x00000000000000000000000000000000000000c1")
)

// TestEnv manages a test ledger environment for transaction testing.
// It provides a simplified interface for creating accounts, funding them,
// submitting transactions, and verifying results.
type TestEnv struct {
	t        *testing.T
	ledger   *ledger.Ledger
	engine   *tx.Engine
	accounts map[string]*Account

	// committed collects every published result, in commit order
	committed []tx.ApplyResult
}

// NewTestEnv creates a new test environment over an empty in-memory ledger
// with the default module installed.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return NewTestEnvWithModule(t, nil)
}

// NewTestEnvWithModule installs m as the collection offers module for the
// duration of the test. A nil m uses the stock collaborators.
func NewTestEnvWithModule(t *testing.T, m *collectionoffers.Module) *TestEnv {
	t.Helper()
	if m == nil {
		m = collectionoffers.New(collectionoffers.Options{})
	}
	collectionoffers.SetDefault(m)
	t.Cleanup(func() { collectionoffers.SetDefault(collectionoffers.New(collectionoffers.Options{})) })

	l, err := ledger.New(memory.NewDB(), 0)
	if err != nil {
		t.Fatalf("Failed to create ledger: %v", err)
	}
	if err := collectionoffers.Bootstrap(l, collectionoffers.DefaultFindersFeeBps); err != nil {
		t.Fatalf("Failed to bootstrap finders fee: %v", err)
	}

	env := &TestEnv{
		t:        t,
		ledger:   l,
		engine:   tx.NewEngine(l, tx.EngineConfig{Registrar: Registrar, Module: Module}),
		accounts: make(map[string]*Account),
	}
	env.engine.SetEventSink(env)
	return env
}

// Publish records committed results. It makes TestEnv a tx.EventSink.
func (e *TestEnv) Publish(r tx.ApplyResult) {
	e.committed = append(e.committed, r)
}

// Committed returns every committed result so far.
func (e *TestEnv) Committed() []tx.ApplyResult {
	return e.committed
}

// Engine returns the underlying engine.
func (e *TestEnv) Engine() *tx.Engine {
	return e.engine
}

// Ledger returns the committed state.
func (e *TestEnv) Ledger() *ledger.Ledger {
	return e.ledger
}

// Account returns a registered account by name.
func (e *TestEnv) Account(name string) *Account {
	return e.accounts[name]
}

// Fund deposits DefaultFunding to each account.
func (e *TestEnv) Fund(accounts ...*Account) {
	e.t.Helper()
	for _, acc := range accounts {
		e.FundAmount(acc, DefaultFunding)
	}
}

// FundAmount deposits amount base units to acc and registers it.
func (e *TestEnv) FundAmount(acc *Account, amount uint64) {
	e.t.Helper()
	e.accounts[acc.Name] = acc
	e.mustSucceed("fund "+acc.Name, assets.NewDeposit(Registrar, acc.ID, Units(amount)))
}

// Mint creates token id in collection owned by owner.
func (e *TestEnv) Mint(collection types.AccountID, id uint64, owner *Account) {
	e.t.Helper()
	e.mustSucceed("mint", assets.NewTokenMint(Registrar, collection, types.NewTokenID(id), owner.ID))
}

// Approve lets the module move acc's tokens.
func (e *TestEnv) Approve(acc *Account) {
	e.t.Helper()
	e.mustSucceed("approve "+acc.Name, assets.NewModuleApprove(acc.ID, Module, true))
}

// Revoke withdraws the module approval of acc.
func (e *TestEnv) Revoke(acc *Account) {
	e.t.Helper()
	e.mustSucceed("revoke "+acc.Name, assets.NewModuleApprove(acc.ID, Module, false))
}

// SetRoyalty replaces the royalty recipients of collection.
func (e *TestEnv) SetRoyalty(collection types.AccountID, recipients ...entry.RoyaltyRecipient) {
	e.t.Helper()
	e.mustSucceed("royalty", assets.NewRoyaltySet(Registrar, collection, recipients...))
}

// SetProtocolFee routes bps of every fill to recipient.
func (e *TestEnv) SetProtocolFee(recipient *Account, bps uint16) {
	e.t.Helper()
	e.mustSucceed("protocol fee", assets.NewProtocolFeeSet(Registrar, Module, recipient.ID, bps))
}

// Submit applies a transaction and returns the result.
func (e *TestEnv) Submit(t tx.Transaction) TxResult {
	e.t.Helper()
	return newTxResult(e.engine.Apply(t))
}

// SubmitSigned serialises t, signs it with acc's key and applies the
// transaction recovered from the signed envelope.
func (e *TestEnv) SubmitSigned(acc *Account, t tx.Transaction) TxResult {
	e.t.Helper()
	body, err := json.Marshal(t)
	if err != nil {
		e.t.Fatalf("Failed to marshal %s: %v", t.TxType(), err)
	}
	signed, err := tx.Sign(body, acc.Key)
	if err != nil {
		e.t.Fatalf("Failed to sign %s: %v", t.TxType(), err)
	}
	decoded, err := signed.Decode()
	if err != nil {
		return TxResult{Code: tx.TefBAD_SIGNATURE, Message: err.Error()}
	}
	return newTxResult(e.engine.Apply(decoded))
}

func (e *TestEnv) mustSucceed(what string, t tx.Transaction) {
	e.t.Helper()
	res := e.engine.Apply(t)
	if !res.Applied {
		e.t.Fatalf("Failed to %s: %s: %s", what, res.Result, res.Message)
	}
}

// Balance returns the native balance of acc.
func (e *TestEnv) Balance(acc *Account) types.Amount {
	e.t.Helper()
	return e.BalanceOf(acc.ID)
}

// BalanceOf returns the native balance of any account, the module included.
func (e *TestEnv) BalanceOf(id types.AccountID) types.Amount {
	e.t.Helper()
	b, err := assets.BalanceOf(e.ledger, assets.Native, id)
	if err != nil {
		e.t.Fatalf("Failed to read balance of %s: %v", id, err)
	}
	return b
}

// Escrowed returns the module's native balance.
func (e *TestEnv) Escrowed() types.Amount {
	e.t.Helper()
	return e.BalanceOf(Module)
}

// Owner returns the owner of a token, the zero account if unminted.
func (e *TestEnv) Owner(collection types.AccountID, id uint64) types.AccountID {
	e.t.Helper()
	owner, err := assets.OwnerOf(e.ledger, collection, types.NewTokenID(id))
	if err != nil {
		e.t.Fatalf("Failed to read owner: %v", err)
	}
	return owner
}

// Book returns the book header of collection.
func (e *TestEnv) Book(collection types.AccountID) entry.Book {
	e.t.Helper()
	b, err := collectionoffers.Book(e.ledger, collection)
	if err != nil {
		e.t.Fatalf("Failed to read book: %v", err)
	}
	return b
}

// Offer returns an offer record and whether it exists.
func (e *TestEnv) Offer(collection types.AccountID, id uint64) (entry.Offer, bool) {
	e.t.Helper()
	o, ok, err := collectionoffers.Offer(e.ledger, collection, id)
	if err != nil {
		e.t.Fatalf("Failed to read offer %d: %v", id, err)
	}
	return o, ok
}

// Order returns the active offer ids of collection, floor first.
func (e *TestEnv) Order(collection types.AccountID) []uint64 {
	e.t.Helper()
	var ids []uint64
	err := collectionoffers.Walk(e.ledger, collection, func(o entry.Offer) bool {
		ids = append(ids, o.ID)
		return true
	})
	if err != nil {
		e.t.Fatalf("Failed to walk book: %v", err)
	}
	return ids
}

// Check verifies ordering, cached extremes and escrow solvency of every book.
func (e *TestEnv) Check() {
	e.t.Helper()
	if err := collectionoffers.CheckAll(e.ledger, Module); err != nil {
		e.t.Fatalf("State check failed: %v", err)
	}
}
