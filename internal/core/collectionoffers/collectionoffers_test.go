package collectionoffers

import (
	"testing"

	"github.com/LeJamon/goMarketd/internal/core/assets"
	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/LeJamon/goMarketd/internal/storage/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	registrar  = types.MustParseAccountID("0x00000000000000000000000000000000000000f0")
	module     = types.MustParseAccountID("0x00000000000000000000000000000000000000f1")
	treasury   = types.MustParseAccountID("0x00000000000000000000000000000000000000f2")
	artist     = types.MustParseAccountID("0x00000000000000000000000000000000000000e1")
	alice      = types.MustParseAccountID("0x00000000000000000000000000000000000000a1")
	bob        = types.MustParseAccountID("0x00000000000000000000000000000000000000b1")
	carol      = types.MustParseAccountID("0x00000000000000000000000000000000000000c2")
	seller     = types.MustParseAccountID("0x00000000000000000000000000000000000000d1")
	finder     = types.MustParseAccountID("0x00000000000000000000000000000000000000d2")
	collection = types.MustParseAccountID("0x00000000000000000000000000000000000000c1")
)

const startingBalance = 100000

func amt(v uint64) types.Amount { return types.NewAmount(v) }

type fixture struct {
	t *testing.T
	e *tx.Engine
}

// newFixture funds the bidders, mints tokens 1..3 to seller and approves the
// module for seller. m becomes the default module for the test.
func newFixture(t *testing.T, m *Module) *fixture {
	t.Helper()
	if m == nil {
		m = New(Options{})
	}
	SetDefault(m)
	t.Cleanup(func() { SetDefault(New(Options{})) })

	l, err := ledger.New(memory.NewDB(), 0)
	require.NoError(t, err)
	f := &fixture{t: t, e: tx.NewEngine(l, tx.EngineConfig{Registrar: registrar, Module: module})}

	for _, a := range []types.AccountID{alice, bob, carol} {
		f.ok(assets.NewDeposit(registrar, a, amt(startingBalance)))
	}
	for i := uint64(1); i <= 3; i++ {
		f.ok(assets.NewTokenMint(registrar, collection, types.NewTokenID(i), seller))
	}
	f.ok(assets.NewModuleApprove(seller, module, true))
	return f
}

func (f *fixture) apply(t tx.Transaction) tx.Result {
	f.t.Helper()
	return f.e.Apply(t).Result
}

func (f *fixture) ok(t tx.Transaction) {
	f.t.Helper()
	res := f.e.Apply(t)
	require.Equal(f.t, tx.TesSUCCESS, res.Result, "%s: %s", t.TxType(), res.Message)
}

func (f *fixture) create(maker types.AccountID, amount uint64) {
	f.t.Helper()
	f.ok(NewCollectionOfferCreate(maker, collection, amt(amount)))
}

func (f *fixture) order() []uint64 {
	f.t.Helper()
	offers, err := Offers(f.e.Ledger(), collection)
	require.NoError(f.t, err)
	ids := make([]uint64, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.ID)
	}
	return ids
}

func (f *fixture) balance(a types.AccountID) string {
	f.t.Helper()
	b, err := assets.BalanceOf(f.e.Ledger(), assets.Native, a)
	require.NoError(f.t, err)
	return b.String()
}

func (f *fixture) book() entry.Book {
	f.t.Helper()
	b, err := Book(f.e.Ledger(), collection)
	require.NoError(f.t, err)
	return b
}

func (f *fixture) check() {
	f.t.Helper()
	require.NoError(f.t, CheckAll(f.e.Ledger(), module))
}

func TestCreateOrdersTiesFloorward(t *testing.T) {
	f := newFixture(t, nil)

	f.create(alice, 10)
	f.create(bob, 20)
	f.create(carol, 5)
	f.create(alice, 10)

	assert.Equal(t, []uint64{3, 4, 1, 2}, f.order())
	b := f.book()
	assert.Equal(t, uint64(3), b.FloorID)
	assert.Equal(t, "5", b.FloorAmount.String())
	assert.Equal(t, uint64(2), b.CeilingID)
	assert.Equal(t, "20", b.CeilingAmount.String())
	assert.Equal(t, uint64(4), b.Active)
	assert.Equal(t, "45", b.Escrowed.String())
	assert.Equal(t, "45", f.balance(module))
	assert.Equal(t, "99980", f.balance(alice))
	f.check()
}

func TestCreateRejectsBadValue(t *testing.T) {
	f := newFixture(t, nil)

	create := NewCollectionOfferCreate(alice, collection, amt(10))
	create.Value = amt(9)
	assert.Equal(t, tx.TecINCORRECT_VALUE, f.apply(create))

	assert.Equal(t, tx.TemINVALID_AMOUNT, f.apply(NewCollectionOfferCreate(alice, collection, types.Amount{})))
	assert.Equal(t, tx.TecUNFUNDED, f.apply(NewCollectionOfferCreate(alice, collection, amt(startingBalance+1))))

	assert.True(t, f.book().Empty())
	assert.Equal(t, uint64(0), f.book().OfferCount)
	f.check()
}

func TestSetAmountRepositions(t *testing.T) {
	f := newFixture(t, nil)
	f.create(alice, 10)
	f.create(bob, 20)
	f.create(carol, 5)
	f.create(alice, 10)

	raise := NewCollectionOfferSetAmount(carol, collection, 3, amt(50))
	assert.Equal(t, tx.TecINCORRECT_VALUE, f.apply(raise))
	raise.Value = amt(45)
	f.ok(raise)
	assert.Equal(t, []uint64{4, 1, 2, 3}, f.order())
	assert.Equal(t, "99950", f.balance(carol))

	lower := NewCollectionOfferSetAmount(bob, collection, 2, amt(10))
	f.ok(lower)
	assert.Equal(t, []uint64{2, 4, 1, 3}, f.order())
	assert.Equal(t, "99990", f.balance(bob))

	b := f.book()
	assert.Equal(t, "80", b.Escrowed.String())
	assert.Equal(t, "10", b.FloorAmount.String())
	assert.Equal(t, "50", b.CeilingAmount.String())
	f.check()
}

func TestSetAmountErrors(t *testing.T) {
	f := newFixture(t, nil)
	f.create(alice, 10)

	assert.Equal(t, tx.TecOFFER_NOT_FOUND, f.apply(NewCollectionOfferSetAmount(alice, collection, 9, amt(5))))
	assert.Equal(t, tx.TecUNAUTHORIZED, f.apply(NewCollectionOfferSetAmount(bob, collection, 1, amt(5))))
	assert.Equal(t, tx.TemINVALID_AMOUNT, f.apply(NewCollectionOfferSetAmount(alice, collection, 1, types.Amount{})))

	same := NewCollectionOfferSetAmount(alice, collection, 1, amt(10))
	same.Value = amt(1)
	assert.Equal(t, tx.TecINCORRECT_VALUE, f.apply(same))
	same.Value = types.Amount{}
	f.ok(same)

	assert.Equal(t, []uint64{1}, f.order())
	f.check()
}

func TestCancelRoundTrip(t *testing.T) {
	f := newFixture(t, nil)
	f.create(alice, 10)
	f.create(bob, 20)
	f.ok(NewCollectionOfferSetFindersFee(alice, collection, 1, 0))

	f.ok(NewCollectionOfferCancel(alice, collection, 1))

	assert.Equal(t, []uint64{2}, f.order())
	assert.Equal(t, units(startingBalance), f.balance(alice))
	status, found, err := OfferStatus(f.e.Ledger(), collection, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entry.StatusCanceled, status)
	_, set, err := FindersFeeOverride(f.e.Ledger(), collection, 1)
	require.NoError(t, err)
	assert.False(t, set)

	assert.Equal(t, tx.TecOFFER_NOT_FOUND, f.apply(NewCollectionOfferCancel(alice, collection, 1)))
	f.check()
}

func TestCancelUnauthorizedChangesNothing(t *testing.T) {
	f := newFixture(t, nil)
	f.create(alice, 10)
	f.create(bob, 20)
	before := f.book()

	assert.Equal(t, tx.TecUNAUTHORIZED, f.apply(NewCollectionOfferCancel(bob, collection, 1)))
	assert.Equal(t, tx.TecOFFER_NOT_FOUND, f.apply(NewCollectionOfferCancel(bob, collection, 7)))

	withValue := NewCollectionOfferCancel(alice, collection, 1)
	withValue.Value = amt(1)
	assert.Equal(t, tx.TecINCORRECT_VALUE, f.apply(withValue))

	assert.Equal(t, before, f.book())
	assert.Equal(t, []uint64{1, 2}, f.order())
	f.check()
}

func TestFillPaysOutAndAdvancesCeiling(t *testing.T) {
	f := newFixture(t, nil)
	f.ok(assets.NewRoyaltySet(registrar, collection, entry.RoyaltyRecipient{Account: artist, Bps: 500}))
	f.ok(assets.NewProtocolFeeSet(registrar, module, treasury, 250))
	f.create(alice, 5000)
	f.create(bob, 10000)

	res := f.e.Apply(NewCollectionOfferFill(seller, collection, types.NewTokenID(1), amt(10000), finder))
	require.Equal(t, tx.TesSUCCESS, res.Result, res.Message)

	// 10000 - 500 royalty = 9500; 2.5% protocol = 237; 1% of 9263 = 92.
	assert.Equal(t, "500", f.balance(artist))
	assert.Equal(t, "237", f.balance(treasury))
	assert.Equal(t, "92", f.balance(finder))
	assert.Equal(t, "9171", f.balance(seller))
	assert.Equal(t, "5000", f.balance(module))

	owner, err := assets.OwnerOf(f.e.Ledger(), collection, types.NewTokenID(1))
	require.NoError(t, err)
	assert.Equal(t, bob, owner)

	b := f.book()
	assert.Equal(t, uint64(1), b.CeilingID)
	assert.Equal(t, "5000", b.CeilingAmount.String())
	status, _, err := OfferStatus(f.e.Ledger(), collection, 2)
	require.NoError(t, err)
	assert.Equal(t, entry.StatusFilled, status)

	var filled *OfferFilled
	for _, ev := range res.Events {
		if e, ok := ev.(OfferFilled); ok {
			filled = &e
		}
	}
	require.NotNil(t, filled)
	assert.Equal(t, "10000", filled.Offer.Amount.String())
	assert.Equal(t, "9171", filled.Proceeds.String())
	assert.Equal(t, "92", filled.FindersFee.String())
	f.check()
}

func TestFillRejections(t *testing.T) {
	f := newFixture(t, nil)
	token := types.NewTokenID(1)

	assert.Equal(t, tx.TecNO_ACTIVE_OFFER, f.apply(NewCollectionOfferFill(seller, collection, token, types.Amount{}, types.ZeroAccount)))

	f.create(alice, 20)
	before := f.book()

	assert.Equal(t, tx.TecPRICE_BELOW_MINIMUM, f.apply(NewCollectionOfferFill(seller, collection, token, amt(25), types.ZeroAccount)))
	assert.Equal(t, tx.TecNOT_TOKEN_OWNER, f.apply(NewCollectionOfferFill(bob, collection, token, amt(20), types.ZeroAccount)))
	assert.Equal(t, tx.TecNOT_TOKEN_OWNER, f.apply(NewCollectionOfferFill(seller, collection, types.NewTokenID(99), amt(20), types.ZeroAccount)))

	f.ok(assets.NewModuleApprove(seller, module, false))
	assert.Equal(t, tx.TecNO_APPROVAL, f.apply(NewCollectionOfferFill(seller, collection, token, amt(20), types.ZeroAccount)))

	assert.Equal(t, before, f.book())
	assert.Equal(t, "0", f.balance(seller))
	owner, err := assets.OwnerOf(f.e.Ledger(), collection, token)
	require.NoError(t, err)
	assert.Equal(t, seller, owner)
	f.check()
}

func TestFindersFeeTriState(t *testing.T) {
	f := newFixture(t, nil)

	bps, err := FindersFeeBps(f.e.Ledger())
	require.NoError(t, err)
	assert.Equal(t, DefaultFindersFeeBps, bps)

	assert.Equal(t, tx.TecUNAUTHORIZED, f.apply(NewFindersFeeSet(alice, 300)))
	assert.Equal(t, tx.TecUNAUTHORIZED, f.apply(NewFindersFeeSet(alice, 10001)))
	assert.Equal(t, tx.TemINVALID_BPS, f.apply(NewFindersFeeSet(registrar, 10001)))
	f.ok(NewFindersFeeSet(registrar, 300))

	f.create(alice, 1000)
	f.create(bob, 1000)
	f.create(carol, 1000)
	f.ok(NewCollectionOfferSetFindersFee(bob, collection, 2, 0))
	f.ok(NewCollectionOfferSetFindersFee(carol, collection, 3, 1000))
	assert.Equal(t, tx.TecUNAUTHORIZED, f.apply(NewCollectionOfferSetFindersFee(alice, collection, 3, 0)))
	assert.Equal(t, tx.TecOFFER_NOT_FOUND, f.apply(NewCollectionOfferSetFindersFee(alice, collection, 8, 0)))
	assert.Equal(t, tx.TecUNAUTHORIZED, f.apply(NewCollectionOfferSetFindersFee(alice, collection, 3, 10001)))
	assert.Equal(t, tx.TemINVALID_BPS, f.apply(NewCollectionOfferSetFindersFee(carol, collection, 3, 10001)))

	for id, want := range map[uint64]uint16{1: 300, 2: 0, 3: 1000} {
		got, err := ResolveFindersFee(f.e.Ledger(), collection, id)
		require.NoError(t, err)
		assert.Equal(t, want, got, "offer %d", id)
	}

	// Equal offers are filled oldest first.
	f.ok(NewCollectionOfferFill(seller, collection, types.NewTokenID(1), amt(1000), finder))
	assert.Equal(t, "30", f.balance(finder))
	f.ok(NewCollectionOfferFill(seller, collection, types.NewTokenID(2), amt(1000), finder))
	assert.Equal(t, "30", f.balance(finder))
	f.ok(NewCollectionOfferFill(seller, collection, types.NewTokenID(3), amt(1000), finder))
	assert.Equal(t, "130", f.balance(finder))

	assert.True(t, f.book().Empty())
	f.check()
}

func TestFillWithoutFinderPaysNoFee(t *testing.T) {
	f := newFixture(t, nil)
	f.create(alice, 1000)

	f.ok(NewCollectionOfferFill(seller, collection, types.NewTokenID(1), amt(1000), types.ZeroAccount))
	assert.Equal(t, "1000", f.balance(seller))
	assert.Equal(t, "0", f.balance(module))
	f.check()
}

func TestViewsOnEmptyBook(t *testing.T) {
	f := newFixture(t, nil)
	r := f.e.Ledger()

	id, err := FloorOfferID(r, collection)
	require.NoError(t, err)
	assert.Zero(t, id)
	id, err = CeilingOfferID(r, collection)
	require.NoError(t, err)
	assert.Zero(t, id)
	a, err := CeilingOfferAmount(r, collection)
	require.NoError(t, err)
	assert.True(t, a.IsZero())
	a, err = FloorOfferAmount(r, collection)
	require.NoError(t, err)
	assert.True(t, a.IsZero())

	_, found, err := Offer(r, collection, 0)
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = OfferStatus(r, collection, 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func units(v uint64) string { return amt(v).String() }
