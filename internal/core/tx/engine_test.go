package tx

import (
	"testing"

	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct{ Bps uint16 }

func (testEvent) EventType() string { return "TestEvent" }

// feeWrite writes the global finders fee and then returns Outcome, so tests
// can check that non-success results leave no trace.
type feeWrite struct {
	BaseTx
	Bps     uint16
	Outcome Result
	Panic   bool
}

func (f *feeWrite) Validate() error {
	if err := f.BaseTx.Validate(); err != nil {
		return err
	}
	return CheckBps(f.Bps)
}

func (f *feeWrite) Apply(ctx *ApplyContext) Result {
	if err := ctx.PutEntry(keylet.FindersFee(), &entry.FindersFee{Bps: f.Bps}); err != nil {
		return TefINTERNAL
	}
	ctx.Emit(testEvent{Bps: f.Bps})
	if f.Panic {
		panic("boom")
	}
	return f.Outcome
}

type recordingSink struct{ results []ApplyResult }

func (s *recordingSink) Publish(r ApplyResult) { s.results = append(s.results, r) }

var alice = types.MustParseAccountID("0x00000000000000000000000000000000000000a1")

func newFeeWrite(bps uint16, outcome Result) *feeWrite {
	return &feeWrite{BaseTx: *NewBaseTx(TypeFindersFeeSet, alice), Bps: bps, Outcome: outcome}
}

func TestEngineCommitsOnSuccess(t *testing.T) {
	base := newBase(t)
	engine := NewEngine(base, EngineConfig{})
	sink := &recordingSink{}
	engine.SetEventSink(sink)

	res := engine.Apply(newFeeWrite(300, TesSUCCESS))
	require.Equal(t, TesSUCCESS, res.Result)
	assert.True(t, res.Applied)
	assert.Equal(t, uint64(1), res.Sequence)
	require.Len(t, res.Events, 1)

	var fee entry.FindersFee
	_, err := ledger.ReadEntry(base, keylet.FindersFee(), &fee)
	require.NoError(t, err)
	assert.Equal(t, uint16(300), fee.Bps)

	seq, err := engine.Sequence()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq)
	require.Len(t, sink.results, 1)
}

func TestEngineDiscardsOnFailure(t *testing.T) {
	base := newBase(t)
	engine := NewEngine(base, EngineConfig{})
	sink := &recordingSink{}
	engine.SetEventSink(sink)

	for _, f := range []*feeWrite{
		newFeeWrite(300, TecUNAUTHORIZED),
		{BaseTx: *NewBaseTx(TypeFindersFeeSet, alice), Bps: 1, Panic: true},
	} {
		res := engine.Apply(f)
		assert.False(t, res.Applied)
		assert.Empty(t, res.Events)
	}

	exists, err := base.Exists(keylet.FindersFee())
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, sink.results)

	seq, err := engine.Sequence()
	require.NoError(t, err)
	assert.Zero(t, seq)
}

func TestEnginePreflight(t *testing.T) {
	engine := NewEngine(newBase(t), EngineConfig{})

	res := engine.Apply(newFeeWrite(10001, TesSUCCESS))
	assert.Equal(t, TemINVALID_BPS, res.Result)

	noAccount := newFeeWrite(1, TesSUCCESS)
	noAccount.Account = types.ZeroAccount
	assert.Equal(t, TemINVALID_ACCOUNT, engine.Apply(noAccount).Result)
}

func TestResultCategory(t *testing.T) {
	assert.Equal(t, CategoryAuthorization, TecUNAUTHORIZED.Category())
	assert.Equal(t, CategoryValidity, TemINVALID_AMOUNT.Category())
	assert.Equal(t, CategoryValidity, TecOFFER_NOT_FOUND.Category())
	assert.Equal(t, CategoryEconomic, TecPRICE_BELOW_MINIMUM.Category())
	assert.Equal(t, CategoryEconomic, TecINCORRECT_VALUE.Category())
	assert.Equal(t, CategoryOwnership, TecNOT_TOKEN_OWNER.Category())
	assert.Equal(t, CategoryInternal, TefREENTRANT.Category())
	assert.True(t, TecUNFUNDED.IsTec())
	assert.True(t, TemINVALID_BPS.IsTem())
	assert.False(t, TecUNFUNDED.IsApplied())
	assert.Equal(t, "tecPRICE_BELOW_MINIMUM", TecPRICE_BELOW_MINIMUM.String())
}
