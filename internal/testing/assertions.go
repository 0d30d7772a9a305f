package testing

import (
	"testing"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/stretchr/testify/require"
)

// RequireTxSuccess asserts that a transaction result indicates success.
func RequireTxSuccess(t *testing.T, result TxResult) {
	t.Helper()
	require.True(t, result.Success,
		"Expected transaction success, got %s: %s", result.Code, result.Message)
	require.Equal(t, tx.TesSUCCESS, result.Code)
}

// RequireTxFail asserts that a transaction was rejected with a specific code.
func RequireTxFail(t *testing.T, result TxResult, expected tx.Result) {
	t.Helper()
	require.False(t, result.Success,
		"Expected transaction failure with code %s, but transaction succeeded", expected)
	require.Equal(t, expected, result.Code,
		"Expected failure code %s, got %s: %s", expected, result.Code, result.Message)
	require.Empty(t, result.Events, "rejected transaction emitted events")
}

// RequireBalance asserts that an account holds exactly expected base units.
func RequireBalance(t *testing.T, env *TestEnv, acc *Account, expected uint64) {
	t.Helper()
	actual := env.Balance(acc)
	require.Equal(t, Units(expected).String(), actual.String(),
		"Account %s balance mismatch", acc.Name)
}

// RequireEscrowed asserts the module's native balance.
func RequireEscrowed(t *testing.T, env *TestEnv, expected uint64) {
	t.Helper()
	require.Equal(t, Units(expected).String(), env.Escrowed().String(), "escrow mismatch")
}

// RequireOrder asserts the book of collection holds exactly ids, floor first.
func RequireOrder(t *testing.T, env *TestEnv, collection types.AccountID, ids ...uint64) {
	t.Helper()
	actual := env.Order(collection)
	if len(ids) == 0 {
		require.Empty(t, actual, "expected an empty book")
		return
	}
	require.Equal(t, ids, actual, "book order mismatch")
}

// RequireExtremes asserts the cached floor and ceiling of collection.
func RequireExtremes(t *testing.T, env *TestEnv, collection types.AccountID, floorID, floorAmount, ceilingID, ceilingAmount uint64) {
	t.Helper()
	b := env.Book(collection)
	require.Equal(t, floorID, b.FloorID, "floor id")
	require.Equal(t, Units(floorAmount).String(), b.FloorAmount.String(), "floor amount")
	require.Equal(t, ceilingID, b.CeilingID, "ceiling id")
	require.Equal(t, Units(ceilingAmount).String(), b.CeilingAmount.String(), "ceiling amount")
}

// AssertBalanceChange runs fn and asserts acc's balance moved by delta.
func AssertBalanceChange(t *testing.T, env *TestEnv, acc *Account, delta int64, fn func()) {
	t.Helper()
	before := env.Balance(acc).Big()
	fn()
	after := env.Balance(acc).Big()

	actual := after.Sub(after, before)
	require.Equal(t, delta, actual.Int64(),
		"Account %s balance change mismatch", acc.Name)
}

// AssertNoBalanceChange runs fn and asserts acc's balance stays the same.
func AssertNoBalanceChange(t *testing.T, env *TestEnv, acc *Account, fn func()) {
	t.Helper()
	AssertBalanceChange(t, env, acc, 0, fn)
}
