// Package testing provides test infrastructure for collection offer
// scenarios.
//
// It follows the shape of a jtx-style harness: a TestEnv owns a fresh
// in-memory ledger and engine, accounts are derived deterministically from
// names, and assertion helpers read the committed state back.
//
// # Basic Usage
//
//	func TestFill(t *testing.T) {
//	    env := testing.NewTestEnv(t)
//
//	    alice := testing.NewAccount("alice")
//	    seller := testing.NewAccount("seller")
//	    env.Fund(alice)
//	    env.Mint(testing.Collection, 1, seller)
//	    env.Approve(seller)
//
//	    result := env.SubmitSigned(alice, builders.Bid(alice.ID, testing.Collection, 500).Build())
//	    testing.RequireTxSuccess(t, result)
//
//	    result = env.Submit(builders.Fill(seller.ID, testing.Collection, 1).Build())
//	    testing.RequireTxSuccess(t, result)
//	}
//
// # TestEnv
//
//	env.Fund(alice)                  // deposit DefaultFunding
//	env.FundAmount(bob, 500)         // deposit a specific amount
//	env.Balance(alice)               // native balance
//	env.Order(testing.Collection)    // offer ids, floor first
//	env.Check()                      // book and escrow invariants
//
// Submit applies a transaction as-is. SubmitSigned goes through the same
// sign and verify path as the submit API, so the JSON form of the
// transaction is exercised too.
//
// # Assertions
//
//	testing.RequireTxSuccess(t, result)
//	testing.RequireTxFail(t, result, tx.TecUNAUTHORIZED)
//	testing.RequireBalance(t, env, alice, 900)
//	testing.RequireOrder(t, env, testing.Collection, 3, 1, 2)
package testing
