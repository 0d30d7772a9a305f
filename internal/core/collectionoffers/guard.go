package collectionoffers

import "github.com/LeJamon/goMarketd/internal/core/tx"

// enter takes the module's reentrancy lock. Every mutating entry point holds
// it until return, so a collaborator that calls back into the module while
// an operation is in flight is refused with tefREENTRANT.
func (m *Module) enter() (release func(), result tx.Result) {
	if !m.locked.CompareAndSwap(false, true) {
		logger().Warn("reentrant call refused")
		return nil, tx.TefREENTRANT
	}
	return func() { m.locked.Store(false) }, tx.TesSUCCESS
}
